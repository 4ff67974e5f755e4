package formkit

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vfaronov/httpheader"
)

// Part is a single section of a multipart/form-data body.
//
// A Part is built once, either with NewPart and the With* setters or by
// ParsePart, and treated as read-only afterwards.
type Part struct {
	name             string
	fileName         string
	contentType      string
	transferEncoding string
	content          []byte
}

// NewPart creates a part with the given field name and a text/plain
// content type.
func NewPart(name string) *Part {
	return &Part{
		name:        name,
		contentType: MIMETypeTextPlain,
		content:     []byte{},
	}
}

// NewFilePart creates a file part. The content type is guessed from the file
// name and content.
func NewFilePart(name, fileName string, content []byte) *Part {
	return NewPart(name).
		WithFileName(fileName).
		WithContentType(GuessContentType(fileName, content)).
		WithContent(content)
}

// PartFromFile reads a local file into a file part named name.
func PartFromFile(name, path string) (*Part, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("creating part %q: path %q is a directory", name, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewFilePart(name, filepath.Base(path), content), nil
}

// WithContentType sets the content type. An empty value restores the
// RFC 7578 default of text/plain.
func (p *Part) WithContentType(contentType string) *Part {
	if contentType == "" {
		contentType = MIMETypeTextPlain
	}
	p.contentType = contentType
	return p
}

// WithContent sets the raw content. The slice is not copied.
func (p *Part) WithContent(content []byte) *Part {
	if content == nil {
		content = []byte{}
	}
	p.content = content
	return p
}

// WithContentString sets the raw content from a string
func (p *Part) WithContentString(content string) *Part {
	p.content = []byte(content)
	return p
}

// WithFileName sets the filename parameter of the Content-Disposition header
func (p *Part) WithFileName(fileName string) *Part {
	p.fileName = fileName
	return p
}

// WithTransferEncoding sets the Content-Transfer-Encoding header. The content
// itself is never encoded or decoded.
func (p *Part) WithTransferEncoding(transferEncoding string) *Part {
	p.transferEncoding = transferEncoding
	return p
}

func (p *Part) Name() string             { return p.name }
func (p *Part) FileName() string         { return p.fileName }
func (p *Part) ContentType() string      { return p.contentType }
func (p *Part) TransferEncoding() string { return p.transferEncoding }
func (p *Part) Content() []byte          { return p.content }

// Size returns the length of the content in bytes
func (p *Part) Size() int64 {
	return int64(len(p.content))
}

// IsFile reports whether the part carries a filename
func (p *Part) IsFile() bool {
	return !isBlank(p.fileName)
}

// leader renders the delimiter line and header block that precede the
// part's content on the wire.
func (p *Part) leader(boundary string) []byte {
	var b bytes.Buffer
	b.Grow(len(boundary) + len(p.name) + len(p.fileName) + len(p.contentType) + 96)

	b.WriteString("\r\n--")
	b.WriteString(boundary)
	b.WriteString("\r\nContent-Disposition: form-data; name=\"")
	b.WriteString(p.name)
	b.WriteByte('"')
	if !isBlank(p.fileName) {
		b.WriteString("; filename=\"")
		b.WriteString(p.fileName)
		b.WriteByte('"')
	}
	b.WriteString("\r\nContent-Type: ")
	b.WriteString(p.contentType)
	b.WriteString("\r\n")
	if !isBlank(p.transferEncoding) {
		b.WriteString("Content-Transfer-Encoding: ")
		b.WriteString(p.transferEncoding)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	return b.Bytes()
}

// leaderLen is len(p.leader(boundary)) without rendering it.
func (p *Part) leaderLen(boundary string) int64 {
	n := len("\r\n--") + len(boundary) +
		len("\r\nContent-Disposition: form-data; name=\"") + len(p.name) + 1 +
		len("\r\nContent-Type: ") + len(p.contentType) + 2 +
		2
	if !isBlank(p.fileName) {
		n += len("; filename=\"") + len(p.fileName) + 1
	}
	if !isBlank(p.transferEncoding) {
		n += len("Content-Transfer-Encoding: ") + len(p.transferEncoding) + 2
	}
	return int64(n)
}

// dispositionName matches the name parameter of a Content-Disposition value.
// The value runs to the next quote character; an unquoted value may swallow
// later parameters when nothing but a ';', whitespace followed by 'b', or the
// end of the value closes it.
var dispositionName = regexp.MustCompile(`\bname=(?:"([^'"]+)"|'([^'"]+)'|([^'"]+))(?:;|\sb|$)`)

// plainFileName matches the filename parameter as it is written on the wire.
// A quoted value runs to the first quote followed by ';' or the end of the
// value, so backslashes and inner quotes are kept as they are.
var plainFileName = regexp.MustCompile(`\b(?i:filename)=(?:"(.*?)"\s*(?:;|$)|([^";][^;]*))`)

// dispositionFileName returns the filename of a Content-Disposition value. An
// RFC 8187 filename* parameter takes precedence over filename.
func dispositionFileName(value string) string {
	if strings.Contains(strings.ToLower(value), "filename*=") {
		_, fileName, _ := httpheader.ContentDisposition(http.Header{"Content-Disposition": {value}})
		if fileName != "" {
			return fileName
		}
	}
	m := plainFileName.FindStringSubmatch(value)
	if m == nil {
		return ""
	}
	return firstNonEmpty(m[1], strings.TrimSpace(m[2]))
}

// ParsePart parses one section of a multipart body: a CRLF-terminated header
// block, an empty line, then the content.
//
// Header names are matched case-insensitively and unknown headers are
// skipped. Lines end only at CR LF; a bare LF is ordinary data, so an
// unquoted name closing the header line may run across LF-separated lines. A
// filename is taken verbatim, without unescaping. A missing
// Content-Type defaults to text/plain (RFC 7578 section 4.4). Everything after
// the empty line is the content, unmodified.
//
// If no name can be found in a Content-Disposition header, ParsePart returns
// ErrNoPartName. Header text that is not valid UTF-8 yields ErrInvalidHeader.
func ParsePart(data []byte) (*Part, error) {
	var (
		name, fileName, transferEncoding string
		contentType                      string
		haveName, haveContentType        bool
	)

	pos := 0
	for {
		line, next, ok := nextLine(data, pos)
		pos = next
		if !ok || len(line) == 0 {
			break
		}
		if !utf8.Valid(line) {
			return nil, fmt.Errorf("%w: header line is not valid UTF-8", ErrInvalidHeader)
		}

		key, value, found := strings.Cut(string(line), ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "content-disposition":
			if m := dispositionName.FindStringSubmatch(value); m != nil {
				name = firstNonEmpty(m[1:]...)
				haveName = true
			}
			fileName = dispositionFileName(value)
		case "content-type":
			contentType = value
			haveContentType = true
		case "content-transfer-encoding":
			transferEncoding = value
		}
	}

	if !haveName {
		return nil, ErrNoPartName
	}
	if !haveContentType {
		contentType = MIMETypeTextPlain
	}

	return &Part{
		name:             name,
		fileName:         fileName,
		contentType:      contentType,
		transferEncoding: transferEncoding,
		content:          bytes.Clone(data[pos:]),
	}, nil
}

// nextLine returns the line starting at pos, without its CR LF, and the
// position after it. ok is false once data is exhausted. A final line with no
// CR LF loses its last byte, which is taken to be a dangling CR.
func nextLine(data []byte, pos int) (line []byte, next int, ok bool) {
	if pos >= len(data) {
		return nil, len(data), false
	}
	rest := data[pos:]
	if i := bytes.Index(rest, []byte("\r\n")); i >= 0 {
		return rest[:i], pos + i + 2, true
	}
	return rest[:len(rest)-1], len(data), true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
