package formkit

import (
	"bytes"
	"fmt"
	"io"
	"iter"

	"github.com/gobeaver/formkit/streamsearch"
)

// Form is an ordered list of parts bound to a boundary, ready to be encoded
// as a multipart/form-data body.
//
// The encoded body is produced chunk by chunk: a leader (delimiter line and
// headers) and the raw content for every part, then the closing delimiter.
// Nothing is concatenated up front, so the memory held by an encoding is the
// parts themselves plus one leader at a time.
type Form struct {
	boundary string
	parts    []*Part
	progress ProgressFunc
}

// NewForm creates a form. The boundary is trusted: use Validate to check it
// against the parts.
func NewForm(boundary string, parts ...*Part) *Form {
	return &Form{
		boundary: boundary,
		parts:    parts,
	}
}

// NewFormRandom creates a form with a random boundary
func NewFormRandom(parts ...*Part) (*Form, error) {
	boundary, err := RandomBoundary()
	if err != nil {
		return nil, err
	}
	return NewForm(boundary, parts...), nil
}

// WithProgress registers a callback invoked as the body is read through
// Reader or WriteTo.
func (f *Form) WithProgress(fn ProgressFunc) *Form {
	f.progress = fn
	return f
}

func (f *Form) Boundary() string { return f.boundary }
func (f *Form) Parts() []*Part   { return f.parts }

// ContentType returns the Content-Type header value for the encoded body
func (f *Form) ContentType() string {
	return MIMETypeMultipartForm + "; boundary=" + f.boundary
}

// ContentLength returns the exact size of the encoded body
func (f *Form) ContentLength() int64 {
	var n int64
	for _, p := range f.parts {
		n += p.leaderLen(f.boundary) + p.Size()
	}
	return n + int64(len(f.trailer()))
}

func (f *Form) trailer() []byte {
	return []byte("\r\n--" + f.boundary + "--\r\n")
}

// Chunks returns the encoded body as a lazy sequence of chunks. Leaders are
// rendered as the sequence reaches them; content chunks alias the parts'
// content and must not be modified.
func (f *Form) Chunks() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for _, p := range f.parts {
			if !yield(p.leader(f.boundary)) {
				return
			}
			if len(p.content) > 0 && !yield(p.content) {
				return
			}
		}
		yield(f.trailer())
	}
}

// Reader returns a reader over the encoded body. Each call starts a new,
// independent encoding.
func (f *Form) Reader() io.Reader {
	var r io.Reader = &formReader{form: f}
	if f.progress != nil {
		r = newProgressReader(r, f.progress, f.ContentLength())
	}
	return r
}

// WriteTo writes the encoded body to w
func (f *Form) WriteTo(w io.Writer) (int64, error) {
	var written int64
	total := f.ContentLength()
	for chunk := range f.Chunks() {
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
		if f.progress != nil {
			f.progress(written, total)
		}
	}
	return written, nil
}

// Bytes returns the whole encoded body. Prefer Reader or WriteTo for large
// forms.
func (f *Form) Bytes() []byte {
	var b bytes.Buffer
	b.Grow(int(f.ContentLength()))
	_, _ = f.WriteTo(&b)
	return b.Bytes()
}

// Validate checks what encoding otherwise assumes: a well-formed boundary,
// non-empty and unique part names, and no boundary delimiter inside any part.
func (f *Form) Validate() error {
	if err := ValidateBoundary(f.boundary); err != nil {
		return err
	}

	delimiter, err := streamsearch.New([]byte("--" + f.boundary))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBoundary, err)
	}

	seen := make(map[string]int, len(f.parts))
	for i, p := range f.parts {
		if p == nil || p.name == "" {
			return &PartError{Op: "validate", Index: i, Err: ErrInvalidName}
		}
		if first, ok := seen[p.name]; ok {
			return &PartError{Op: "validate", Index: i, Name: p.name,
				Err: fmt.Errorf("%w: also used by part %d", ErrDuplicateName, first)}
		}
		seen[p.name] = i

		for _, field := range [][]byte{[]byte(p.name), []byte(p.fileName), []byte(p.contentType), []byte(p.transferEncoding), p.content} {
			if _, err := delimiter.Search(bytes.NewReader(field)); err == nil {
				return &PartError{Op: "validate", Index: i, Name: p.name, Err: ErrBoundaryCollision}
			}
		}
	}
	return nil
}

// formReader pulls chunks from a form one at a time.
type formReader struct {
	form  *Form
	next  int // index of the next chunk to render
	chunk []byte
}

func (r *formReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.chunk) == 0 {
			chunk, ok := r.render(r.next)
			if !ok {
				if n == 0 {
					return 0, io.EOF
				}
				return n, nil
			}
			r.next++
			r.chunk = chunk
			continue
		}
		c := copy(p[n:], r.chunk)
		r.chunk = r.chunk[c:]
		n += c
	}
	return n, nil
}

// render returns chunk i of the encoding: even indexes are leaders, odd
// indexes contents, and the last one the trailer.
func (r *formReader) render(i int) ([]byte, bool) {
	parts := r.form.parts
	switch {
	case i < 2*len(parts) && i%2 == 0:
		return parts[i/2].leader(r.form.boundary), true
	case i < 2*len(parts):
		return parts[i/2].content, true
	case i == 2*len(parts):
		return r.form.trailer(), true
	default:
		return nil, false
	}
}
