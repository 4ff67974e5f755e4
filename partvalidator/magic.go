package partvalidator

import (
	"bytes"
	"net/http"
	"strings"
)

// sniffLen is how much content detection looks at
const sniffLen = 512

// signature is a binary file signature at a fixed offset
type signature struct {
	contentType string
	offset      int
	magic       []byte
}

// signatures only covers binary formats: text formats are left to
// http.DetectContentType so that text fields never trip a declared-type
// check.
var signatures = []signature{
	{"image/jpeg", 0, []byte{0xFF, 0xD8, 0xFF}},
	{"image/png", 0, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{"image/gif", 0, []byte("GIF87a")},
	{"image/gif", 0, []byte("GIF89a")},
	{"image/webp", 8, []byte("WEBP")},
	{"image/bmp", 0, []byte("BM")},
	{"image/tiff", 0, []byte{0x49, 0x49, 0x2A, 0x00}},
	{"image/tiff", 0, []byte{0x4D, 0x4D, 0x00, 0x2A}},
	{"image/heic", 4, []byte("ftypheic")},
	{"image/avif", 4, []byte("ftypavif")},

	{"application/pdf", 0, []byte("%PDF-")},

	{"application/zip", 0, []byte{0x50, 0x4B, 0x03, 0x04}},
	{"application/zip", 0, []byte{0x50, 0x4B, 0x05, 0x06}},
	{"application/gzip", 0, []byte{0x1F, 0x8B}},
	{"application/x-tar", 257, []byte("ustar")},
	{"application/x-7z-compressed", 0, []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}},
	{"application/x-bzip2", 0, []byte("BZh")},
	{"application/x-xz", 0, []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}},

	{"audio/mpeg", 0, []byte("ID3")},
	{"audio/flac", 0, []byte("fLaC")},
	{"audio/ogg", 0, []byte("OggS")},
	{"audio/wav", 0, []byte("RIFF")},
	{"audio/midi", 0, []byte("MThd")},

	{"video/webm", 0, []byte{0x1A, 0x45, 0xDF, 0xA3}},
	{"video/mp4", 4, []byte("ftyp")},
	{"video/x-flv", 0, []byte("FLV")},

	{"application/x-msdownload", 0, []byte("MZ")},
	{"application/x-mach-binary", 0, []byte{0xCF, 0xFA, 0xED, 0xFE}},
	{"application/x-mach-binary", 0, []byte{0xCE, 0xFA, 0xED, 0xFE}},
	{"application/x-executable", 0, []byte{0x7F, 'E', 'L', 'F'}},

	{"font/woff", 0, []byte("wOFF")},
	{"font/woff2", 0, []byte("wOF2")},
}

// DetectContentType returns the media type of content, without parameters.
// Known binary signatures win; everything else goes through
// http.DetectContentType.
func DetectContentType(content []byte) string {
	if len(content) == 0 {
		return "application/octet-stream"
	}
	if len(content) > sniffLen {
		content = content[:sniffLen]
	}
	if contentType := detectBySignature(content); contentType != "" {
		return contentType
	}
	return mediaType(http.DetectContentType(content))
}

// detectBySignature returns the type of the first matching signature, or ""
func detectBySignature(data []byte) string {
	for _, sig := range signatures {
		end := sig.offset + len(sig.magic)
		if end > len(data) {
			continue
		}
		if bytes.Equal(data[sig.offset:end], sig.magic) {
			return refine(data, sig.contentType)
		}
	}
	return ""
}

// refine separates formats that share a container signature
func refine(data []byte, contentType string) string {
	switch contentType {
	case "audio/wav":
		if len(data) >= 12 {
			switch string(data[8:12]) {
			case "AVI ":
				return "video/x-msvideo"
			case "WEBP":
				return "image/webp"
			}
		}
	case "application/zip":
		s := string(data)
		switch {
		case strings.Contains(s, "[Content_Types]") || strings.Contains(s, "word/"):
			return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		case strings.Contains(s, "xl/"):
			return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case strings.Contains(s, "ppt/"):
			return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
		}
	case "video/mp4":
		if len(data) >= 12 {
			switch string(data[8:12]) {
			case "M4A ":
				return "audio/mp4"
			case "qt  ":
				return "video/quicktime"
			case "3gp4", "3gp5", "3gp6":
				return "video/3gpp"
			}
		}
	}
	return contentType
}

// IsExecutable reports whether a media type denotes native executable code
func IsExecutable(contentType string) bool {
	switch mediaType(contentType) {
	case "application/x-msdownload", "application/x-msdos-program",
		"application/x-executable", "application/x-mach-binary",
		"application/x-sharedlib", "application/x-dosexec":
		return true
	}
	return false
}

// mediaType strips parameters and normalizes case
func mediaType(contentType string) string {
	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
