package partvalidator

import "strings"

// MediaTypeGroup names a family of content types
type MediaTypeGroup string

const (
	AllowAllImages    MediaTypeGroup = "image/*"
	AllowAllDocuments MediaTypeGroup = "document/*"
	AllowAllAudio     MediaTypeGroup = "audio/*"
	AllowAllVideo     MediaTypeGroup = "video/*"
	AllowAllText      MediaTypeGroup = "text/*"
	AllowAll          MediaTypeGroup = "*/*"
)

// document/* is not a real media type family, so it expands to a list
var mediaTypeGroups = map[MediaTypeGroup][]string{
	AllowAllDocuments: {
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"text/plain",
		"text/csv",
		"application/rtf",
	},
}

// aliases maps non-canonical spellings seen in Content-Type headers
var aliases = map[string]string{
	"image/jpg":                    "image/jpeg",
	"image/pjpeg":                  "image/jpeg",
	"audio/x-wav":                  "audio/wav",
	"audio/wave":                   "audio/wav",
	"audio/mp3":                    "audio/mpeg",
	"application/x-zip-compressed": "application/zip",
	"application/x-gzip":           "application/gzip",
	"application/x-pdf":            "application/pdf",
}

// ExpandAcceptedTypes replaces named groups in acceptedTypes with their
// members. Wildcards over a real top-level type ("image/*") are kept.
func ExpandAcceptedTypes(acceptedTypes []string) []string {
	expanded := make([]string, 0, len(acceptedTypes))
	for _, t := range acceptedTypes {
		if members, ok := mediaTypeGroups[MediaTypeGroup(t)]; ok {
			expanded = append(expanded, members...)
			continue
		}
		expanded = append(expanded, mediaType(t))
	}
	return expanded
}

// Canonical normalizes a content type for comparison
func Canonical(contentType string) string {
	mt := mediaType(contentType)
	if alias, ok := aliases[mt]; ok {
		return alias
	}
	return mt
}

// Accepts reports whether contentType matches any of the patterns
func Accepts(patterns []string, contentType string) bool {
	ct := Canonical(contentType)
	for _, p := range ExpandAcceptedTypes(patterns) {
		switch {
		case p == string(AllowAll), p == ct:
			return true
		case strings.HasSuffix(p, "/*") && strings.HasPrefix(ct, strings.TrimSuffix(p, "*")):
			return true
		}
	}
	return false
}
