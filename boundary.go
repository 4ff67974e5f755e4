package formkit

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime"
)

// MaxBoundaryLength is the longest boundary RFC 2046 allows.
const MaxBoundaryLength = 70

// RandomBoundary returns a fresh 60 character hex boundary.
func RandomBoundary() (string, error) {
	var buf [30]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}

// ValidateBoundary checks a boundary against the bchars grammar of
// RFC 2046 section 5.1.1: 1 to 70 characters, no trailing space.
func ValidateBoundary(boundary string) error {
	if len(boundary) < 1 || len(boundary) > MaxBoundaryLength {
		return fmt.Errorf("%w: length %d outside 1-%d", ErrInvalidBoundary, len(boundary), MaxBoundaryLength)
	}
	for _, b := range boundary {
		if 'A' <= b && b <= 'Z' || 'a' <= b && b <= 'z' || '0' <= b && b <= '9' {
			continue
		}
		switch b {
		case '\'', '(', ')', '+', '_', ',', '-', '.', '/', ':', '=', '?', ' ':
			continue
		}
		return fmt.Errorf("%w: character %q not allowed", ErrInvalidBoundary, b)
	}
	if boundary[len(boundary)-1] == ' ' {
		return fmt.Errorf("%w: trailing space", ErrInvalidBoundary)
	}
	return nil
}

// BoundaryFromContentType extracts the boundary parameter from a
// multipart/form-data Content-Type header value.
func BoundaryFromContentType(contentType string) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBoundary, err)
	}
	if mediaType != MIMETypeMultipartForm {
		return "", fmt.Errorf("%w: media type %s", ErrNotSupported, mediaType)
	}
	boundary, ok := params["boundary"]
	if !ok || boundary == "" {
		return "", fmt.Errorf("%w: missing boundary parameter", ErrInvalidBoundary)
	}
	return boundary, nil
}
