package formkit

import (
	"errors"
	"fmt"

	"github.com/gobeaver/formkit/streamsearch"
)

// Common multipart errors
var (
	ErrNoPartName        = errors.New("no name in Content-Disposition")
	ErrInvalidHeader     = errors.New("invalid part header")
	ErrInvalidBoundary   = errors.New("invalid boundary")
	ErrBoundaryNotFound  = errors.New("boundary not found")
	ErrInvalidName       = errors.New("invalid part name")
	ErrDuplicateName     = errors.New("duplicate part name")
	ErrBoundaryCollision = errors.New("boundary occurs inside part")
	ErrTooManyParts      = errors.New("too many parts")
	ErrBodyTooLarge      = errors.New("body exceeds size limit")
	ErrNotSupported      = errors.New("operation not supported")

	// ErrPartLimitExceeded is reported when a part is larger than the
	// configured part limit. It wraps streamsearch.ErrNotFound.
	ErrPartLimitExceeded = streamsearch.ErrPartLimitExceeded

	// ErrSectionTooShort is reported for a section too short to hold the
	// CRLFs around it.
	ErrSectionTooShort = streamsearch.ErrSectionTooShort
)

// PartError records an error and the operation and part that caused it.
// Index is the zero-based position of the section in the body, or -1.
type PartError struct {
	Op    string
	Index int
	Name  string
	Err   error
}

// Error implements the error interface
func (e *PartError) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("%s part %d (%q): %v", e.Op, e.Index, e.Name, e.Err)
	case e.Index >= 0:
		return fmt.Sprintf("%s part %d: %v", e.Op, e.Index, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying error
func (e *PartError) Unwrap() error {
	return e.Err
}

// IsNoPartName reports whether an error indicates that a section had no
// usable name and therefore produced no part
func IsNoPartName(err error) bool {
	return errors.Is(err, ErrNoPartName)
}

// IsInvalidHeader reports whether an error indicates undecodable header text
func IsInvalidHeader(err error) bool {
	return errors.Is(err, ErrInvalidHeader)
}

// IsPartLimitExceeded reports whether a scan was abandoned because a part
// grew past the part limit
func IsPartLimitExceeded(err error) bool {
	return errors.Is(err, ErrPartLimitExceeded)
}
