// Package partvalidator checks multipart parts against size, name, extension
// and content type constraints.
package partvalidator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Part is the view of a multipart part the validator needs
type Part interface {
	Name() string
	FileName() string
	ContentType() string
	Content() []byte
}

// Validator provides the main interface for validating parts
type Validator interface {
	// Validate validates a part against the validator's constraints
	Validate(part Part) error

	// GetConstraints returns the current validation constraints
	GetConstraints() Constraints
}

// PartValidator implements the Validator interface
type PartValidator struct {
	constraints Constraints
}

// New creates a new part validator with the given constraints
func New(constraints Constraints) *PartValidator {
	return &PartValidator{
		constraints: constraints,
	}
}

// NewDefault creates a new part validator with DefaultConstraints
func NewDefault() *PartValidator {
	return New(DefaultConstraints())
}

// Validate validates a part against the validator's constraints
func (v *PartValidator) Validate(part Part) error {
	return v.ValidateWithContext(context.Background(), part)
}

// ValidateWithContext validates a part, giving up early if ctx is done
func (v *PartValidator) ValidateWithContext(ctx context.Context, part Part) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := part.Name()
	if err := v.validateName(name); err != nil {
		return err
	}

	size := int64(len(part.Content()))
	if strings.TrimSpace(part.FileName()) == "" {
		if v.constraints.MaxFieldSize > 0 && size > v.constraints.MaxFieldSize {
			return NewValidationError(ErrorTypeSize, name, fmt.Sprintf("field too big: %d bytes (max: %d bytes)", size, v.constraints.MaxFieldSize))
		}
		return nil
	}

	if err := v.validateFileName(name, part.FileName()); err != nil {
		return err
	}

	if v.constraints.MaxFileSize > 0 && size > v.constraints.MaxFileSize {
		return NewValidationError(ErrorTypeSize, name, fmt.Sprintf("file too big: %d bytes (max: %d bytes)", size, v.constraints.MaxFileSize))
	}
	if v.constraints.MinFileSize > 0 && size < v.constraints.MinFileSize {
		return NewValidationError(ErrorTypeSize, name, fmt.Sprintf("file too small: %d bytes (min: %d bytes)", size, v.constraints.MinFileSize))
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return v.validateContent(part)
}

// GetConstraints returns the current validation constraints
func (v *PartValidator) GetConstraints() Constraints {
	return v.constraints
}

// validateName rejects field names that cannot be carried in a quoted
// Content-Disposition parameter
func (v *PartValidator) validateName(name string) error {
	if name == "" {
		return NewValidationError(ErrorTypeName, name, "empty field name")
	}
	if v.constraints.MaxNameLength > 0 && len(name) > v.constraints.MaxNameLength {
		return NewValidationError(ErrorTypeName, name, fmt.Sprintf("field name exceeds maximum length of %d characters", v.constraints.MaxNameLength))
	}
	if strings.ContainsAny(name, "\"\r\n") {
		return NewValidationError(ErrorTypeName, name, "field name contains a quote or line break")
	}
	return nil
}

func (v *PartValidator) validateFileName(name, filename string) error {
	if v.constraints.MaxNameLength > 0 && len(filename) > v.constraints.MaxNameLength {
		return NewValidationError(ErrorTypeFileName, name, fmt.Sprintf("filename exceeds maximum length of %d characters", v.constraints.MaxNameLength))
	}

	for _, char := range v.constraints.DangerousChars {
		if strings.Contains(filename, char) {
			return NewValidationError(ErrorTypeFileName, name, fmt.Sprintf("filename contains invalid character: %s", char))
		}
	}

	if v.constraints.FileNameRegex != nil && !v.constraints.FileNameRegex.MatchString(filename) {
		return NewValidationError(ErrorTypeFileName, name, "filename doesn't match the required pattern")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" && v.constraints.RequireExtension {
		return NewValidationError(ErrorTypeExtension, name, "file must have an extension")
	}

	// Blocked extensions win over allowed ones
	for _, blocked := range v.constraints.BlockedExts {
		if strings.EqualFold(ext, blocked) {
			return NewValidationError(ErrorTypeExtension, name, fmt.Sprintf("file extension %s is blocked", ext))
		}
	}

	if len(v.constraints.AllowedExts) > 0 && !v.isAcceptedExtension(ext) {
		return NewValidationError(ErrorTypeExtension, name, fmt.Sprintf("file extension %s is not allowed", ext))
	}
	return nil
}

func (v *PartValidator) validateContent(part Part) error {
	c := v.constraints
	if len(c.AcceptedTypes) == 0 && !c.CheckDeclaredType && !c.BlockExecutables {
		return nil
	}

	name := part.Name()
	detected := DetectContentType(part.Content())

	if c.BlockExecutables && IsExecutable(detected) {
		return NewValidationError(ErrorTypeContent, name, fmt.Sprintf("executable content (%s) is not allowed", detected))
	}

	if len(c.AcceptedTypes) > 0 && !Accepts(c.AcceptedTypes, detected) {
		return NewValidationError(ErrorTypeContentType, name,
			fmt.Sprintf("content type %s is not accepted; allowed types: %v", detected, ExpandAcceptedTypes(c.AcceptedTypes)))
	}

	if c.CheckDeclaredType {
		// Only signature matches are trusted enough to contradict a header
		sniffed := part.Content()
		if len(sniffed) > sniffLen {
			sniffed = sniffed[:sniffLen]
		}
		if sig := detectBySignature(sniffed); sig != "" {
			declared := Canonical(part.ContentType())
			if declared != "application/octet-stream" && declared != sig {
				return NewValidationError(ErrorTypeContentType, name,
					fmt.Sprintf("declared content type %s does not match detected %s", declared, sig))
			}
		}
	}
	return nil
}

func (v *PartValidator) isAcceptedExtension(ext string) bool {
	for _, allowed := range v.constraints.AllowedExts {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}
