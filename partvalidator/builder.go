package partvalidator

import "regexp"

// Builder provides a fluent API for constructing validators
type Builder struct {
	constraints Constraints
}

// NewBuilder creates a validator builder starting from DefaultConstraints
func NewBuilder() *Builder {
	return &Builder{
		constraints: DefaultConstraints(),
	}
}

// Empty creates a builder with no restrictions
func Empty() *Builder {
	return &Builder{}
}

// MaxFieldSize sets the maximum size of plain fields
func (b *Builder) MaxFieldSize(size int64) *Builder {
	b.constraints.MaxFieldSize = size
	return b
}

// MaxSize sets the maximum size of file parts
func (b *Builder) MaxSize(size int64) *Builder {
	b.constraints.MaxFileSize = size
	return b
}

// MinSize sets the minimum size of file parts
func (b *Builder) MinSize(size int64) *Builder {
	b.constraints.MinFileSize = size
	return b
}

// Accept adds accepted content types (e.g. "image/png", "image/*")
func (b *Builder) Accept(contentTypes ...string) *Builder {
	b.constraints.AcceptedTypes = append(b.constraints.AcceptedTypes, contentTypes...)
	return b
}

// AcceptImages allows all image types
func (b *Builder) AcceptImages() *Builder {
	return b.Accept(string(AllowAllImages))
}

// AcceptDocuments allows all document types
func (b *Builder) AcceptDocuments() *Builder {
	return b.Accept(string(AllowAllDocuments))
}

// Extensions sets the allowed filename extensions
func (b *Builder) Extensions(exts ...string) *Builder {
	b.constraints.AllowedExts = append(b.constraints.AllowedExts, exts...)
	return b
}

// BlockExtensions adds blocked filename extensions
func (b *Builder) BlockExtensions(exts ...string) *Builder {
	b.constraints.BlockedExts = append(b.constraints.BlockedExts, exts...)
	return b
}

// MaxNameLength sets the maximum length of field names and filenames
func (b *Builder) MaxNameLength(n int) *Builder {
	b.constraints.MaxNameLength = n
	return b
}

// FileNamePattern sets a pattern filenames must match
func (b *Builder) FileNamePattern(re *regexp.Regexp) *Builder {
	b.constraints.FileNameRegex = re
	return b
}

// DangerousChars replaces the rejected filename substrings
func (b *Builder) DangerousChars(chars ...string) *Builder {
	b.constraints.DangerousChars = chars
	return b
}

// RequireExtension requires filenames to have an extension
func (b *Builder) RequireExtension() *Builder {
	b.constraints.RequireExtension = true
	return b
}

// AllowNoExtension lets filenames go without an extension
func (b *Builder) AllowNoExtension() *Builder {
	b.constraints.RequireExtension = false
	return b
}

// CheckDeclaredType makes the declared Content-Type agree with the content
func (b *Builder) CheckDeclaredType() *Builder {
	b.constraints.CheckDeclaredType = true
	return b
}

// BlockExecutables rejects executable content
func (b *Builder) BlockExecutables() *Builder {
	b.constraints.BlockExecutables = true
	return b
}

// Constraints returns the constraints built so far
func (b *Builder) Constraints() Constraints {
	return b.constraints
}

// Build creates the validator
func (b *Builder) Build() *PartValidator {
	return New(b.constraints)
}
