package formkit

import (
	"log/slog"

	"github.com/gobeaver/formkit/partvalidator"
)

// Option represents a decoder configuration option
type Option func(*Options)

// Options contains all possible options for decoding
type Options struct {
	// PartLimit caps the bytes scanned for a single part, delimiter included.
	// Zero means unbounded.
	PartLimit int64

	// MaxParts caps the number of parts returned. Zero means unbounded.
	MaxParts int

	// MaxBodySize caps the bytes read from the body. Zero means unbounded.
	MaxBodySize int64

	// SkipMalformed drops sections without a name instead of failing
	SkipMalformed bool

	// Selector filters decoded parts; parts it rejects are dropped
	Selector PartSelector

	// Validator checks every selected part
	Validator partvalidator.Validator

	// Logger receives decode diagnostics
	Logger *slog.Logger
}

// WithPartLimit sets the per-part scan limit in bytes
func WithPartLimit(limit int64) Option {
	return func(o *Options) {
		o.PartLimit = limit
	}
}

// WithMaxParts sets the maximum number of parts
func WithMaxParts(n int) Option {
	return func(o *Options) {
		o.MaxParts = n
	}
}

// WithMaxBodySize sets the maximum body size in bytes
func WithMaxBodySize(size int64) Option {
	return func(o *Options) {
		o.MaxBodySize = size
	}
}

// WithSkipMalformed enables or disables skipping of sections without a name
func WithSkipMalformed(skip bool) Option {
	return func(o *Options) {
		o.SkipMalformed = skip
	}
}

// WithSelector sets the part selector
func WithSelector(selector PartSelector) Option {
	return func(o *Options) {
		o.Selector = selector
	}
}

// WithValidator sets a part validator
func WithValidator(validator partvalidator.Validator) Option {
	return func(o *Options) {
		o.Validator = validator
	}
}

// WithLogger sets the logger for decode diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
