package formkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gobeaver/beaver-kit/config"
	"github.com/gobeaver/formkit/partvalidator"
)

// Global instance
var (
	defaultService *Service
	defaultOnce    sync.Once
	defaultErr     error
)

// Service builds forms and decoders with the settings of a Config
type Service struct {
	cfg       Config
	checksum  ChecksumAlgorithm
	validator partvalidator.Validator
	options   []Option
}

// Builder provides a way to create Service instances with custom prefixes
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Init initializes the global Service instance using the builder's prefix
func (b *Builder) Init() error {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return err
	}
	return Init(cfg)
}

// New creates a new Service instance using the builder's prefix
func (b *Builder) New() (*Service, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return New(cfg)
}

// Init initializes the global service instance
func Init(configs ...*Config) error {
	defaultOnce.Do(func() {
		var cfg *Config
		if len(configs) > 0 {
			cfg = configs[0]
		} else {
			cfg, defaultErr = GetConfig()
			if defaultErr != nil {
				return
			}
		}

		defaultService, defaultErr = New(cfg)
	})

	return defaultErr
}

// New creates a service from cfg. Extra options are applied to every decoder
// after the ones derived from cfg.
func New(cfg *Config, opts ...Option) (*Service, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	algorithm := cfg.ChecksumAlgorithm
	if algorithm == "" {
		algorithm = string(ChecksumXXHash)
	}
	checksum, err := ParseChecksumAlgorithm(algorithm)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Service{
		cfg:       *cfg,
		checksum:  checksum,
		validator: createValidator(cfg),
	}

	s.options = append(s.options,
		WithPartLimit(cfg.PartLimit),
		WithMaxParts(cfg.MaxParts),
		WithMaxBodySize(cfg.MaxBodySize),
		WithSkipMalformed(cfg.SkipMalformed),
	)
	if cfg.FieldFilter != "" {
		// Already compiled once by validateConfig
		selector, _ := CompileGlob(cfg.FieldFilter)
		s.options = append(s.options, WithSelector(selector))
	}
	if s.validator != nil {
		s.options = append(s.options, WithValidator(s.validator))
	}
	s.options = append(s.options, opts...)

	return s, nil
}

// validateConfig checks configuration validity
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if cfg.PartLimit < 0 || cfg.MaxParts < 0 || cfg.MaxBodySize < 0 || cfg.MaxFileSize < 0 {
		return errors.New("limits must not be negative")
	}
	if cfg.Boundary != "" {
		if err := ValidateBoundary(cfg.Boundary); err != nil {
			return err
		}
	}
	if cfg.FieldFilter != "" {
		if _, err := CompileGlob(cfg.FieldFilter); err != nil {
			return fmt.Errorf("field filter: %w", err)
		}
	}
	return nil
}

// createValidator creates a part validator from config, or nil when no
// validation setting is present
func createValidator(cfg *Config) partvalidator.Validator {
	if cfg.MaxFileSize == 0 && cfg.AllowedContentTypes == "" &&
		cfg.AllowedExtensions == "" && cfg.BlockedExtensions == "" {
		return nil
	}

	constraints := partvalidator.DefaultConstraints()

	if cfg.MaxFileSize > 0 {
		constraints.MaxFileSize = cfg.MaxFileSize
	}
	if types := splitList(cfg.AllowedContentTypes); len(types) > 0 {
		constraints.AcceptedTypes = types
	}
	if exts := splitList(cfg.AllowedExtensions); len(exts) > 0 {
		constraints.AllowedExts = exts
	}
	// Added to the default block list rather than replacing it
	constraints.BlockedExts = append(constraints.BlockedExts, splitList(cfg.BlockedExtensions)...)

	return partvalidator.New(constraints)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Config returns a copy of the service configuration
func (s *Service) Config() Config {
	return s.cfg
}

// Validator returns the part validator built from config, or nil
func (s *Service) Validator() partvalidator.Validator {
	return s.validator
}

// ChecksumAlgorithm returns the configured checksum algorithm
func (s *Service) ChecksumAlgorithm() ChecksumAlgorithm {
	return s.checksum
}

// NewForm creates a form with the configured boundary, or a random one. With
// ValidateForms set the form is validated before it is returned.
func (s *Service) NewForm(parts ...*Part) (*Form, error) {
	var form *Form
	if s.cfg.Boundary != "" {
		form = NewForm(s.cfg.Boundary, parts...)
	} else {
		var err error
		if form, err = NewFormRandom(parts...); err != nil {
			return nil, err
		}
	}

	if s.cfg.ValidateForms {
		if err := form.Validate(); err != nil {
			return nil, err
		}
	}
	return form, nil
}

// NewDecoder creates a decoder for boundary with the configured options
func (s *Service) NewDecoder(boundary string, opts ...Option) (*Decoder, error) {
	all := make([]Option, 0, len(s.options)+len(opts))
	all = append(all, s.options...)
	all = append(all, opts...)
	return NewDecoder(boundary, all...)
}

// Decode decodes a body whose boundary is taken from its Content-Type header
// value.
func (s *Service) Decode(ctx context.Context, contentType string, body io.Reader) ([]*Part, error) {
	boundary, err := BoundaryFromContentType(contentType)
	if err != nil {
		return nil, err
	}
	d, err := s.NewDecoder(boundary)
	if err != nil {
		return nil, err
	}
	return d.Decode(ctx, body)
}

// Checksum computes a part's checksum with the configured algorithm
func (s *Service) Checksum(p *Part) (string, error) {
	return p.Checksum(s.checksum)
}

// Default returns the global instance, initializing if needed with error handling
func Default() (*Service, error) {
	if defaultService == nil {
		if err := Init(); err != nil {
			return nil, err
		}
	}
	return defaultService, nil
}

// NewFromEnv creates instance from environment variables (convenience constructor)
func NewFromEnv() (*Service, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// Reset clears the global instance (for testing)
func Reset() {
	defaultService = nil
	defaultOnce = sync.Once{}
	defaultErr = nil
}
