package formkit

import (
	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Boundary used for new forms; empty means a random one per form
	Boundary string `env:"FORMKIT_BOUNDARY"`

	// Decoding limits, zero means unbounded
	PartLimit   int64 `env:"FORMKIT_PART_LIMIT"`
	MaxParts    int   `env:"FORMKIT_MAX_PARTS"`
	MaxBodySize int64 `env:"FORMKIT_MAX_BODY_SIZE"`

	// Drop sections without a name instead of failing the decode
	SkipMalformed bool `env:"FORMKIT_SKIP_MALFORMED,default:false"`

	// Check names and boundary collisions before handing out new forms
	ValidateForms bool `env:"FORMKIT_VALIDATE_FORMS,default:false"`

	// Glob over field names; only matching parts are decoded
	FieldFilter string `env:"FORMKIT_FIELD_FILTER"`

	// Part validation, enabled when any of these is set
	MaxFileSize         int64  `env:"FORMKIT_MAX_FILE_SIZE"`
	AllowedContentTypes string `env:"FORMKIT_ALLOWED_CONTENT_TYPES"` // comma-separated
	AllowedExtensions   string `env:"FORMKIT_ALLOWED_EXTENSIONS"`    // comma-separated
	BlockedExtensions   string `env:"FORMKIT_BLOCKED_EXTENSIONS"`    // comma-separated

	// Algorithm for part checksums
	ChecksumAlgorithm string `env:"FORMKIT_CHECKSUM_ALGORITHM,default:xxhash"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
