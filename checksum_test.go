package formkit

import (
	"errors"
	"testing"

	"github.com/cespare/xxhash/v2"
)

func TestPartChecksum(t *testing.T) {
	p := NewPart("greeting").WithContentString("hello")

	tests := []struct {
		algorithm ChecksumAlgorithm
		want      string
	}{
		{ChecksumMD5, "5d41402abc4b2a76b9719d911017c592"},
		{ChecksumSHA1, "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"},
		{ChecksumSHA256, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
		{ChecksumCRC32, "3610a686"},
	}

	for _, tt := range tests {
		t.Run(string(tt.algorithm), func(t *testing.T) {
			got, err := p.Checksum(tt.algorithm)
			if err != nil {
				t.Fatalf("Checksum() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Checksum() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPartChecksumXXHash(t *testing.T) {
	p := NewPart("greeting").WithContentString("hello")

	sum, err := p.Checksum(ChecksumXXHash)
	if err != nil {
		t.Fatalf("Checksum() error = %v", err)
	}
	if len(sum) != 16 {
		t.Errorf("xxhash checksum %q should be 16 hex digits", sum)
	}
	if p.ContentDigest() != xxhash.Sum64String("hello") {
		t.Errorf("ContentDigest() = %x", p.ContentDigest())
	}
}

func TestPartChecksums(t *testing.T) {
	p := NewPart("greeting").WithContentString("hello")

	sums, err := p.Checksums(ChecksumMD5, ChecksumSHA512, ChecksumXXHash)
	if err != nil {
		t.Fatalf("Checksums() error = %v", err)
	}
	if len(sums) != 3 || sums[ChecksumMD5] != "5d41402abc4b2a76b9719d911017c592" {
		t.Errorf("Checksums() = %v", sums)
	}

	if _, err := p.Checksums(); err == nil {
		t.Error("Checksums() without algorithms should fail")
	}
	if _, err := p.Checksums(ChecksumMD5, "adler32"); !errors.Is(err, ErrNotSupported) {
		t.Errorf("Checksums() error = %v, want ErrNotSupported", err)
	}
}

func TestParseChecksumAlgorithm(t *testing.T) {
	got, err := ParseChecksumAlgorithm(" XXHash ")
	if err != nil || got != ChecksumXXHash {
		t.Errorf("ParseChecksumAlgorithm() = %q, %v", got, err)
	}
	if _, err := ParseChecksumAlgorithm("rot13"); !errors.Is(err, ErrNotSupported) {
		t.Errorf("ParseChecksumAlgorithm() error = %v, want ErrNotSupported", err)
	}
}
