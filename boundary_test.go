package formkit

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateBoundary(t *testing.T) {
	tests := []struct {
		boundary string
		wantErr  bool
	}{
		{"XYZ", false},
		{"----WebKitFormBoundary7MA4YWxkTrZu0gW", false},
		{"a'()+_,-./:=? b", false},
		{strings.Repeat("x", MaxBoundaryLength), false},
		{"", true},
		{strings.Repeat("x", MaxBoundaryLength+1), true},
		{"trailing ", true},
		{"quote\"", true},
		{"semi;colon", true},
		{"new\r\nline", true},
		{"ünicode", true},
	}

	for _, tt := range tests {
		t.Run(tt.boundary, func(t *testing.T) {
			err := ValidateBoundary(tt.boundary)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBoundary(%q) error = %v, wantErr %v", tt.boundary, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidBoundary) {
				t.Errorf("ValidateBoundary(%q) error = %v, want ErrInvalidBoundary", tt.boundary, err)
			}
		})
	}
}

func TestRandomBoundary(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		b, err := RandomBoundary()
		if err != nil {
			t.Fatalf("RandomBoundary() error = %v", err)
		}
		if len(b) != 60 {
			t.Errorf("RandomBoundary() = %q, length %d", b, len(b))
		}
		if err := ValidateBoundary(b); err != nil {
			t.Errorf("RandomBoundary() produced invalid boundary: %v", err)
		}
		if seen[b] {
			t.Errorf("RandomBoundary() repeated %q", b)
		}
		seen[b] = true
	}
}

func TestBoundaryFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
		wantErr     error
	}{
		{"multipart/form-data; boundary=XYZ", "XYZ", nil},
		{`Multipart/Form-Data; boundary="with space"`, "with space", nil},
		{"multipart/form-data; charset=utf-8; boundary=abc", "abc", nil},
		{"multipart/form-data", "", ErrInvalidBoundary},
		{`multipart/form-data; boundary=""`, "", ErrInvalidBoundary},
		{"application/json; boundary=XYZ", "", ErrNotSupported},
		{"multipart/form-data; boundary", "", ErrInvalidBoundary},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			got, err := BoundaryFromContentType(tt.contentType)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("BoundaryFromContentType() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("BoundaryFromContentType() = %q, %v, want %q", got, err, tt.want)
			}
		})
	}
}
