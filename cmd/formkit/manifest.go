package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gobeaver/formkit"
)

// manifest describes a form to encode:
//
//	boundary: XYZ
//	parts:
//	  - name: title
//	    value: Quarterly report
//	  - name: data
//	    file: q3.csv
//	    content_type: text/csv
type manifest struct {
	Boundary string         `yaml:"boundary"`
	Parts    []manifestPart `yaml:"parts"`
}

type manifestPart struct {
	Name             string  `yaml:"name"`
	Value            *string `yaml:"value"`
	File             string  `yaml:"file"`
	FileName         *string `yaml:"filename"`
	ContentType      string  `yaml:"content_type"`
	TransferEncoding string  `yaml:"transfer_encoding"`
}

func loadManifest(r io.Reader) (*manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("manifest is empty")
		}
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

func loadManifestFile(path string) (*manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return loadManifest(f)
}

// parts builds the parts of the manifest. Relative file paths are resolved
// against baseDir.
func (m *manifest) parts(baseDir string) ([]*formkit.Part, error) {
	parts := make([]*formkit.Part, 0, len(m.Parts))
	for i, mp := range m.Parts {
		p, err := mp.part(baseDir)
		if err != nil {
			return nil, fmt.Errorf("manifest part %d (%q): %w", i, mp.Name, err)
		}
		parts = append(parts, p)
	}
	return parts, nil
}

func (mp manifestPart) part(baseDir string) (*formkit.Part, error) {
	var p *formkit.Part
	switch {
	case mp.Value != nil && mp.File != "":
		return nil, errors.New("value and file are mutually exclusive")
	case mp.File != "":
		path := mp.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		var err error
		if p, err = formkit.PartFromFile(mp.Name, path); err != nil {
			return nil, err
		}
	case mp.Value != nil:
		p = formkit.NewPart(mp.Name).WithContentString(*mp.Value)
	default:
		p = formkit.NewPart(mp.Name)
	}

	if mp.FileName != nil {
		p.WithFileName(*mp.FileName)
	}
	if mp.ContentType != "" {
		p.WithContentType(mp.ContentType)
	}
	if mp.TransferEncoding != "" {
		p.WithTransferEncoding(mp.TransferEncoding)
	}
	return p, nil
}
