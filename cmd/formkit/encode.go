package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/gobeaver/formkit"
)

func runEncode(args []string, stdout, stderr io.Writer) error {
	var (
		manifestPath    string
		outputPath      string
		boundary        string
		validate        bool
		showContentType bool
		verbose         bool
	)

	flagSet := pflag.NewFlagSet("encode", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&manifestPath, "manifest", "m", "", "YAML manifest listing the parts (required)")
	flagSet.StringVarP(&outputPath, "output", "o", "", "write the body to this file instead of stdout")
	flagSet.StringVar(&boundary, "boundary", "", "boundary (default: manifest, then BEAVER_FORMKIT_BOUNDARY, then random)")
	flagSet.BoolVar(&validate, "validate", false, "reject duplicate names and boundary collisions")
	flagSet.BoolVar(&showContentType, "print-content-type", false, "print the Content-Type header value to stderr")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	if manifestPath == "" {
		return errors.New("--manifest is required")
	}

	logger := newLogger(stderr, verbose)

	cfg, err := formkit.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	m, err := loadManifestFile(manifestPath)
	if err != nil {
		return err
	}

	switch {
	case boundary != "":
		cfg.Boundary = boundary
	case m.Boundary != "":
		cfg.Boundary = m.Boundary
	}
	if validate {
		cfg.ValidateForms = true
	}

	svc, err := formkit.New(cfg)
	if err != nil {
		return err
	}
	parts, err := m.parts(filepath.Dir(manifestPath))
	if err != nil {
		return err
	}
	form, err := svc.NewForm(parts...)
	if err != nil {
		return err
	}
	form.WithProgress(func(written, total int64) {
		logger.Debug("encoding", "written", written, "total", total)
	})

	out := stdout
	var file *os.File
	if outputPath != "" {
		if file, err = os.Create(outputPath); err != nil {
			return err
		}
		out = file
	}

	n, err := form.WriteTo(out)
	if file != nil {
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
	}
	if err != nil {
		return fmt.Errorf("writing body: %w", err)
	}

	logger.Info("encoded form", "parts", len(parts), "bytes", n, "boundary", form.Boundary())
	if showContentType {
		fmt.Fprintln(stderr, form.ContentType())
	}
	return nil
}
