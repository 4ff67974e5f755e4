package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/gobeaver/formkit"
)

// maxInlineValue is the largest text content shown in the summary
const maxInlineValue = 256

type decodeSummary struct {
	Boundary string        `yaml:"boundary"`
	Parts    []partSummary `yaml:"parts"`
}

type partSummary struct {
	Name             string `yaml:"name"`
	FileName         string `yaml:"filename,omitempty"`
	ContentType      string `yaml:"content_type"`
	TransferEncoding string `yaml:"transfer_encoding,omitempty"`
	Size             int64  `yaml:"size"`
	Checksum         string `yaml:"checksum"`
	Value            string `yaml:"value,omitempty"`
	Path             string `yaml:"path,omitempty"`
}

func runDecode(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		boundary    string
		contentType string
		inputPath   string
		outputDir   string
		filter      string
		checksum    string
		verbose     bool
	)
	cfg, err := formkit.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&boundary, "boundary", "", "boundary of the body (default: BEAVER_FORMKIT_BOUNDARY)")
	flagSet.StringVar(&contentType, "content-type", "", "Content-Type header value carrying the boundary")
	flagSet.StringVarP(&inputPath, "input", "i", "", "read the body from this file instead of stdin")
	flagSet.StringVarP(&outputDir, "output-dir", "d", "", "write the content of every part to this directory")
	flagSet.StringVar(&filter, "filter", cfg.FieldFilter, "only decode parts whose name matches this glob")
	flagSet.StringVar(&checksum, "checksum", cfg.ChecksumAlgorithm, "checksum algorithm (md5, sha1, sha256, sha512, crc32, xxhash)")
	flagSet.Int64Var(&cfg.PartLimit, "part-limit", cfg.PartLimit, "maximum bytes per part, 0 for no limit")
	flagSet.IntVar(&cfg.MaxParts, "max-parts", cfg.MaxParts, "maximum number of parts, 0 for no limit")
	flagSet.Int64Var(&cfg.MaxBodySize, "max-body-size", cfg.MaxBodySize, "maximum body size, 0 for no limit")
	flagSet.BoolVar(&cfg.SkipMalformed, "skip-malformed", cfg.SkipMalformed, "skip sections without a name")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log decoding details to stderr")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	cfg.FieldFilter = filter
	cfg.ChecksumAlgorithm = checksum

	switch {
	case boundary != "" && contentType != "":
		return errors.New("--boundary and --content-type are mutually exclusive")
	case contentType != "":
		if boundary, err = formkit.BoundaryFromContentType(contentType); err != nil {
			return err
		}
	case boundary == "":
		boundary = cfg.Boundary
	}
	if boundary == "" {
		return errors.New("a boundary is required: use --boundary or --content-type")
	}

	logger := newLogger(stderr, verbose)
	svc, err := formkit.New(cfg, formkit.WithLogger(logger))
	if err != nil {
		return err
	}
	d, err := svc.NewDecoder(boundary)
	if err != nil {
		return err
	}

	in := stdin
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary := decodeSummary{Boundary: boundary, Parts: []partSummary{}}
	index := 0
	for part, decodeErr := range d.Parts(ctx, in) {
		if decodeErr != nil {
			return decodeErr
		}

		entry, err := summarize(svc, part)
		if err != nil {
			return err
		}
		if outputDir != "" {
			if entry.Path, err = writePart(outputDir, index, part); err != nil {
				return err
			}
		}
		summary.Parts = append(summary.Parts, entry)
		index++
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		return err
	}
	return enc.Close()
}

func summarize(svc *formkit.Service, part *formkit.Part) (partSummary, error) {
	sum, err := svc.Checksum(part)
	if err != nil {
		return partSummary{}, err
	}

	entry := partSummary{
		Name:             part.Name(),
		FileName:         part.FileName(),
		ContentType:      part.ContentType(),
		TransferEncoding: part.TransferEncoding(),
		Size:             part.Size(),
		Checksum:         string(svc.ChecksumAlgorithm()) + ":" + sum,
	}
	if !part.IsFile() && part.Size() <= maxInlineValue && formkit.IsTextContent(part.ContentType()) {
		entry.Value = string(part.Content())
	}
	return entry, nil
}

// writePart stores a part's content in dir under a name derived from its
// filename or field name, prefixed with its index so names never collide.
func writePart(dir string, index int, part *formkit.Part) (string, error) {
	name := part.FileName()
	if strings.TrimSpace(name) == "" {
		name = part.Name() + formkit.ExtensionForContentType(part.ContentType())
	}
	// Strip any directory components a sender put in the name
	name = filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, "\\", "/")))
	if name == "/" || name == "." {
		name = "part"
	}

	path := filepath.Join(dir, fmt.Sprintf("%02d-%s", index, name))
	if err := os.WriteFile(path, part.Content(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
