package formkit

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/gobeaver/formkit/streamsearch"
)

// Decoder splits multipart/form-data bodies that use one boundary into parts.
//
// Sections are located with a streamsearch.Searcher for the delimiter
// "--boundary", so a body is consumed as a stream and only the section being
// extracted is held in memory. A Decoder holds no per-body state and may be
// shared.
type Decoder struct {
	boundary string
	searcher *streamsearch.Searcher
	opts     Options
	logger   *slog.Logger
}

// NewDecoder creates a decoder for bodies delimited by boundary
func NewDecoder(boundary string, opts ...Option) (*Decoder, error) {
	if boundary == "" {
		return nil, fmt.Errorf("%w: empty boundary", ErrInvalidBoundary)
	}

	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}

	searcher, err := streamsearch.New([]byte("--"+boundary), streamsearch.WithPartLimit(o.PartLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBoundary, err)
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Decoder{
		boundary: boundary,
		searcher: searcher,
		opts:     o,
		logger:   logger,
	}, nil
}

// Boundary returns the boundary the decoder splits on
func (d *Decoder) Boundary() string {
	return d.boundary
}

// Decode reads a whole body and returns its parts in order. On error the
// parts decoded before the failure are returned alongside it.
func (d *Decoder) Decode(ctx context.Context, r io.Reader) ([]*Part, error) {
	var parts []*Part
	for part, err := range d.Parts(ctx, r) {
		if err != nil {
			return parts, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// Parts returns the parts of a body as a sequence, reading r only as far as
// the consumer iterates. The sequence ends at the closing delimiter, or when
// no further delimiter can be found. Any error is yielded once, as the last
// element.
//
// Sections without a name end the sequence with ErrNoPartName unless
// WithSkipMalformed is set. A section larger than the part limit ends it with
// ErrPartLimitExceeded.
func (d *Decoder) Parts(ctx context.Context, r io.Reader) iter.Seq2[*Part, error] {
	return func(yield func(*Part, error) bool) {
		br := d.source(r)

		if _, err := d.searcher.Search(br); err != nil {
			switch {
			case errors.Is(err, streamsearch.ErrPartLimitExceeded):
				err = fmt.Errorf("%w: %w", ErrBoundaryNotFound, err)
			case errors.Is(err, streamsearch.ErrNotFound):
				err = ErrBoundaryNotFound
			}
			yield(nil, &PartError{Op: "decode", Index: -1, Err: err})
			return
		}

		count := 0
		for index := 0; ; index++ {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			closing, err := atClosingDelimiter(br)
			if err != nil {
				if errors.Is(err, io.EOF) {
					d.logger.Warn("multipart body ended without closing delimiter",
						"boundary", d.boundary, "sections", index)
					return
				}
				yield(nil, &PartError{Op: "read", Index: index, Err: err})
				return
			}
			if closing {
				return
			}

			raw, err := d.searcher.SearchAndExtract(br)
			switch {
			case errors.Is(err, streamsearch.ErrPartLimitExceeded):
				yield(nil, &PartError{Op: "scan", Index: index, Err: err})
				return
			case errors.Is(err, streamsearch.ErrNotFound):
				d.logger.Warn("multipart body ended without closing delimiter",
					"boundary", d.boundary, "sections", index)
				return
			case err != nil:
				yield(nil, &PartError{Op: "scan", Index: index, Err: err})
				return
			}

			part, err := ParsePart(raw)
			if err != nil {
				if IsNoPartName(err) && d.opts.SkipMalformed {
					d.logger.Info("skipping section without name", "index", index, "size", len(raw))
					continue
				}
				yield(nil, &PartError{Op: "parse", Index: index, Err: err})
				return
			}

			if d.opts.Selector != nil && !d.opts.Selector.Match(part) {
				d.logger.Debug("part not selected", "index", index, "name", part.Name())
				continue
			}
			if d.opts.Validator != nil {
				if err := d.opts.Validator.Validate(part); err != nil {
					yield(nil, &PartError{Op: "validate", Index: index, Name: part.Name(), Err: err})
					return
				}
			}
			if d.opts.MaxParts > 0 && count >= d.opts.MaxParts {
				yield(nil, &PartError{Op: "decode", Index: index, Name: part.Name(),
					Err: fmt.Errorf("%w: limit is %d", ErrTooManyParts, d.opts.MaxParts)})
				return
			}

			count++
			if !yield(part, nil) {
				return
			}
		}
	}
}

func (d *Decoder) source(r io.Reader) *bufio.Reader {
	if d.opts.MaxBodySize > 0 {
		return bufio.NewReader(&sizeLimitReader{r: r, limit: d.opts.MaxBodySize})
	}
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// atClosingDelimiter reports whether the delimiter just consumed is the
// closing one, i.e. is followed by "--".
func atClosingDelimiter(br *bufio.Reader) (bool, error) {
	next, err := br.Peek(2)
	if len(next) == 2 {
		return next[0] == '-' && next[1] == '-', nil
	}
	return false, err
}

// Decode splits an in-memory body into parts.
func Decode(boundary string, body []byte, opts ...Option) ([]*Part, error) {
	d, err := NewDecoder(boundary, opts...)
	if err != nil {
		return nil, err
	}
	return d.Decode(context.Background(), bytes.NewReader(body))
}

// sizeLimitReader fails once more than limit bytes have been read.
type sizeLimitReader struct {
	r     io.Reader
	limit int64
	n     int64
}

func (l *sizeLimitReader) Read(p []byte) (n int, err error) {
	n, err = l.r.Read(p)
	l.n += int64(n)
	if l.n > l.limit {
		return n, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, l.limit)
	}
	return n, err
}
