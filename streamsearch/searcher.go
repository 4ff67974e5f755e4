// Package streamsearch locates a byte pattern in a stream using the
// Knuth-Morris-Pratt algorithm.
//
// A Searcher precomputes the failure table for its pattern once and then scans
// any number of sources, one byte at a time, without buffering more than it
// has to. Scan state lives on the stack of each call, so a single Searcher may
// be shared by goroutines scanning independent sources.
//
//	s, err := streamsearch.New([]byte("--boundary"), streamsearch.WithPartLimit(10*1024*1024))
//	if err != nil {
//	    return err
//	}
//	n, err := s.Search(bufio.NewReader(body))
//	if errors.Is(err, streamsearch.ErrNotFound) {
//	    // pattern absent, or the part limit was hit
//	}
package streamsearch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// MaxPatternLength is the longest pattern a Searcher accepts.
const MaxPatternLength = 512

var (
	// ErrPatternTooLong is returned by New for patterns over MaxPatternLength.
	ErrPatternTooLong = fmt.Errorf("length of pattern exceeds maximum (%d)", MaxPatternLength)

	// ErrEmptyPattern is returned by New for an empty pattern.
	ErrEmptyPattern = errors.New("pattern is empty")

	// ErrNotFound is returned when a scan ends without a match.
	ErrNotFound = errors.New("pattern not found")

	// ErrPartLimitExceeded is returned when a scan gives up after reading more
	// than the part limit. It wraps ErrNotFound.
	ErrPartLimitExceeded = fmt.Errorf("%w: part limit exceeded", ErrNotFound)

	// ErrSectionTooShort is returned by SearchAndExtract when a match occurs
	// before enough bytes were read to strip the surrounding CRLFs.
	ErrSectionTooShort = errors.New("section too short to extract")
)

// Option configures a Searcher.
type Option func(*Searcher)

// WithPartLimit caps the number of bytes a single scan may read before it
// gives up. Zero or a negative value means no limit.
func WithPartLimit(limit int64) Option {
	return func(s *Searcher) {
		if limit < 0 {
			limit = 0
		}
		s.partLimit = limit
	}
}

// Searcher is a KMP automaton for a fixed pattern. It is read-only after
// construction.
type Searcher struct {
	pattern   []byte
	borders   []int
	partLimit int64
}

// New builds a Searcher for pattern. The pattern is copied.
func New(pattern []byte, opts ...Option) (*Searcher, error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}
	if len(pattern) > MaxPatternLength {
		return nil, ErrPatternTooLong
	}

	s := &Searcher{
		pattern: bytes.Clone(pattern),
		borders: make([]int, len(pattern)+1),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.preprocess()
	return s, nil
}

// MustNew is like New but panics if the pattern is rejected.
func MustNew(pattern []byte, opts ...Option) *Searcher {
	s, err := New(pattern, opts...)
	if err != nil {
		panic("streamsearch: " + err.Error())
	}
	return s
}

// Pattern returns a copy of the pattern.
func (s *Searcher) Pattern() []byte {
	return bytes.Clone(s.pattern)
}

// PartLimit returns the per-scan byte limit, 0 if unbounded.
func (s *Searcher) PartLimit() int64 {
	return s.partLimit
}

func (s *Searcher) preprocess() {
	i, j := 0, -1
	s.borders[i] = j
	for i < len(s.pattern) {
		for j >= 0 && s.pattern[i] != s.pattern[j] {
			j = s.borders[j]
		}
		i++
		j++
		s.borders[i] = j
	}
}

// Search reads from r until the pattern has been consumed. It returns the
// number of bytes read, match included, and leaves r positioned on the first
// byte after the match.
//
// If r is exhausted first, the whole source has been consumed and ErrNotFound
// is returned. If the part limit is exceeded, ErrPartLimitExceeded is returned
// and r is left wherever the scan stopped. Any other read error is returned
// unchanged.
func (s *Searcher) Search(r io.ByteReader) (int64, error) {
	var read int64
	j := 0
	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return -1, ErrNotFound
			}
			return -1, err
		}
		read++

		if s.partLimit > 0 && read > s.partLimit {
			return -1, ErrPartLimitExceeded
		}
		if j = s.step(j, b); j == len(s.pattern) {
			return read, nil
		}
	}
}

// SearchAndExtract scans like Search but keeps what it reads. On a match it
// returns the bytes strictly between two CRLF-delimited occurrences of the
// pattern: the first two bytes (the CRLF that followed the previous match) and
// the last len(pattern)+2 bytes (the CRLF before the match, and the match
// itself) are dropped.
//
// When no match is found nothing is returned; the buffered bytes are
// discarded.
func (s *Searcher) SearchAndExtract(r io.ByteReader) ([]byte, error) {
	var buf bytes.Buffer
	var read int64
	j := 0
	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		read++
		buf.WriteByte(b)

		if s.partLimit > 0 && read > s.partLimit {
			return nil, ErrPartLimitExceeded
		}
		if j = s.step(j, b); j == len(s.pattern) {
			return s.extract(buf.Bytes())
		}
	}
}

func (s *Searcher) extract(section []byte) ([]byte, error) {
	end := len(section) - len(s.pattern) - 2
	if end < 2 {
		return nil, ErrSectionTooShort
	}
	return bytes.Clone(section[2:end]), nil
}

// step advances the automaton from state j over b.
func (s *Searcher) step(j int, b byte) int {
	for j >= 0 && b != s.pattern[j] {
		j = s.borders[j]
	}
	return j + 1
}
