package streamsearch

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		pattern []byte
		wantErr error
	}{
		{name: "single byte", pattern: []byte("x")},
		{name: "boundary", pattern: []byte("--XYZ")},
		{name: "max length", pattern: bytes.Repeat([]byte("a"), MaxPatternLength)},
		{name: "too long", pattern: bytes.Repeat([]byte("a"), MaxPatternLength+1), wantErr: ErrPatternTooLong},
		{name: "empty", pattern: nil, wantErr: ErrEmptyPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.pattern)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if s != nil {
					t.Error("New() returned a searcher along with an error")
				}
				return
			}
			if len(s.borders) != len(tt.pattern)+1 {
				t.Errorf("len(borders) = %d, want %d", len(s.borders), len(tt.pattern)+1)
			}
			if s.borders[0] != -1 {
				t.Errorf("borders[0] = %d, want -1", s.borders[0])
			}
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew() did not panic on an oversized pattern")
		}
	}()
	MustNew(make([]byte, MaxPatternLength+1))
}

func TestBorders(t *testing.T) {
	s := MustNew([]byte("ABABAC"))
	want := []int{-1, 0, 0, 1, 2, 3, 0}
	for i := range want {
		if s.borders[i] != want[i] {
			t.Fatalf("borders = %v, want %v", s.borders, want)
		}
	}
}

func TestPatternIsCopied(t *testing.T) {
	p := []byte("abc")
	s := MustNew(p)
	p[0] = 'z'
	if got := string(s.Pattern()); got != "abc" {
		t.Errorf("Pattern() = %q, want %q", got, "abc")
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		source    string
		limit     int64
		want      int64
		wantErr   error
		remaining string
	}{
		{name: "at start", pattern: "abc", source: "abcdef", want: 3, remaining: "def"},
		{name: "in middle", pattern: "--XYZ", source: "preamble\r\n--XYZ\r\nrest", want: 15, remaining: "\r\nrest"},
		{name: "at end", pattern: "end", source: "the end", want: 7, remaining: ""},
		{name: "overlapping prefix", pattern: "aab", source: "aaab", want: 4, remaining: ""},
		{name: "needs fallback", pattern: "ABABAC", source: "ABABABAC!", want: 8, remaining: "!"},
		{name: "first of two", pattern: "x", source: "axbx", want: 2, remaining: "bx"},
		{name: "absent", pattern: "zzz", source: "abcdef", wantErr: ErrNotFound, remaining: ""},
		{name: "empty source", pattern: "a", source: "", wantErr: ErrNotFound, remaining: ""},
		{name: "partial at end", pattern: "abcd", source: "xxabc", wantErr: ErrNotFound, remaining: ""},
		{name: "within limit", pattern: "abc", source: "xxabcyy", limit: 5, want: 5, remaining: "yy"},
		{name: "limit exceeded", pattern: "abc", source: "xxxxabcyy", limit: 5, wantErr: ErrPartLimitExceeded, remaining: "cyy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MustNew([]byte(tt.pattern), WithPartLimit(tt.limit))
			r := strings.NewReader(tt.source)

			got, err := s.Search(r)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Search() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got != tt.want {
				t.Errorf("Search() = %d, want %d", got, tt.want)
			}
			if tt.wantErr != nil && got != -1 {
				t.Errorf("Search() = %d on failure, want -1", got)
			}

			rest, _ := io.ReadAll(r)
			if string(rest) != tt.remaining {
				t.Errorf("remaining source = %q, want %q", rest, tt.remaining)
			}
		})
	}
}

func TestSearchOffsetProperty(t *testing.T) {
	pattern := []byte("\r\n--frontier")
	for k := 0; k < 64; k++ {
		source := append(bytes.Repeat([]byte{'-'}, k), pattern...)
		source = append(source, "tail"...)

		s := MustNew(pattern)
		got, err := s.Search(bytes.NewReader(source))
		if err != nil {
			t.Fatalf("offset %d: Search() error = %v", k, err)
		}
		if want := int64(k + len(pattern)); got != want {
			t.Fatalf("offset %d: Search() = %d, want %d", k, got, want)
		}
	}
}

func TestLimitExceededIsNotFound(t *testing.T) {
	if !errors.Is(ErrPartLimitExceeded, ErrNotFound) {
		t.Error("ErrPartLimitExceeded should wrap ErrNotFound")
	}
}

type failingReader struct {
	data []byte
	err  error
}

func (f *failingReader) ReadByte() (byte, error) {
	if len(f.data) == 0 {
		return 0, f.err
	}
	b := f.data[0]
	f.data = f.data[1:]
	return b, nil
}

func TestSearchPropagatesReadErrors(t *testing.T) {
	boom := errors.New("boom")
	s := MustNew([]byte("abc"))

	if _, err := s.Search(&failingReader{data: []byte("ab"), err: boom}); !errors.Is(err, boom) {
		t.Errorf("Search() error = %v, want %v", err, boom)
	}
	if _, err := s.SearchAndExtract(&failingReader{data: []byte("ab"), err: boom}); !errors.Is(err, boom) {
		t.Errorf("SearchAndExtract() error = %v, want %v", err, boom)
	}
}

func TestSearchAndExtract(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		source    string
		limit     int64
		want      string
		wantErr   error
		remaining string
	}{
		{
			name:      "section between delimiters",
			pattern:   "--XYZ",
			source:    "\r\nheaders\r\n\r\nbody\r\n--XYZ\r\nnext",
			want:      "headers\r\n\r\nbody",
			remaining: "\r\nnext",
		},
		{
			name:      "empty section",
			pattern:   "--XYZ",
			source:    "\r\n\r\n--XYZ--",
			want:      "",
			remaining: "--",
		},
		{
			name:    "no match",
			pattern: "--XYZ",
			source:  "\r\nheaders\r\n\r\nbody",
			wantErr: ErrNotFound,
		},
		{
			name:      "limit exceeded",
			pattern:   "--XYZ",
			source:    "\r\n0123456789\r\n--XYZ",
			limit:     8,
			wantErr:   ErrPartLimitExceeded,
			remaining: "789\r\n--XYZ",
		},
		{
			name:      "too short",
			pattern:   "--XYZ",
			source:    "\r\n--XYZ\r\n",
			wantErr:   ErrSectionTooShort,
			remaining: "\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MustNew([]byte(tt.pattern), WithPartLimit(tt.limit))
			r := bufio.NewReader(strings.NewReader(tt.source))

			got, err := s.SearchAndExtract(r)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SearchAndExtract() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if got != nil {
					t.Errorf("SearchAndExtract() = %q on failure, want nil", got)
				}
			} else if string(got) != tt.want {
				t.Errorf("SearchAndExtract() = %q, want %q", got, tt.want)
			}

			rest, _ := io.ReadAll(r)
			if string(rest) != tt.remaining {
				t.Errorf("remaining source = %q, want %q", rest, tt.remaining)
			}
		})
	}
}

func TestSearchAndExtractStripsExactly(t *testing.T) {
	pattern := []byte("--b")
	body := []byte("AB0123456789")
	source := append(append(bytes.Clone(body), "\r\n"...), pattern...)

	got, err := MustNew(pattern).SearchAndExtract(bytes.NewReader(source))
	if err != nil {
		t.Fatalf("SearchAndExtract() error = %v", err)
	}
	if want := body[2:]; !bytes.Equal(got, want) {
		t.Errorf("SearchAndExtract() = %q, want %q", got, want)
	}
}

func TestConcurrentSearches(t *testing.T) {
	s := MustNew([]byte("needle"))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			source := strings.Repeat("hay", i) + "needle"
			n, err := s.Search(strings.NewReader(source))
			if err != nil {
				errs <- err
				return
			}
			if n != int64(len(source)) {
				errs <- errors.New("wrong offset")
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func BenchmarkSearch(b *testing.B) {
	source := append(bytes.Repeat([]byte("ab"), 64*1024), "--boundary"...)
	s := MustNew([]byte("--boundary"))
	b.SetBytes(int64(len(source)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := s.Search(bytes.NewReader(source)); err != nil {
			b.Fatal(err)
		}
	}
}
