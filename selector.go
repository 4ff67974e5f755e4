package formkit

import (
	"github.com/gobwas/glob"
)

// ============================================================================
// PartSelector Interface
// ============================================================================

// PartSelector decides which parts to keep. Selectors compose with And, Or
// and Not.
//
//	selector := formkit.And(
//	    formkit.Files(),
//	    formkit.ContentTypeGlob("image/*"),
//	)
//	images := formkit.Select(parts, selector)
type PartSelector interface {
	// Match returns true if the part should be kept.
	Match(part *Part) bool
}

// Select returns the parts matched by selector, in order. A nil selector
// keeps everything.
func Select(parts []*Part, selector PartSelector) []*Part {
	if selector == nil {
		return parts
	}
	var out []*Part
	for _, p := range parts {
		if selector.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// ============================================================================
// Built-in Selectors
// ============================================================================

type allSelector struct{}

func (allSelector) Match(*Part) bool { return true }

// All returns a selector that matches every part.
func All() PartSelector {
	return allSelector{}
}

type fileSelector struct{ files bool }

func (s fileSelector) Match(p *Part) bool { return p.IsFile() == s.files }

// Files matches parts that carry a filename.
func Files() PartSelector {
	return fileSelector{files: true}
}

// Fields matches plain form fields, those without a filename.
func Fields() PartSelector {
	return fileSelector{files: false}
}

// ============================================================================
// Glob - Pattern matching on names and content types
// ============================================================================

type globSelector struct {
	g     glob.Glob
	field func(*Part) string
}

func (s *globSelector) Match(p *Part) bool {
	if s.g == nil {
		return false
	}
	return s.g.Match(s.field(p))
}

// Glob matches part names against a glob pattern.
// Supports: *, ?, [abc], [a-z], {a,b}
//
//	Glob("file*")          // file, file1, files
//	Glob("{avatar,photo}") // either name
//
// An invalid pattern matches nothing; use CompileGlob to see the error.
func Glob(pattern string) PartSelector {
	s, _ := CompileGlob(pattern)
	return s
}

// CompileGlob is like Glob but reports an invalid pattern.
func CompileGlob(pattern string) (PartSelector, error) {
	g, err := glob.Compile(pattern)
	return &globSelector{g: g, field: (*Part).Name}, err
}

// FileNameGlob matches filenames against a glob pattern. An invalid pattern
// matches nothing; use CompileFileNameGlob to see the error.
func FileNameGlob(pattern string) PartSelector {
	s, _ := CompileFileNameGlob(pattern)
	return s
}

// CompileFileNameGlob is like FileNameGlob but reports an invalid pattern.
func CompileFileNameGlob(pattern string) (PartSelector, error) {
	g, err := glob.Compile(pattern)
	return &globSelector{g: g, field: (*Part).FileName}, err
}

// ContentTypeGlob matches media types, without parameters, against a glob
// pattern with '/' as separator, so "image/*" does not match "image/svg/x".
// An invalid pattern matches nothing; use CompileContentTypeGlob to see the
// error.
func ContentTypeGlob(pattern string) PartSelector {
	s, _ := CompileContentTypeGlob(pattern)
	return s
}

// CompileContentTypeGlob is like ContentTypeGlob but reports an invalid
// pattern.
func CompileContentTypeGlob(pattern string) (PartSelector, error) {
	g, err := glob.Compile(pattern, '/')
	return &globSelector{g: g, field: func(p *Part) string { return MediaType(p.ContentType()) }}, err
}

// ============================================================================
// Composable Selectors (And, Or, Not)
// ============================================================================

type andSelector struct {
	selectors []PartSelector
}

// And matches only if ALL selectors match.
func And(selectors ...PartSelector) PartSelector {
	return &andSelector{selectors: selectors}
}

func (s *andSelector) Match(p *Part) bool {
	for _, sel := range s.selectors {
		if !sel.Match(p) {
			return false
		}
	}
	return true
}

type orSelector struct {
	selectors []PartSelector
}

// Or matches if ANY selector matches.
func Or(selectors ...PartSelector) PartSelector {
	return &orSelector{selectors: selectors}
}

func (s *orSelector) Match(p *Part) bool {
	for _, sel := range s.selectors {
		if sel.Match(p) {
			return true
		}
	}
	return false
}

type notSelector struct {
	selector PartSelector
}

// Not inverts a selector's match result.
func Not(selector PartSelector) PartSelector {
	return &notSelector{selector: selector}
}

func (s *notSelector) Match(p *Part) bool {
	return !s.selector.Match(p)
}

// ============================================================================
// FuncSelector - Custom logic
// ============================================================================

// FuncSelector adapts a function to a PartSelector.
//
//	FuncSelector(func(p *formkit.Part) bool {
//	    return p.Size() < 1<<20
//	})
type FuncSelector func(*Part) bool

func (f FuncSelector) Match(p *Part) bool { return f(p) }
