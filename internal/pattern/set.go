package pattern

import "github.com/gobwas/glob"

// Set is an ordered list of compiled title patterns.
type Set struct {
	patterns []string
	globs    []glob.Glob
}

// NewSet compiles patterns, keeping their order.
func NewSet(patterns []string) (*Set, error) {
	s := &Set{
		patterns: append([]string(nil), patterns...),
		globs:    make([]glob.Glob, 0, len(patterns)),
	}
	for _, p := range patterns {
		g, err := Compile(p)
		if err != nil {
			return nil, err
		}
		s.globs = append(s.globs, g)
	}
	return s, nil
}

// Patterns returns the source patterns in order.
func (s *Set) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// Len returns the number of patterns.
func (s *Set) Len() int {
	return len(s.globs)
}

// Match reports whether the i-th pattern matches title.
func (s *Set) Match(i int, title string) bool {
	return s.globs[i].Match(title)
}

// MatchesAny reports whether any pattern in the set matches title.
func (s *Set) MatchesAny(title string) bool {
	_, ok := s.FindMatchingRule(title)
	return ok
}

// FindMatchingRule returns the index of the first pattern matching title.
func (s *Set) FindMatchingRule(title string) (int, bool) {
	for i, g := range s.globs {
		if g.Match(title) {
			return i, true
		}
	}
	return -1, false
}
