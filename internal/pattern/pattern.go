// Package pattern implements shell-style title matching: '*', '?' and
// bracket classes, case-sensitive, anchored at both ends.
package pattern

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Compile compiles a title glob. Braces and backslashes are literal, an
// unterminated '[' is literal, and a '-' at either end of a class is a
// member of the class.
//
// Matching runs rune by rune. Bracket classes are compiled with gobwas one
// class item at a time; gobwas joins fixed-length runs of a whole pattern
// by byte offset, which drops multi-byte runes such as "ç" or "ë".
func Compile(pattern string) (glob.Glob, error) {
	m, err := parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid title pattern %q: %w", pattern, err)
	}
	return m, nil
}

// Matches reports whether title fully matches pattern. Invalid patterns
// match nothing.
func Matches(title, pattern string) bool {
	g, err := Compile(pattern)
	if err != nil {
		return false
	}
	return g.Match(title)
}

// MatchesAny reports whether title matches at least one of patterns.
func MatchesAny(title string, patterns []string) bool {
	for _, p := range patterns {
		if Matches(title, p) {
			return true
		}
	}
	return false
}

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenAny               // ?
	tokenStar              // *
	tokenClass             // [...]
)

type token struct {
	kind    tokenKind
	literal rune
	class   *class
}

func (t token) matches(r rune) bool {
	switch t.kind {
	case tokenLiteral:
		return t.literal == r
	case tokenAny:
		return true
	case tokenClass:
		return t.class.matches(r)
	}
	return false
}

// class is a bracket expression. Each item is a gobwas single-character
// glob matched against one rune.
type class struct {
	items  []glob.Glob
	negate bool
}

func (c *class) matches(r rune) bool {
	s := string(r)
	for _, item := range c.items {
		if item.Match(s) {
			return !c.negate
		}
	}
	return c.negate
}

// matcher implements glob.Glob over parsed tokens.
type matcher struct {
	tokens []token
}

// Match walks title rune by rune. On a mismatch it backtracks to the most
// recent '*' and lets it absorb one more rune.
func (m *matcher) Match(title string) bool {
	s := []rune(title)
	p := m.tokens

	si, pi := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(p) && p[pi].kind == tokenStar:
			star, mark = pi, si
			pi++
		case pi < len(p) && p[pi].matches(s[si]):
			si++
			pi++
		case star >= 0:
			mark++
			si, pi = mark, star+1
		default:
			return false
		}
	}
	for pi < len(p) && p[pi].kind == tokenStar {
		pi++
	}
	return pi == len(p)
}

func parse(pattern string) (*matcher, error) {
	runes := []rune(pattern)
	m := &matcher{}
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			// Consecutive stars are equivalent to one.
			if n := len(m.tokens); n > 0 && m.tokens[n-1].kind == tokenStar {
				continue
			}
			m.tokens = append(m.tokens, token{kind: tokenStar})
		case '?':
			m.tokens = append(m.tokens, token{kind: tokenAny})
		case '[':
			end := classEnd(runes, i)
			if end < 0 {
				m.tokens = append(m.tokens, token{kind: tokenLiteral, literal: r})
				continue
			}
			c, err := compileClass(runes[i+1 : end])
			if err != nil {
				return nil, err
			}
			m.tokens = append(m.tokens, token{kind: tokenClass, class: c})
			i = end
		default:
			m.tokens = append(m.tokens, token{kind: tokenLiteral, literal: r})
		}
	}
	return m, nil
}

// classEnd returns the index of the ']' closing the class opened at start,
// or -1. A ']' directly after "[" or "[!" is a member, not a terminator.
func classEnd(runes []rune, start int) int {
	j := start + 1
	if j < len(runes) && runes[j] == '!' {
		j++
	}
	if j < len(runes) && runes[j] == ']' {
		j++
	}
	for ; j < len(runes); j++ {
		if runes[j] == ']' {
			return j
		}
	}
	return -1
}

// compileClass compiles the body of a bracket expression (without the
// brackets). "x-y" is a range unless the '-' is first or last.
func compileClass(body []rune) (*class, error) {
	c := &class{}
	if len(body) > 0 && body[0] == '!' {
		c.negate = true
		body = body[1:]
	}

	var singles []rune
	for i := 0; i < len(body); i++ {
		if i+2 < len(body) && body[i+1] == '-' {
			lo, hi := body[i], body[i+2]
			i += 2
			if lo > hi {
				continue
			}
			if lo == '!' {
				// gobwas reads a leading '!' as negation.
				singles = append(singles, lo)
				if lo == hi {
					continue
				}
				lo++
			}
			g, err := glob.Compile("[" + string(lo) + "-" + string(hi) + "]")
			if err != nil {
				return nil, err
			}
			c.items = append(c.items, g)
			continue
		}
		singles = append(singles, body[i])
	}

	if len(singles) > 0 {
		g, err := glob.Compile(listGlob(singles))
		if err != nil {
			return nil, err
		}
		c.items = append(c.items, g)
	}
	return c, nil
}

// listGlob renders runes as a gobwas list class. Every member is escaped
// except '-', which goes first and bare: gobwas would read an escaped '-'
// as the middle of a range.
func listGlob(members []rune) string {
	var sb strings.Builder
	sb.WriteByte('[')
	hasDash := false
	for _, r := range members {
		if r == '-' {
			hasDash = true
		}
	}
	if hasDash {
		sb.WriteByte('-')
	}
	for _, r := range members {
		if r == '-' {
			continue
		}
		sb.WriteByte('\\')
		sb.WriteRune(r)
	}
	sb.WriteByte(']')
	return sb.String()
}
