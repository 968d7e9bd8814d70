// Package pattern implements compilation and evaluation of the regular
// expressions redbg diagnoses.
package pattern

import (
	"regexp"

	lru "github.com/hashicorp/golang-lru"

	"github.com/redbg/redbg/pkg/logflags"
)

// cacheSize is the number of compiled expressions kept around between
// evaluations. The terminal recompiles the current expression on every
// command, the cache makes that free.
const cacheSize = 128

// Initialized at declaration so the built-in patterns, which are also
// package-level vars, can compile through the cache.
var compileCache = func() *lru.Cache {
	c, _ := lru.New(cacheSize)
	return c
}()

// Pattern is a compiled regular expression together with the expression text
// it was compiled from.
type Pattern struct {
	// Name is the registry name of the pattern, empty for inline expressions.
	Name string
	// Expr is the source text of the expression.
	Expr string

	re       *regexp.Regexp
	prefixRe *regexp.Regexp
}

// Compile compiles expr, reusing a previously compiled Pattern when
// possible.
func Compile(expr string) (*Pattern, error) {
	if v, ok := compileCache.Get(expr); ok {
		logflags.PatternLogger().Debugf("cache hit for %q", expr)
		return v.(*Pattern), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	// A valid expression always admits non-capturing grouping, the anchored
	// variant can not fail to compile.
	prefixRe := regexp.MustCompile(`^(?:` + expr + `)`)
	p := &Pattern{Expr: expr, re: re, prefixRe: prefixRe}
	compileCache.Add(expr, p)
	logflags.PatternLogger().Debugf("compiled %q", expr)
	return p, nil
}

// MustCompile is like Compile but panics on malformed expressions. It should
// only be used for expressions known at compile time.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Match describes a successful application of a Pattern to a text.
type Match struct {
	// Text is the entire matched substring.
	Text string
	// Pos is the byte offset of the match inside the input.
	Pos int
	// Groups contains the positional capture groups, excluding the full
	// match. Groups that did not participate in the match are empty.
	Groups []string
	// Named contains the named capture groups, nil if the pattern has none.
	Named map[string]string
}

// Find searches text for the first occurrence of the pattern. The match can
// begin anywhere in the input.
func (p *Pattern) Find(text string) (*Match, bool) {
	idx := p.re.FindStringSubmatchIndex(text)
	if idx == nil {
		logflags.MatchLogger().Debugf("%q did not match %q", p.Expr, text)
		return nil, false
	}
	m := &Match{Text: text[idx[0]:idx[1]], Pos: idx[0]}
	names := p.re.SubexpNames()
	for i := 1; 2*i < len(idx); i++ {
		var g string
		if idx[2*i] >= 0 {
			g = text[idx[2*i]:idx[2*i+1]]
		}
		m.Groups = append(m.Groups, g)
		if names[i] != "" {
			if m.Named == nil {
				m.Named = make(map[string]string)
			}
			m.Named[names[i]] = g
		}
	}
	logflags.MatchLogger().Debugf("%q matched %q at %d", p.Expr, m.Text, m.Pos)
	return m, true
}

// MatchPrefix reports whether text matches the pattern starting at position
// zero. The match does not have to extend to the end of the input, trailing
// text is permitted.
func (p *Pattern) MatchPrefix(text string) bool {
	return p.prefixRe.MatchString(text)
}

// GroupNames returns the names of the pattern's capture groups, in group
// order. Unnamed groups appear as empty strings.
func (p *Pattern) GroupNames() []string {
	return p.re.SubexpNames()[1:]
}

// NumGroups returns the number of capture groups in the pattern.
func (p *Pattern) NumGroups() int {
	return p.re.NumSubexp()
}
