// Package diag implements the self check that exercises the built-in
// recognizer patterns against known good dialect snippets.
package diag

import (
	"fmt"
	"io"

	"github.com/redbg/redbg/pkg/logflags"
	"github.com/redbg/redbg/pkg/pattern"
)

// Canonical dialect snippets the self check runs against.
const (
	// ForEachInput exercises the for-each recognizer.
	ForEachInput = "for (var char in 'hello'.split('')) {}"
	// SplitInput exercises the split call detector.
	SplitInput = "'hello'.split('')"
)

// Checker runs the built-in pattern self check and writes a human readable
// report.
type Checker struct {
	out io.Writer
	log logflags.Logger
}

// New returns a Checker writing its report to out.
func New(out io.Writer) *Checker {
	return &Checker{out: out, log: logflags.MatchLogger()}
}

// Run performs both checks in order against the canonical snippets. A
// pattern that does not match is a reported outcome, not an error; Run never
// fails and its output is identical across runs.
func (c *Checker) Run() {
	c.CheckForEach(ForEachInput)
	c.CheckSplit(SplitInput)
}

// CheckForEach searches src for a for-each statement header and reports the
// captured pieces.
func (c *Checker) CheckForEach(src string) {
	fe, ok := pattern.MatchForEach(src)
	if !ok {
		c.log.Debugf("for-each pattern did not match %q", src)
		fmt.Fprintln(c.out, "No match found")
		return
	}
	fmt.Fprintf(c.out, "Full match: '%s'\n", fe.Full)
	fmt.Fprintf(c.out, "Keyword: '%s'\n", fe.Keyword)
	fmt.Fprintf(c.out, "Variable: '%s'\n", fe.Variable)
	fmt.Fprintf(c.out, "Iterable: '%s'\n", fe.Iterable)
}

// CheckSplit reports whether src begins with a split call. Split calls
// produce a String result in the dialect, which is what the report reminds
// the reader of.
func (c *Checker) CheckSplit(src string) {
	if pattern.IsSplitCall(src) {
		fmt.Fprintf(c.out, "Split pattern matches: '%s' -> should return String\n", src)
		return
	}
	fmt.Fprintf(c.out, "Split pattern doesn't match: '%s'\n", src)
}
