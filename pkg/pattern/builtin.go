package pattern

// Expressions used by the script front end to recognize dialect constructs.
// These are the expressions the self check exercises, see pkg/diag.
const (
	// ForEachExpr recognizes a for-each statement header: the for keyword,
	// a parenthesized declaration of a loop variable with var or final, the
	// in keyword and the iterable expression.
	ForEachExpr = `for\s*\(\s*(var|final)\s+(\w+)\s+in\s+([^)]+)\)`

	// SplitCallExpr detects a call to a .split(...) method on some
	// receiver. The expression is unanchored at the end and the wildcard is
	// greedy, so a closing parenthesis in the middle of the input is enough
	// for a prefix match even with trailing content after it. This matches
	// how the front end defines it and is kept as is.
	SplitCallExpr = `.+\.split\(.*\)`
)

var (
	forEachPattern   = MustCompile(ForEachExpr)
	splitCallPattern = MustCompile(SplitCallExpr)
)

// ForEach is the decomposition of a matched for-each statement header.
type ForEach struct {
	Full     string // entire matched header
	Keyword  string // var or final
	Variable string // loop variable name
	Iterable string // iterable expression, verbatim
}

// MatchForEach searches src for a for-each statement header.
func MatchForEach(src string) (ForEach, bool) {
	m, ok := forEachPattern.Find(src)
	if !ok {
		return ForEach{}, false
	}
	return ForEach{
		Full:     m.Text,
		Keyword:  m.Groups[0],
		Variable: m.Groups[1],
		Iterable: m.Groups[2],
	}, true
}

// IsSplitCall reports whether src begins with a call to a split method.
// Split calls are assumed to produce a String result.
func IsSplitCall(src string) bool {
	return splitCallPattern.MatchPrefix(src)
}
