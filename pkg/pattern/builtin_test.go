package pattern

import (
	"testing"
)

func TestMatchForEach(t *testing.T) {
	fe, ok := MatchForEach("for (var char in 'hello'.split('')) {}")
	if !ok {
		t.Fatalf("expected the for-each pattern to match")
	}
	// The iterable group stops at the first closing parenthesis, which here
	// belongs to the split call inside the header. The truncated capture is
	// the recognizer's actual behavior on nested parentheses.
	if fe.Full != "for (var char in 'hello'.split('')" {
		t.Errorf("unexpected full match: %q", fe.Full)
	}
	if fe.Keyword != "var" {
		t.Errorf("unexpected keyword: %q", fe.Keyword)
	}
	if fe.Variable != "char" {
		t.Errorf("unexpected variable: %q", fe.Variable)
	}
	if fe.Iterable != "'hello'.split(''" {
		t.Errorf("unexpected iterable: %q", fe.Iterable)
	}
}

func TestBuiltinPatternsCompileAtInit(t *testing.T) {
	// The built-in patterns are package-level vars compiled through the
	// cache, which must therefore be ready before they are.
	p, err := Compile(ForEachExpr)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if p != forEachPattern {
		t.Errorf("expected the built-in for-each pattern to be served from the cache")
	}
	p, err = Compile(SplitCallExpr)
	if err != nil {
		t.Fatalf("unexpected compile error: %v", err)
	}
	if p != splitCallPattern {
		t.Errorf("expected the built-in split pattern to be served from the cache")
	}
}

func TestMatchForEachVariants(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		matched  bool
		keyword  string
		variable string
		iterable string
	}{
		{"final keyword", "for (final x in items) {}", true, "final", "x", "items"},
		{"no space after for", "for(var i in xs){}", true, "var", "i", "xs"},
		{"embedded in larger snippet", "f() { for (var c in cs) {} }", true, "var", "c", "cs"},
		{"classic three clause loop", "for (var i = 0; i < 10; i++) {}", false, "", "", ""},
		{"missing in token", "for (var char 'hello') {}", false, "", "", ""},
		{"unsupported keyword", "for (let x in xs) {}", false, "", "", ""},
		{"missing variable before in", "for (var in xs) {}", false, "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe, ok := MatchForEach(tt.in)
			if ok != tt.matched {
				t.Fatalf("MatchForEach(%q) matched=%v, expected %v", tt.in, ok, tt.matched)
			}
			if !ok {
				return
			}
			if fe.Keyword != tt.keyword || fe.Variable != tt.variable || fe.Iterable != tt.iterable {
				t.Errorf("unexpected decomposition: %#v", fe)
			}
		})
	}
}

func TestIsSplitCall(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		matched bool
	}{
		{"string literal receiver", "'hello'.split('')", true},
		{"identifier receiver", "line.split(',')", true},
		{"empty argument list", "s.split()", true},
		// The expression is a prefix check with a greedy wildcard, content
		// after the last closing parenthesis is tolerated.
		{"trailing content after call", "s.split(',').length", true},
		{"no split call", "'hello'.trim()", false},
		{"split without parens", "s.split", false},
		{"no receiver", ".split('')", false},
		{"missing closing paren", "s.split('", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSplitCall(tt.in); got != tt.matched {
				t.Errorf("IsSplitCall(%q) = %v, expected %v", tt.in, got, tt.matched)
			}
		})
	}
}
