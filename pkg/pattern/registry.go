package pattern

import (
	"fmt"
	"sort"
	"sync"

	"github.com/derekparker/trie"
)

// Registry is a named set of patterns. Lookups by name and prefix searches
// over names are used by the terminal for completion.
type Registry struct {
	mu    sync.RWMutex
	pats  map[string]*Pattern
	names *trie.Trie
}

// NewRegistry returns a Registry seeded with the built-in dialect patterns.
func NewRegistry() *Registry {
	r := &Registry{
		pats:  make(map[string]*Pattern),
		names: trie.New(),
	}
	r.add("foreach", forEachPattern)
	r.add("splitcall", splitCallPattern)
	return r
}

func (r *Registry) add(name string, p *Pattern) {
	np := &Pattern{Name: name, Expr: p.Expr, re: p.re, prefixRe: p.prefixRe}
	r.pats[name] = np
	r.names.Add(name, np)
}

// Add compiles expr and registers it under name, replacing any previous
// pattern with the same name.
func (r *Registry) Add(name, expr string) (*Pattern, error) {
	if name == "" {
		return nil, fmt.Errorf("pattern name can not be empty")
	}
	p, err := Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %v", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(name, p)
	return r.pats[name], nil
}

// Remove unregisters the pattern with the given name. It reports whether a
// pattern was removed.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pats[name]; !ok {
		return false
	}
	delete(r.pats, name)
	r.names.Remove(name)
	return true
}

// Find returns the pattern registered under name.
func (r *Registry) Find(name string) (*Pattern, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pats[name]
	return p, ok
}

// Resolve interprets arg either as the name of a registered pattern or,
// failing that, as an inline expression to compile.
func (r *Registry) Resolve(arg string) (*Pattern, error) {
	if p, ok := r.Find(arg); ok {
		return p, nil
	}
	return Compile(arg)
}

// PrefixSearch returns the names of registered patterns starting with
// prefix, sorted.
func (r *Registry) PrefixSearch(prefix string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.names.HasKeysWithPrefix(prefix) {
		return nil
	}
	names := r.names.PrefixSearch(prefix)
	sort.Strings(names)
	return names
}

// Names returns all registered pattern names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := r.names.Keys()
	sort.Strings(names)
	return names
}
