package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	p, ok := r.Find("foreach")
	require.True(t, ok, "foreach should be registered")
	assert.Equal(t, ForEachExpr, p.Expr)
	assert.Equal(t, "foreach", p.Name)

	p, ok = r.Find("splitcall")
	require.True(t, ok, "splitcall should be registered")
	assert.Equal(t, SplitCallExpr, p.Expr)
}

func TestRegistryAdd(t *testing.T) {
	r := NewRegistry()

	p, err := r.Add("ident", `[A-Za-z_]\w*`)
	require.NoError(t, err)
	assert.Equal(t, "ident", p.Name)

	found, ok := r.Find("ident")
	require.True(t, ok)
	assert.Same(t, p, found)

	_, err = r.Add("bad", `(unclosed`)
	assert.Error(t, err)

	_, err = r.Add("", `a`)
	assert.Error(t, err)
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()

	p, err := r.Resolve("foreach")
	require.NoError(t, err)
	assert.Equal(t, ForEachExpr, p.Expr)

	p, err = r.Resolve(`\d+`)
	require.NoError(t, err)
	assert.Equal(t, `\d+`, p.Expr)
	assert.Empty(t, p.Name)

	_, err = r.Resolve(`(unclosed`)
	assert.Error(t, err)
}

func TestRegistryPrefixSearch(t *testing.T) {
	r := NewRegistry()
	_, err := r.Add("form", `form`)
	require.NoError(t, err)

	assert.Equal(t, []string{"foreach", "form"}, r.PrefixSearch("for"))
	assert.Equal(t, []string{"splitcall"}, r.PrefixSearch("spl"))
	assert.Empty(t, r.PrefixSearch("zzz"))
	assert.Equal(t, []string{"foreach", "form", "splitcall"}, r.Names())
}
