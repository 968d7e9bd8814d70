// Package starbind integrates the starlark interpreter into redbg's
// terminal, so that pattern checks can be scripted.
package starbind

import (
	"fmt"
	"io"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"

	"github.com/redbg/redbg/pkg/logflags"
	"github.com/redbg/redbg/pkg/pattern"
)

// Context is the interface between the starlark interpreter and the
// terminal.
type Context interface {
	Registry() *pattern.Registry
	CallCommand(cmdstr string) error
	Stdout() io.Writer
}

func init() {
	resolve.AllowNestedDef = true
	resolve.AllowLambda = true
	resolve.AllowFloat = true
	resolve.AllowSet = true
	resolve.AllowGlobalReassign = true
	resolve.AllowRecursion = true
}

// Env is a starlark execution environment.
type Env struct {
	env starlark.StringDict
	ctx Context
	out io.Writer
}

// New creates a new starlark execution environment.
func New(ctx Context) *Env {
	env := &Env{ctx: ctx, out: ctx.Stdout()}
	env.env = starlark.StringDict{
		"match":    starlark.NewBuiltin("match", env.matchBuiltin),
		"find":     starlark.NewBuiltin("find", env.findBuiltin),
		"captures": starlark.NewBuiltin("captures", env.capturesBuiltin),
		"command":  starlark.NewBuiltin("command", env.commandBuiltin),
	}
	return env
}

// Execute executes the specified script, passing args to it as the argv
// global.
func (env *Env) Execute(path string, args []string) error {
	thread := &starlark.Thread{
		Name: "main",
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(env.out, msg)
		},
	}

	sargs := make([]starlark.Value, len(args))
	for i := range args {
		sargs[i] = starlark.String(args[i])
	}

	predeclared := make(starlark.StringDict, len(env.env)+1)
	for k, v := range env.env {
		predeclared[k] = v
	}
	predeclared["argv"] = starlark.NewList(sargs)

	logflags.ScriptLogger().Debugf("executing %q", path)
	_, err := starlark.ExecFile(thread, path, nil, predeclared)
	if err != nil {
		if evalErr, ok := err.(*starlark.EvalError); ok {
			return fmt.Errorf("%s", evalErr.Backtrace())
		}
		return err
	}
	return nil
}

// matchBuiltin implements match(pattern, text), reporting whether text
// matches the pattern starting at position zero.
func (env *Env) matchBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	p, text, err := env.patternArgs(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	return starlark.Bool(p.MatchPrefix(text)), nil
}

// findBuiltin implements find(pattern, text). It returns None when the
// pattern does not match, otherwise a dict with the matched text, its
// position and the capture groups.
func (env *Env) findBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	p, text, err := env.patternArgs(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	m, ok := p.Find(text)
	if !ok {
		return starlark.None, nil
	}
	groups := make([]starlark.Value, len(m.Groups))
	for i := range m.Groups {
		groups[i] = starlark.String(m.Groups[i])
	}
	d := starlark.NewDict(3)
	d.SetKey(starlark.String("text"), starlark.String(m.Text))
	d.SetKey(starlark.String("pos"), starlark.MakeInt(m.Pos))
	d.SetKey(starlark.String("groups"), starlark.NewList(groups))
	return d, nil
}

// capturesBuiltin implements captures(pattern, text). It returns None when
// the pattern does not match, otherwise a dict of the named capture groups.
func (env *Env) capturesBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	p, text, err := env.patternArgs(b, args, kwargs)
	if err != nil {
		return nil, err
	}
	m, ok := p.Find(text)
	if !ok {
		return starlark.None, nil
	}
	d := starlark.NewDict(len(m.Named))
	for _, name := range p.GroupNames() {
		if name == "" {
			continue
		}
		d.SetKey(starlark.String(name), starlark.String(m.Named[name]))
	}
	return d, nil
}

// commandBuiltin implements command(cmd), which executes a terminal command
// as if it had been typed at the prompt.
func (env *Env) commandBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var cmdstr string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "cmd", &cmdstr); err != nil {
		return nil, err
	}
	return starlark.None, env.ctx.CallCommand(cmdstr)
}

func (env *Env) patternArgs(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (*pattern.Pattern, string, error) {
	var expr, text string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &expr, "text", &text); err != nil {
		return nil, "", err
	}
	p, err := env.ctx.Registry().Resolve(expr)
	if err != nil {
		return nil, "", err
	}
	return p, text, nil
}
