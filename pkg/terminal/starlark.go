package terminal

import (
	"io"

	"github.com/redbg/redbg/pkg/pattern"
	"github.com/redbg/redbg/pkg/terminal/starbind"
)

type starlarkContext struct {
	term *Term
}

var _ starbind.Context = starlarkContext{}

func (ctx starlarkContext) Registry() *pattern.Registry {
	return ctx.term.registry
}

func (ctx starlarkContext) CallCommand(cmdstr string) error {
	return ctx.term.cmds.Call(cmdstr, ctx.term)
}

func (ctx starlarkContext) Stdout() io.Writer {
	return ctx.term.stdout
}

func (t *Term) starlarkRun(path string, args []string) error {
	return starbind.New(starlarkContext{t}).Execute(path, args)
}
