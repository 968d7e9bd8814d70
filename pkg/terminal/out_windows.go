//go:build windows
// +build windows

package terminal

import (
	"io"

	"github.com/mattn/go-colorable"
)

// The pager is not generally available on windows, output is never paged
// there.
func (w *pagingWriter) getWindowSize() {
	w.mode = pagingWriterNormal
}

// getColorableWriter returns a writer that translates ANSI escape codes
// into windows console calls.
func getColorableWriter() io.Writer {
	return colorable.NewColorableStdout()
}
