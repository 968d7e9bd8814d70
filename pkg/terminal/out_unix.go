//go:build linux || darwin || freebsd
// +build linux darwin freebsd

package terminal

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

func (w *pagingWriter) getWindowSize() {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		w.mode = pagingWriterNormal
		return
	}
	w.lines = int(ws.Row)
	w.columns = int(ws.Col)
}

// getColorableWriter simply returns stdout on
// *nix machines.
func getColorableWriter() io.Writer {
	return os.Stdout
}
