package main

import (
	"os"

	"github.com/redbg/redbg/cmd/redbg/cmds"
)

func main() {
	if err := cmds.New().Execute(); err != nil {
		os.Exit(1)
	}
}
