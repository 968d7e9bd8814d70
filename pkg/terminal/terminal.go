package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-delve/liner"

	"github.com/redbg/redbg/pkg/config"
	"github.com/redbg/redbg/pkg/logflags"
	"github.com/redbg/redbg/pkg/pattern"
)

const (
	historyFile                 string = ".redbg_history"
	terminalHighlightEscapeCode string = "\033[%2dm"
	terminalResetEscapeCode     string = "\033[0m"
)

const (
	ansiBlack     = 30
	ansiRed       = 31
	ansiGreen     = 32
	ansiYellow    = 33
	ansiBlue      = 34
	ansiMagenta   = 35
	ansiCyan      = 36
	ansiWhite     = 37
	ansiBrBlack   = 90
	ansiBrRed     = 91
	ansiBrGreen   = 92
	ansiBrYellow  = 93
	ansiBrBlue    = 94
	ansiBrMagenta = 95
	ansiBrCyan    = 96
	ansiBrWhite   = 97
)

// Term represents the terminal running redbg.
type Term struct {
	conf     *config.Config
	registry *pattern.Registry
	prompt   string
	line     *liner.State
	cmds     *Commands
	dumb     bool
	stdout   *transcriptWriter
	InitFile string
}

// New returns a new Term.
func New(conf *config.Config) *Term {
	if conf == nil {
		conf = &config.Config{}
	}

	cmds := DebugCommands()
	if conf.Aliases != nil {
		cmds.Merge(conf.Aliases)
	}

	var w io.Writer

	dumb := strings.ToLower(os.Getenv("TERM")) == "dumb"
	if dumb {
		w = os.Stdout
	} else {
		w = getColorableWriter()
	}

	if (conf.MatchColor > ansiWhite && conf.MatchColor < ansiBrBlack) ||
		conf.MatchColor < ansiBlack ||
		conf.MatchColor > ansiBrWhite {
		conf.MatchColor = ansiYellow
	}

	registry := pattern.NewRegistry()
	for name, expr := range conf.Patterns {
		if _, err := registry.Add(name, expr); err != nil {
			logflags.TerminalLogger().Warnf("skipping configured pattern: %v", err)
		}
	}

	return &Term{
		conf:     conf,
		registry: registry,
		prompt:   "(redbg) ",
		line:     liner.NewLiner(),
		cmds:     cmds,
		dumb:     dumb,
		stdout:   &transcriptWriter{pw: &pagingWriter{w: w}},
	}
}

// Close returns the terminal to its previous mode.
func (t *Term) Close() {
	t.line.Close()
	if err := t.stdout.CloseTranscript(); err != nil {
		fmt.Fprintf(os.Stderr, "error closing transcript file: %v\n", err)
	}
}

// Run begins running redbg in the terminal.
func (t *Term) Run() (int, error) {
	defer t.Close()

	// A SIGINT aborts the current line instead of killing the process.
	t.line.SetCtrlCAborts(true)

	t.line.SetCompleter(func(line string) (c []string) {
		if patternArg, ok := patternArgPrefix(line); ok {
			for _, name := range t.registry.PrefixSearch(patternArg) {
				c = append(c, line[:len(line)-len(patternArg)]+name)
			}
			return
		}
		for _, cmd := range t.cmds.cmds {
			for _, alias := range cmd.aliases {
				if strings.HasPrefix(alias, strings.ToLower(line)) {
					c = append(c, alias)
				}
			}
		}
		return
	})

	fullHistoryFile, err := config.GetConfigFilePath(historyFile)
	if err != nil {
		fmt.Printf("Unable to load history file: %v.", err)
	}

	f, err := os.Open(fullHistoryFile)
	if err != nil {
		f, err = os.Create(fullHistoryFile)
		if err != nil {
			fmt.Printf("Unable to open history file: %v. History will not be saved for this session.", err)
		}
	}
	if f != nil {
		t.line.ReadHistory(f)
		f.Close()
	}

	fmt.Println("Type 'help' for list of commands.")

	if t.InitFile != "" {
		err := t.cmds.executeFile(t, t.InitFile)
		if err != nil {
			if _, ok := err.(ExitRequestError); ok {
				return t.handleExit()
			}
			fmt.Fprintf(os.Stderr, "Error executing init file: %s\n", err)
		}
	}

	for {
		cmdstr, err := t.promptForInput()
		if err != nil {
			if err == io.EOF {
				fmt.Println("exit")
				return t.handleExit()
			}
			if err == liner.ErrPromptAborted {
				continue
			}
			return 1, fmt.Errorf("prompt for input failed")
		}

		t.stdout.Echo(t.prompt + cmdstr + "\n")

		if err := t.cmds.Call(cmdstr, t); err != nil {
			if _, ok := err.(ExitRequestError); ok {
				return t.handleExit()
			}
			fmt.Fprintf(os.Stderr, "Command failed: %s\n", err)
		}

		t.stdout.pw.Reset()
		t.stdout.Flush()
	}
}

// patternArgPrefix returns the partial pattern name being typed as the first
// argument of one of the commands that take a pattern.
func patternArgPrefix(line string) (string, bool) {
	for _, cmdname := range []string{"match", "m", "find", "f", "captures", "caps"} {
		if strings.HasPrefix(line, cmdname+" ") {
			rest := line[len(cmdname)+1:]
			if strings.ContainsAny(rest, " \"") {
				return "", false
			}
			return rest, true
		}
	}
	return "", false
}

// highlight returns str wrapped in the configured match color, unless the
// terminal can not render it.
func (t *Term) highlight(str string) string {
	if t.dumb || t.stdout.file != nil {
		return str
	}
	return fmt.Sprintf(terminalHighlightEscapeCode, t.conf.MatchColor) + str + terminalResetEscapeCode
}

// truncate shortens str to the configured max-match-width.
func (t *Term) truncate(str string) string {
	if t.conf.MaxMatchWidth == nil {
		return str
	}
	maxWidth := *t.conf.MaxMatchWidth
	if maxWidth <= 3 || len(str) <= maxWidth {
		return str
	}
	return str[:maxWidth-3] + "..."
}

func (t *Term) promptForInput() (string, error) {
	l, err := t.line.Prompt(t.prompt)
	if err != nil {
		return "", err
	}

	l = strings.TrimSuffix(l, "\n")
	if l != "" {
		t.line.AppendHistory(l)
	}

	return l, nil
}

func (t *Term) handleExit() (int, error) {
	fullHistoryFile, err := config.GetConfigFilePath(historyFile)
	if err != nil {
		fmt.Println("Error saving history file:", err)
	} else {
		if f, err := os.OpenFile(fullHistoryFile, os.O_RDWR, 0666); err == nil {
			_, err = t.line.WriteHistory(f)
			if err != nil {
				fmt.Println("readline history error:", err)
			}
			f.Close()
		}
	}

	return 0, nil
}
