// Package terminal implements functions for responding to user
// input and dispatching to the appropriate pattern commands.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cosiner/argv"

	"github.com/redbg/redbg/pkg/config"
	"github.com/redbg/redbg/pkg/diag"
	"github.com/redbg/redbg/pkg/pattern"
)

type cmdfunc func(t *Term, args string) error

type command struct {
	aliases        []string
	builtinAliases []string
	group          commandGroup
	helpMsg        string
	cmdFn          cmdfunc
}

// Returns true if the command string matches one of the aliases for this command
func (c command) match(cmdstr string) bool {
	for _, v := range c.aliases {
		if v == cmdstr {
			return true
		}
	}
	return false
}

// Commands represents the commands for the redbg terminal process.
type Commands struct {
	cmds []command
}

// byFirstAlias will sort by the first
// alias of a command.
type byFirstAlias []command

func (a byFirstAlias) Len() int           { return len(a) }
func (a byFirstAlias) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byFirstAlias) Less(i, j int) bool { return a[i].aliases[0] < a[j].aliases[0] }

// DebugCommands returns a Commands struct with default commands defined.
func DebugCommands() *Commands {
	c := &Commands{}

	c.cmds = []command{
		{aliases: []string{"help", "h"}, cmdFn: c.help, helpMsg: `Prints the help message.

	help [command]

Type "help" followed by the name of a command for more information about it.`},
		{aliases: []string{"check"}, group: patternCmds, cmdFn: checkCmd, helpMsg: `Runs the built-in pattern self check.

	check

Exercises the built-in recognizer patterns against their canonical snippets and prints the captured pieces. A pattern that does not match is a reported outcome, not an error.`},
		{aliases: []string{"match", "m"}, group: patternCmds, cmdFn: matchCmd, helpMsg: `Tests a pattern against a text, anchored at position zero.

	match <pattern> "<text>"

The pattern can be the name of a registered pattern (see "patterns") or an inline expression. The match must begin at the first character of the text but does not have to extend to its end. Texts containing spaces must be surrounded by double quotes; single quotes need no escaping.`},
		{aliases: []string{"find", "f"}, group: patternCmds, cmdFn: findCmd, helpMsg: `Searches a text for the first occurrence of a pattern.

	find <pattern> "<text>"

Prints the full match, its position and every capture group. The pattern can be the name of a registered pattern or an inline expression.`},
		{aliases: []string{"captures", "caps"}, group: patternCmds, cmdFn: capturesCmd, helpMsg: `Prints the named capture groups of a match.

	captures <pattern> "<text>"

Searches the text like "find" but reports only the named capture groups, one per line.`},
		{aliases: []string{"patterns", "pats"}, group: patternCmds, cmdFn: patternsCmd, helpMsg: `Lists registered patterns.

	patterns [<prefix>]

With an argument only patterns whose name starts with the prefix are listed. Patterns are registered from the configuration file or with "config pattern".`},
		{aliases: []string{"config"}, group: configCmds, cmdFn: configureCmd, helpMsg: `Changes configuration parameters.

	config -list

Show all configuration parameters.

	config -save

Saves the configuration file to disk, overwriting the current configuration file.

	config <parameter> <value>

Changes the value of a configuration parameter.

	config pattern <name> "<expression>"
	config pattern <name>

Adds or removes a named pattern.

	config alias <command> <alias>
	config alias <alias>

Defines <alias> as an alias for command <command> or removes an alias.`},
		{aliases: []string{"source"}, group: configCmds, cmdFn: sourceCmd, helpMsg: `Executes a file containing a list of commands.

	source <path> [<args>...]

If the path ends with the .star extension it is interpreted as a starlark script, otherwise as a plain list of commands. See the starlark extension documentation for the functions available to scripts.`},
		{aliases: []string{"transcript"}, group: configCmds, cmdFn: transcript, helpMsg: `Appends the output of the terminal to the specified file.

	transcript [-t] [-x] <output file>
	transcript -off

Output of the following commands will be appended to the file. If the -t option is specified the file will be truncated first, with -x the output will be suppressed from the terminal. Use "transcript -off" to stop the transcript.`},
		{aliases: []string{"exit", "quit", "q"}, cmdFn: exitCmd, helpMsg: "Exit redbg."},
	}

	sort.Sort(byFirstAlias(c.cmds))
	return c
}

// Register custom commands. Expects cf to be a func of type cmdfunc,
// returning only an error.
func (c *Commands) Register(cmdstr string, cf cmdfunc, helpMsg string) {
	for _, v := range c.cmds {
		if v.match(cmdstr) {
			v.cmdFn = cf
			return
		}
	}

	c.cmds = append(c.cmds, command{aliases: []string{cmdstr}, cmdFn: cf, helpMsg: helpMsg})
}

// Find will look up the command function for the given command input.
// If it cannot find the command it will default to noCmdAvailable().
// If the command is an empty string it will replay the last command.
func (c *Commands) Find(cmdstr string) cmdfunc {
	// If <enter> use last command, if there was one.
	if cmdstr == "" {
		return nullCommand
	}

	for _, v := range c.cmds {
		if v.match(cmdstr) {
			return v.cmdFn
		}
	}

	return noCmdAvailable
}

// Call takes a command and a terminal to execute the command on.
func (c *Commands) Call(cmdstr string, t *Term) error {
	vals := strings.SplitN(strings.TrimSpace(cmdstr), " ", 2)
	cmdname := vals[0]
	var args string
	if len(vals) > 1 {
		args = strings.TrimSpace(vals[1])
	}
	return c.Find(cmdname)(t, args)
}

// Merge takes aliases defined in the config struct and merges them with the default
// aliases.
func (c *Commands) Merge(allAliases map[string][]string) {
	for i := range c.cmds {
		if c.cmds[i].builtinAliases != nil {
			c.cmds[i].aliases = append(c.cmds[i].aliases[:0], c.cmds[i].builtinAliases...)
		}
	}
	for i := range c.cmds {
		if aliases, ok := allAliases[c.cmds[i].aliases[0]]; ok {
			if c.cmds[i].builtinAliases == nil {
				c.cmds[i].builtinAliases = make([]string, len(c.cmds[i].aliases))
				copy(c.cmds[i].builtinAliases, c.cmds[i].aliases)
			}
			c.cmds[i].aliases = append(c.cmds[i].aliases, aliases...)
		}
	}
}

var noCmdError = errors.New("command not available")

func noCmdAvailable(t *Term, args string) error {
	return noCmdError
}

func nullCommand(t *Term, args string) error {
	return nil
}

// ExitRequestError is returned when the user
// exits the terminal.
type ExitRequestError struct{}

func (ere ExitRequestError) Error() string {
	return "exit"
}

func exitCmd(t *Term, args string) error {
	return ExitRequestError{}
}

func checkCmd(t *Term, args string) error {
	if args != "" {
		return fmt.Errorf("too many arguments to \"check\"")
	}
	diag.New(t.stdout).Run()
	return nil
}

// splitPatternArgs splits the arguments of match, find and captures into a
// pattern and a text. Double quotes group fields containing spaces, single
// quotes pass through so dialect snippets don't need escaping.
func splitPatternArgs(args string) (expr, text string, err error) {
	v := config.SplitQuotedFields(args, '"')
	if len(v) != 2 {
		return "", "", fmt.Errorf("wrong number of arguments, expected <pattern> \"<text>\"")
	}
	return v[0], v[1], nil
}

func patternLabel(p *pattern.Pattern) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("'%s'", p.Expr)
}

func matchCmd(t *Term, args string) error {
	expr, text, err := splitPatternArgs(args)
	if err != nil {
		return err
	}
	p, err := t.registry.Resolve(expr)
	if err != nil {
		return err
	}
	if p.MatchPrefix(text) {
		fmt.Fprintf(t.stdout, "%s matches '%s'\n", patternLabel(p), text)
	} else {
		fmt.Fprintf(t.stdout, "%s doesn't match '%s'\n", patternLabel(p), text)
	}
	return nil
}

func findCmd(t *Term, args string) error {
	expr, text, err := splitPatternArgs(args)
	if err != nil {
		return err
	}
	p, err := t.registry.Resolve(expr)
	if err != nil {
		return err
	}
	m, ok := p.Find(text)
	if !ok {
		fmt.Fprintln(t.stdout, "No match found")
		return nil
	}
	fmt.Fprintf(t.stdout, "Full match: '%s' at %d\n", t.truncate(t.highlight(m.Text)), m.Pos)
	names := p.GroupNames()
	for i, g := range m.Groups {
		label := fmt.Sprintf("Group %d", i+1)
		if names[i] != "" {
			label = names[i]
			if t.conf.ShowGroupIndexes {
				label = fmt.Sprintf("%s (%d)", names[i], i+1)
			}
		}
		fmt.Fprintf(t.stdout, "%s: '%s'\n", label, t.truncate(g))
	}
	return nil
}

func capturesCmd(t *Term, args string) error {
	expr, text, err := splitPatternArgs(args)
	if err != nil {
		return err
	}
	p, err := t.registry.Resolve(expr)
	if err != nil {
		return err
	}
	m, ok := p.Find(text)
	if !ok {
		fmt.Fprintln(t.stdout, "No match found")
		return nil
	}
	if len(m.Named) == 0 {
		fmt.Fprintf(t.stdout, "%s has no named capture groups\n", patternLabel(p))
		return nil
	}
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 1, ' ', 0)
	for _, name := range p.GroupNames() {
		if name == "" {
			continue
		}
		fmt.Fprintf(w, "%s\t'%s'\n", name, t.truncate(m.Named[name]))
	}
	return w.Flush()
}

func patternsCmd(t *Term, args string) error {
	t.stdout.pw.PageMaybe(nil)
	var names []string
	if args == "" {
		names = t.registry.Names()
	} else {
		names = t.registry.PrefixSearch(args)
	}
	if len(names) == 0 {
		fmt.Fprintln(t.stdout, "No patterns found")
		return nil
	}
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 1, ' ', 0)
	for _, name := range names {
		p, ok := t.registry.Find(name)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", name, t.truncate(p.Expr))
	}
	return w.Flush()
}

func sourceCmd(t *Term, args string) error {
	if args == "" {
		return fmt.Errorf("wrong number of arguments: source <filename> [<args>...]")
	}
	v, err := argv.Argv(args,
		func(s string) (string, error) {
			return "", fmt.Errorf("backtick not supported in '%s'", s)
		},
		nil)
	if err != nil {
		return err
	}
	if len(v) != 1 || len(v[0]) == 0 {
		return fmt.Errorf("illegal commandline '%s'", args)
	}
	w := v[0]
	if filepath.Ext(w[0]) == ".star" {
		return t.starlarkRun(w[0], w[1:])
	}
	if len(w) > 1 {
		return fmt.Errorf("too many arguments to \"source\"")
	}
	return t.cmds.executeFile(t, w[0])
}

func transcript(t *Term, args string) error {
	var fileOnly, truncate, off bool
	path := ""
	for _, arg := range config.SplitQuotedFields(args, '"') {
		switch arg {
		case "-x":
			fileOnly = true
		case "-t":
			truncate = true
		case "-off":
			off = true
		default:
			if path != "" {
				return fmt.Errorf("unrecognized option %q", arg)
			}
			path = arg
		}
	}

	if off {
		if path != "" || fileOnly || truncate {
			return errors.New("-off can not be combined with other options")
		}
		return t.stdout.CloseTranscript()
	}

	if path == "" {
		return errors.New("no output file specified")
	}

	flags := os.O_APPEND | os.O_WRONLY | os.O_CREATE
	if truncate {
		flags = os.O_TRUNC | os.O_WRONLY | os.O_CREATE
	}
	fh, err := os.OpenFile(path, flags, 0660)
	if err != nil {
		return err
	}
	if err := t.stdout.CloseTranscript(); err != nil {
		return err
	}
	t.stdout.TranscribeTo(fh, fileOnly)
	return nil
}

func (c *Commands) help(t *Term, args string) error {
	if args != "" {
		for _, cmd := range c.cmds {
			for _, alias := range cmd.aliases {
				if alias == args {
					fmt.Fprintln(t.stdout, cmd.helpMsg)
					return nil
				}
			}
		}
		return noCmdError
	}

	fmt.Fprintln(t.stdout, "The following commands are available:")

	for _, cgd := range commandGroupDescriptions {
		fmt.Fprintf(t.stdout, "\n%s:\n", cgd.description)
		w := new(tabwriter.Writer)
		w.Init(t.stdout, 0, 8, 0, '-', 0)
		for _, cmd := range c.cmds {
			if cmd.group != cgd.group {
				continue
			}
			h := cmd.helpMsg
			if idx := strings.Index(h, "\n"); idx >= 0 {
				h = h[:idx]
			}
			if len(cmd.aliases) > 1 {
				fmt.Fprintf(w, "    %s (alias: %s) \t %s\n", cmd.aliases[0], strings.Join(cmd.aliases[1:], " | "), h)
			} else {
				fmt.Fprintf(w, "    %s \t %s\n", cmd.aliases[0], h)
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(t.stdout)
	fmt.Fprintln(t.stdout, "Type help followed by a command for full documentation.")
	return nil
}

func (c *Commands) executeFile(t *Term, name string) error {
	fh, err := os.Open(name)
	if err != nil {
		return err
	}
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	lineno := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lineno++

		if line == "" || line[0] == '#' {
			continue
		}

		if err := c.Call(line, t); err != nil {
			if _, isExitRequest := err.(ExitRequestError); isExitRequest {
				return err
			}
			fmt.Fprintf(t.stdout, "%s:%d: %v\n", name, lineno, err)
		}
	}

	return scanner.Err()
}
