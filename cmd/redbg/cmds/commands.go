// Package cmds implements the command line interface of redbg.
package cmds

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/redbg/redbg/pkg/config"
	"github.com/redbg/redbg/pkg/diag"
	"github.com/redbg/redbg/pkg/logflags"
	"github.com/redbg/redbg/pkg/pattern"
	"github.com/redbg/redbg/pkg/terminal"
	"github.com/redbg/redbg/pkg/version"
)

var (
	// log is whether to log debug statements.
	log bool
	// logOutput is a comma separated list of components that should produce debug output.
	logOutput string
	// logDest is the file path or file descriptor where logs should go.
	logDest string
	// initFile is the path to the initialization file executed by the terminal.
	initFile string
	// versionVerbose also prints the build information with the version.
	versionVerbose bool

	// rootCommand is the root of the command tree.
	rootCommand *cobra.Command

	conf *config.Config
)

const redbgCommandLongDesc = `redbg is a diagnostic tool for the regular expressions used by the script
dialect front end.

It ships the recognizer patterns the front end relies on, a self check that
exercises them against known good snippets, and an interactive terminal to
evaluate patterns against arbitrary texts.`

// New returns an initialized command tree.
func New() *cobra.Command {
	// Config setup and load.
	conf = config.LoadConfig()

	// Main redbg root command.
	rootCommand = &cobra.Command{
		Use:   "redbg",
		Short: "redbg is a diagnostic tool for recognizer patterns.",
		Long:  redbgCommandLongDesc,
	}
	registerLoggingFlags(rootCommand.PersistentFlags())
	rootCommand.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return logflags.Setup(log, logOutput, logDest)
	}
	rootCommand.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		logflags.Close()
	}

	// 'check' subcommand.
	checkCommand := &cobra.Command{
		Use:   "check",
		Short: "Runs the built-in pattern self check.",
		Long: `Exercises the built-in recognizer patterns against their canonical snippets
and prints the captured pieces.

A pattern that does not match is a reported outcome, not an error: the self
check always terminates with a success status.`,
		Args: cobra.NoArgs,
		Run:  checkCmd,
	}
	rootCommand.AddCommand(checkCommand)

	// 'match' subcommand.
	matchCommand := &cobra.Command{
		Use:   "match <pattern> <text>",
		Short: "Tests a pattern against a text, anchored at position zero.",
		Long: `Tests a pattern against a text, anchored at position zero.

The pattern can be the name of a registered pattern (built-in or defined in
the configuration file) or an inline expression. The match must begin at the
first character of the text but does not have to extend to its end.

The exit status is 0 if the pattern matched and 1 otherwise.`,
		Args: cobra.ExactArgs(2),
		Run:  matchCmd,
	}
	rootCommand.AddCommand(matchCommand)

	// 'repl' subcommand.
	replCommand := &cobra.Command{
		Use:   "repl",
		Short: "Starts the interactive terminal.",
		Long:  `Starts the interactive terminal. Type 'help' at the prompt for the list of commands.`,
		Args:  cobra.NoArgs,
		Run:   replCmd,
	}
	replCommand.Flags().StringVar(&initFile, "init", "", "Init file, executed by the terminal client.")
	rootCommand.AddCommand(replCommand)

	// 'version' subcommand.
	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Prints version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "redbg\n%s\n", version.RedbgVersion)
			if versionVerbose {
				fmt.Fprintln(cmd.OutOrStdout(), version.BuildInfo())
			}
		},
	}
	versionCommand.Flags().BoolVarP(&versionVerbose, "verbose", "v", false, "print verbose version info")
	rootCommand.AddCommand(versionCommand)

	return rootCommand
}

func registerLoggingFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&log, "log", "", false, "Enable debug logging.")
	flags.StringVarP(&logOutput, "log-output", "", "", "Comma separated list of components that should produce debug output (pattern, match, terminal, script).")
	flags.StringVarP(&logDest, "log-dest", "", "", "Writes logs to the specified file or file descriptor.")
}

func checkCmd(cmd *cobra.Command, args []string) {
	diag.New(cmd.OutOrStdout()).Run()
}

func matchCmd(cmd *cobra.Command, args []string) {
	registry := pattern.NewRegistry()
	for name, expr := range conf.Patterns {
		if _, err := registry.Add(name, expr); err != nil {
			fmt.Fprintf(os.Stderr, "skipping configured pattern: %v\n", err)
		}
	}
	p, err := registry.Resolve(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	label := p.Name
	if label == "" {
		label = fmt.Sprintf("'%s'", p.Expr)
	}
	if !p.MatchPrefix(args[1]) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s doesn't match '%s'\n", label, args[1])
		logflags.Close()
		os.Exit(1)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s matches '%s'\n", label, args[1])
}

func replCmd(cmd *cobra.Command, args []string) {
	t := terminal.New(conf)
	t.InitFile = initFile
	status, err := t.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	logflags.Close()
	os.Exit(status)
}
