package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bfv/tablemigrate/internal/config"
	"github.com/bfv/tablemigrate/internal/lifecycle"
	"github.com/bfv/tablemigrate/internal/sqlclient"
)

// Exit codes.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitUnknownCommand = 2
)

// exitError carries a specific exit code out of a cobra RunE. err may be
// nil when the message has already been printed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// App wires the commands to their collaborators. The zero value is not
// usable; use NewApp.
type App struct {
	Version string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Executable locates the running binary; the default configuration
	// file lives next to it.
	Executable func() (string, error)

	NewSQL      func(env sqlclient.Env, tools sqlclient.Tools) (lifecycle.SQL, error)
	NewArchiver func(tools sqlclient.Tools) (lifecycle.Archiver, error)
}

// NewApp returns an App bound to the process's standard streams and the
// real external tools.
func NewApp() *App {
	return &App{
		Version:    "dev",
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Executable: os.Executable,
		NewSQL: func(env sqlclient.Env, tools sqlclient.Tools) (lifecycle.SQL, error) {
			c, err := sqlclient.New(env, tools)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		NewArchiver: func(tools sqlclient.Tools) (lifecycle.Archiver, error) {
			z, err := sqlclient.NewZipper(tools)
			if err != nil {
				return nil, err
			}
			return z, nil
		},
	}
}

// Execute runs the command line and returns the process exit code.
func (a *App) Execute(args []string) int {
	v := config.New()
	root := a.newRootCmd(v)
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	root.SetArgs(args)
	root.SetIn(a.Stdin)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	err := root.Execute()
	if err == nil {
		return ExitOK
	}

	code := ExitFailure
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
		err = ee.err
	}
	if err != nil {
		if errors.HasAssertionFailure(err) {
			log.Error().Err(err).Msg("run aborted")
		}
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(a.Stderr, "Hint: %s\n", hint)
		}
	}
	return code
}

func (a *App) newRootCmd(v *viper.Viper) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "migrate <command> [config-path] [postfix]",
		Short:         "Apply table lifecycle operations across a time-partitioned table catalogue",
		Version:       a.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			InitLogging(verbose, a.Stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.SetOut(a.Stderr)
				_ = cmd.Usage()
				return &exitError{code: ExitFailure}
			}
			return &exitError{code: ExitUnknownCommand, err: errors.Newf("unknown command: %s", args[0])}
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	root.PersistentFlags().String("join", "", "Postfix join policy: none or underscore (overrides postfix_join)")
	// Bind the cobra flag into viper so it can be read uniformly.
	_ = v.BindPFlag("postfix_join", root.PersistentFlags().Lookup("join"))

	root.AddCommand(
		a.newDumpOutCmd(v),
		a.newDumpInCmd(v),
		a.newCopyCmd(v),
		a.newZipCmd(v),
		a.newNameAddCmd(v),
		a.newNameDelCmd(v),
		a.newTakeCmd(v),
		a.newCountCmd(v),
		a.newEmptyCmd(v),
		a.newDropCmd(v),
		a.newDropEmptyCmd(v),
		a.newBatchDropCmd(v),
		a.newTablesCmd(v),
	)
	return root
}
