package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/bfv/tablemigrate/internal/config"
	"github.com/bfv/tablemigrate/internal/confirm"
	"github.com/bfv/tablemigrate/internal/lifecycle"
	"github.com/bfv/tablemigrate/internal/tableset"
)

// access selects which credential pair a command connects with.
type access int

const (
	readOnly access = iota
	readWrite
)

// session is the state shared by one command invocation: the resolved
// configuration plus the positional postfix.
type session struct {
	app     *App
	cfg     *config.Config
	cfgPath string
	postfix lifecycle.Postfix
}

// open resolves `[config-path] [postfix]` and loads the configuration.
func (a *App) open(v *viper.Viper, args []string) (*session, error) {
	var path, postfix string
	if len(args) > 0 {
		path = args[0]
	}
	if len(args) > 1 {
		postfix = args[1]
	}
	if path == "" {
		exe, err := a.Executable()
		if err != nil {
			return nil, errors.Wrap(err, "locating executable for default configuration")
		}
		path = config.DefaultPath(exe)
	}

	log.Debug().Str("config", path).Msg("loading configuration")
	cfg, err := config.Load(v, path)
	if err != nil {
		return nil, err
	}
	join, err := cfg.Join()
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("database", cfg.Database).
		Strs("names", cfg.Names).
		Strs("years", cfg.Years).
		Strs("months", cfg.Months).
		Str("postfix", postfix).
		Str("join", join.String()).
		Msg("configuration loaded")

	return &session{
		app:     a,
		cfg:     cfg,
		cfgPath: path,
		postfix: lifecycle.Postfix{Value: postfix, Join: join},
	}, nil
}

// sql opens the external client with the requested credentials.
func (s *session) sql(acc access) (lifecycle.SQL, error) {
	env := s.cfg.ReadOnly()
	if acc == readWrite {
		env = s.cfg.ReadWrite()
	}
	db, err := s.app.NewSQL(env, s.cfg.Tools)
	if err != nil {
		return nil, errors.Wrap(err, "preparing sql client")
	}
	return db, nil
}

func (s *session) prompter() *confirm.Prompter {
	return confirm.NewPrompter(s.app.Stdin, s.app.Stdout, s.cfg.ConfirmWord)
}

// finish logs the run summary and turns it into the command's result: a
// fatal error is returned as is, recoverable failures become exit 1.
func (s *session) finish(command string, sum tableset.Summary, err error) error {
	log.Info().
		Str("command", command).
		Int("tables", sum.Tables).
		Int("calls", sum.Calls).
		Int("failed", len(sum.Failures)).
		Msg("run finished")
	if err != nil {
		return err
	}
	if sum.Failed() {
		for _, f := range sum.Failures {
			fmt.Fprintf(s.app.Stderr, "failed: %s: %v\n", f.Table.ID, f.Err)
		}
		return &exitError{
			code: ExitFailure,
			err:  errors.Newf("%s: %d of %d operations failed", command, len(sum.Failures), sum.Calls),
		}
	}
	return nil
}
