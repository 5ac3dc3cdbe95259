package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bfv/tablemigrate/internal/lifecycle"
	"github.com/bfv/tablemigrate/internal/report"
	"github.com/bfv/tablemigrate/internal/tableset"
)

type reporterFunc func(s *session, db lifecycle.SQL) tableset.Reporter[*report.Writer]

// newReportCmd builds a command that writes one line per table to
// <basedir>/<database>-<kind><postfix>.txt.
func (a *App) newReportCmd(v *viper.Viper, kind, short string, step reporterFunc) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " [config-path] [postfix]",
		Short: short,
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(v, args)
			if err != nil {
				return err
			}
			db, err := s.sql(readOnly)
			if err != nil {
				return err
			}

			path := s.cfg.ReportPath(kind, s.postfix.Value)
			fmt.Fprintf(a.Stderr, "----- %s file is at: %s -----\n", kind, path)
			f, err := report.Create(path)
			if err != nil {
				return err
			}

			sum, runErr := tableset.RunInto(s.cfg.Rule(), f.Writer, step(s, db))
			closeErr := f.Close()
			if runErr == nil && closeErr != nil {
				return closeErr
			}
			return s.finish(kind, sum, runErr)
		},
	}
}

func (a *App) newCountCmd(v *viper.Viper) *cobra.Command {
	return a.newReportCmd(v, "count", "Report the row count of every <table><postfix>",
		func(s *session, db lifecycle.SQL) tableset.Reporter[*report.Writer] {
			return lifecycle.CountStep{DB: db, Postfix: s.postfix, Out: a.Stdout}
		})
}

func (a *App) newEmptyCmd(v *viper.Viper) *cobra.Command {
	return a.newReportCmd(v, "empty", "Report 1 for every empty <table><postfix>, 0 otherwise",
		func(s *session, db lifecycle.SQL) tableset.Reporter[*report.Writer] {
			return lifecycle.EmptyStep{DB: db, Postfix: s.postfix, Out: a.Stdout}
		})
}
