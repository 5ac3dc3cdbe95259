package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bfv/tablemigrate/internal/confirm"
	"github.com/bfv/tablemigrate/internal/lifecycle"
	"github.com/bfv/tablemigrate/internal/tableset"
)

// stepsFunc builds the ordered handler chain for one batch command.
type stepsFunc func(s *session, db lifecycle.SQL) []tableset.Handler

// newBatchCmd builds a command that runs a handler chain over every table
// of the catalogue.
func (a *App) newBatchCmd(v *viper.Viper, use, short string, acc access, steps stepsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [config-path] [postfix]",
		Short: short,
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(v, args)
			if err != nil {
				return err
			}
			db, err := s.sql(acc)
			if err != nil {
				return err
			}
			sum, err := tableset.Run(s.cfg.Rule(), steps(s, db)...)
			return s.finish(use, sum, err)
		},
	}
}

func (a *App) newDumpOutCmd(v *viper.Viper) *cobra.Command {
	return a.newBatchCmd(v, "dumpout", "Dump every table to <basedir>/<year>/<table>.sql", readOnly,
		func(s *session, db lifecycle.SQL) []tableset.Handler {
			return []tableset.Handler{
				lifecycle.DumpOutStep{DB: db, BaseDir: s.cfg.BaseDir, Postfix: s.postfix},
			}
		})
}

func (a *App) newDumpInCmd(v *viper.Viper) *cobra.Command {
	return a.newBatchCmd(v, "dumpin", "Load every table from <basedir>/<year>/<table>.sql", readWrite,
		func(s *session, db lifecycle.SQL) []tableset.Handler {
			return []tableset.Handler{
				lifecycle.DumpInStep{DB: db, BaseDir: s.cfg.BaseDir, Postfix: s.postfix},
			}
		})
}

func (a *App) newCopyCmd(v *viper.Viper) *cobra.Command {
	return a.newBatchCmd(v, "copy", "Copy every table, structure and rows, to <table><postfix>", readWrite,
		func(s *session, db lifecycle.SQL) []tableset.Handler {
			return []tableset.Handler{
				lifecycle.CopyStep{DB: db, Postfix: s.postfix},
			}
		})
}

func (a *App) newNameAddCmd(v *viper.Viper) *cobra.Command {
	return a.newBatchCmd(v, "nameadd", "Rename every table to <table><postfix>", readWrite,
		func(s *session, db lifecycle.SQL) []tableset.Handler {
			return []tableset.Handler{
				lifecycle.AddPostfixStep{DB: db, Postfix: s.postfix},
			}
		})
}

func (a *App) newNameDelCmd(v *viper.Viper) *cobra.Command {
	return a.newBatchCmd(v, "namendel", "Rename every <table><postfix> back to <table>", readWrite,
		func(s *session, db lifecycle.SQL) []tableset.Handler {
			return []tableset.Handler{
				lifecycle.RemovePostfixStep{DB: db, Postfix: s.postfix},
			}
		})
}

func (a *App) newTakeCmd(v *viper.Viper) *cobra.Command {
	return a.newBatchCmd(v, "take", "Move every table aside to <table><postfix> and leave an empty clone", readWrite,
		func(s *session, db lifecycle.SQL) []tableset.Handler {
			return []tableset.Handler{
				lifecycle.AddPostfixStep{DB: db, Postfix: s.postfix},
				lifecycle.CreateEmptyStep{DB: db, Postfix: s.postfix},
			}
		})
}

func (a *App) newDropEmptyCmd(v *viper.Viper) *cobra.Command {
	return a.newBatchCmd(v, "drop-empty", "Drop every <table><postfix> that holds no rows", readWrite,
		func(s *session, db lifecycle.SQL) []tableset.Handler {
			return []tableset.Handler{
				lifecycle.DropEmptyStep{DB: db, Prompter: s.prompter(), Postfix: s.postfix, Out: a.Stdout},
			}
		})
}

func (a *App) newBatchDropCmd(v *viper.Viper) *cobra.Command {
	return a.newBatchCmd(v, "batch-drop", "Drop every <table><postfix>; only the first drop asks for confirmation", readWrite,
		func(s *session, db lifecycle.SQL) []tableset.Handler {
			return []tableset.Handler{
				lifecycle.DropStep{
					DB:       db,
					Prompter: s.prompter(),
					Policy:   confirm.Batch,
					Postfix:  s.postfix,
					Out:      a.Stdout,
				},
			}
		})
}
