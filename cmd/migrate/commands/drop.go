package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bfv/tablemigrate/internal/confirm"
	"github.com/bfv/tablemigrate/internal/lifecycle"
)

// newDropCmd drops one named table. Unlike the batch commands the second
// argument is the full table name, not a postfix.
func (a *App) newDropCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <config-path> <table>",
		Short: "Drop a single table after typed confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(v, args[:1])
			if err != nil {
				return err
			}
			db, err := s.sql(readWrite)
			if err != nil {
				return err
			}
			return lifecycle.Drop(db, s.prompter(), confirm.RequireTypedConfirmation, args[1])
		},
	}
}
