package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bfv/tablemigrate/internal/lifecycle"
)

// newZipCmd archives the dumps of each name per year. It ignores the
// postfix and the months axis.
func (a *App) newZipCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "zip [config-path]",
		Short: "Archive <basedir>/<year>/<name>*.sql into <basedir>/<year>/<name><year>.zip",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(v, args)
			if err != nil {
				return err
			}
			zipper, err := a.NewArchiver(s.cfg.Tools)
			if err != nil {
				return errors.Wrap(err, "preparing archiver")
			}
			n, err := lifecycle.ZipAll(zipper, s.cfg.BaseDir, s.cfg.Rule())
			log.Info().Str("command", "zip").Int("archives", n).Msg("run finished")
			return err
		},
	}
}
