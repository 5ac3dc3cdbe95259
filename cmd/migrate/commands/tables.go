package commands

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// plan is the YAML document printed by the tables command.
type plan struct {
	Config   string      `yaml:"config"`
	Database string      `yaml:"database"`
	Postfix  string      `yaml:"postfix,omitempty"`
	Join     string      `yaml:"join"`
	Count    int         `yaml:"count"`
	Tables   []planEntry `yaml:"tables"`
}

type planEntry struct {
	Index  int    `yaml:"index"`
	Year   string `yaml:"year"`
	Table  string `yaml:"table"`
	Target string `yaml:"target,omitempty"`
}

// newTablesCmd prints the tables a batch command would touch, in the order
// it would touch them, without connecting to the database.
func (a *App) newTablesCmd(v *viper.Viper) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "tables [config-path] [postfix]",
		Short: "List the generated tables as YAML",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(v, args)
			if err != nil {
				return err
			}

			rule := s.cfg.Rule()
			out := plan{
				Config:   s.cfgPath,
				Database: s.cfg.Database,
				Postfix:  s.postfix.Value,
				Join:     s.postfix.Join.String(),
				Count:    rule.Len(),
				Tables:   make([]planEntry, 0, rule.Len()),
			}
			for t := range rule.All() {
				e := planEntry{Index: t.Index, Year: t.Year, Table: t.ID}
				if s.postfix.Value != "" {
					e.Target = s.postfix.Of(t.ID)
				}
				out.Tables = append(out.Tables, e)
			}
			return a.writePlan(&out, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write output to file instead of stdout")
	return cmd
}

func (a *App) writePlan(p *plan, outputPath string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "marshalling yaml")
	}

	// Resolve output writer.
	var w io.Writer = a.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return errors.Wrapf(err, "creating output file %q", outputPath)
		}
		defer f.Close()
		w = f
		log.Debug().Str("path", outputPath).Msg("writing to file")
	}

	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "writing output")
	}
	log.Debug().Int("tables", p.Count).Msg("tables listed")
	return nil
}
