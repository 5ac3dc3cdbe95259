// Package config loads the run configuration: connection credentials, the
// table catalogue axes and output locations.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/bfv/tablemigrate/internal/sqlclient"
	"github.com/bfv/tablemigrate/internal/tableset"
)

// EnvPrefix is prepended to environment variable overrides, e.g.
// MIGRATE_PASSWD_RW.
const EnvPrefix = "MIGRATE"

// Config is the resolved configuration for one run.
type Config struct {
	URL         string          `yaml:"url"`
	UserRO      string          `yaml:"user_ro"`
	PasswdRO    string          `yaml:"-"`
	UserRW      string          `yaml:"user_rw"`
	PasswdRW    string          `yaml:"-"`
	Database    string          `yaml:"database"`
	Names       []string        `yaml:"names"`
	Years       []string        `yaml:"years"`
	Months      []string        `yaml:"months"`
	BaseDir     string          `yaml:"basedir"`
	PostfixJoin string          `yaml:"postfix_join"`
	ConfirmWord string          `yaml:"confirm_word"`
	Tools       sqlclient.Tools `yaml:"tools"`
}

// DefaultPath is <dir of executable>/<executable name without extension>.toml.
func DefaultPath(executable string) string {
	base := filepath.Base(executable)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(executable), stem+".toml")
}

// New returns a viper instance with defaults and environment overrides
// set up. Callers may bind flags into it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("postfix_join", "none")
	v.SetDefault("confirm_word", "DROP")
	v.SetDefault("tools.mysql", "mysql")
	v.SetDefault("tools.mysqldump", "mysqldump")
	v.SetDefault("tools.zip", "zip")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the file at path into v and resolves it. The file type comes
// from the extension; files without one are read as TOML.
func Load(v *viper.Viper, path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "reading configuration %s", path),
			"pass the configuration path as the first argument after the command")
	}
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("toml")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "parsing configuration %s", path)
	}

	cfg := &Config{
		URL:         v.GetString("url"),
		UserRO:      v.GetString("user_ro"),
		PasswdRO:    v.GetString("passwd_ro"),
		UserRW:      v.GetString("user_rw"),
		PasswdRW:    v.GetString("passwd_rw"),
		Database:    v.GetString("database"),
		Names:       v.GetStringSlice("names"),
		Years:       v.GetStringSlice("years"),
		Months:      v.GetStringSlice("months"),
		BaseDir:     v.GetString("basedir"),
		PostfixJoin: v.GetString("postfix_join"),
		ConfirmWord: v.GetString("confirm_word"),
		Tools: sqlclient.Tools{
			MySQL:     v.GetString("tools.mysql"),
			MySQLDump: v.GetString("tools.mysqldump"),
			Zip:       v.GetString("tools.zip"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "configuration %s", path)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	for key, val := range map[string]string{"url": c.URL, "database": c.Database, "basedir": c.BaseDir} {
		if val == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return errors.Newf("missing required keys: %s", strings.Join(missing, ", "))
	}
	if _, err := c.Join(); err != nil {
		return err
	}
	return nil
}

// Join is the postfix join policy.
func (c *Config) Join() (tableset.JoinPolicy, error) {
	return tableset.ParseJoinPolicy(c.PostfixJoin)
}

// Rule is the table catalogue for this run.
func (c *Config) Rule() tableset.Rule {
	return tableset.NewRule(c.Names, c.Years, c.Months)
}

// ReadOnly is the connection used for dumps and reports.
func (c *Config) ReadOnly() sqlclient.Env {
	return sqlclient.Env{Host: c.URL, User: c.UserRO, Password: c.PasswdRO, Database: c.Database}
}

// ReadWrite is the connection used for anything that changes tables.
func (c *Config) ReadWrite() sqlclient.Env {
	return sqlclient.Env{Host: c.URL, User: c.UserRW, Password: c.PasswdRW, Database: c.Database}
}

// ReportPath is <basedir>/<database>-<kind><postfix>.txt.
func (c *Config) ReportPath(kind, postfix string) string {
	return filepath.Join(c.BaseDir, c.Database+"-"+kind+postfix+".txt")
}
