package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfv/tablemigrate/internal/tableset"
)

const panelTOML = `
url = "db.internal"
user_ro = "reader"
passwd_ro = "ro-pass"
user_rw = "writer"
passwd_rw = "rw-pass"
database = "panel"
names = ["orders", "users"]
years = "2022 2023"
months = "01 02  03"
basedir = "/var/dumps"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTOML(t *testing.T) {
	cfg, err := Load(New(), writeFile(t, "migrate.toml", panelTOML))
	require.NoError(t, err)

	assert.Equal(t, []string{"orders", "users"}, cfg.Names)
	assert.Equal(t, []string{"2022", "2023"}, cfg.Years)
	assert.Equal(t, []string{"01", "02", "03"}, cfg.Months)
	assert.Equal(t, "DROP", cfg.ConfirmWord)
	assert.Equal(t, "mysql", cfg.Tools.MySQL)

	ro := cfg.ReadOnly()
	assert.Equal(t, "reader", ro.User)
	assert.Equal(t, "ro-pass", ro.Password)
	rw := cfg.ReadWrite()
	assert.Equal(t, "writer", rw.User)
	assert.Equal(t, "panel", rw.Database)
	assert.Equal(t, "db.internal", rw.Host)

	assert.Equal(t, 2*2*3, cfg.Rule().Len())
	join, err := cfg.Join()
	require.NoError(t, err)
	assert.Equal(t, tableset.JoinNone, join)
}

func TestLoadAxesAsLists(t *testing.T) {
	cfg, err := Load(New(), writeFile(t, "m.toml", `
url = "h"
database = "d"
basedir = "/tmp/x"
names = "a b"
years = ["2021"]
months = ["", "06"]
postfix_join = "underscore"
[tools]
mysql = "mysql --protocol=tcp"
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cfg.Names)
	assert.Equal(t, []string{"2021"}, cfg.Years)
	assert.Equal(t, []string{"", "06"}, cfg.Months)
	assert.Equal(t, "mysql --protocol=tcp", cfg.Tools.MySQL)
	assert.Equal(t, "zip", cfg.Tools.Zip)

	join, err := cfg.Join()
	require.NoError(t, err)
	assert.Equal(t, tableset.JoinUnderscore, join)
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(New(), writeFile(t, "m.yaml", `
url: h
database: d
basedir: /tmp/x
names: [a]
years: "2020"
months: "12"
`))
	require.NoError(t, err)
	assert.Equal(t, "a202012", cfg.Rule().Tables()[0].ID)
}

func TestLoadExtensionlessIsTOML(t *testing.T) {
	_, err := Load(New(), writeFile(t, "migrate", panelTOML))
	assert.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)

	_, err = Load(New(), writeFile(t, "bad.toml", "url = ["))
	assert.Error(t, err)

	_, err = Load(New(), writeFile(t, "partial.toml", `url = "h"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "basedir, database")

	_, err = Load(New(), writeFile(t, "join.toml", `
url = "h"
database = "d"
basedir = "b"
postfix_join = "dash"
`))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MIGRATE_PASSWD_RW", "from-env")
	t.Setenv("MIGRATE_TOOLS_ZIP", "7z-zip")
	cfg, err := Load(New(), writeFile(t, "migrate.toml", panelTOML))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.PasswdRW)
	assert.Equal(t, "7z-zip", cfg.Tools.Zip)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/opt/bin", "migrate.toml"), DefaultPath("/opt/bin/migrate"))
	assert.Equal(t, filepath.Join("/opt/bin", "migrate.toml"), DefaultPath("/opt/bin/migrate.exe"))
}

func TestReportPath(t *testing.T) {
	cfg := &Config{BaseDir: "/var/dumps", Database: "panel"}
	assert.Equal(t, filepath.Join("/var/dumps", "panel-count_old.txt"), cfg.ReportPath("count", "_old"))
	assert.Equal(t, filepath.Join("/var/dumps", "panel-empty.txt"), cfg.ReportPath("empty", ""))
}
