// Package sqlclient runs the external MySQL client, dump and archive tools
// as blocking subprocesses.
package sqlclient

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
)

// Env is one set of connection credentials.
type Env struct {
	Host     string
	User     string
	Password string
	Database string
}

// Tools holds the command lines used to start each external program. Each
// is split with shell quoting rules, so extra flags may be included.
type Tools struct {
	MySQL     string `yaml:"mysql"`
	MySQLDump string `yaml:"mysqldump"`
	Zip       string `yaml:"zip"`
}

// DefaultTools uses the programs found on PATH.
func DefaultTools() Tools {
	return Tools{MySQL: "mysql", MySQLDump: "mysqldump", Zip: "zip"}
}

// StatusError is a non-zero exit status from an external program.
type StatusError struct {
	Tool string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
}

// Client talks to one database through the mysql command line tools.
type Client struct {
	env    Env
	mysql  []string
	dump   []string
	stdout io.Writer
	stderr io.Writer
}

// New prepares a client. Tool command lines that fail to split are
// configuration errors.
func New(env Env, tools Tools) (*Client, error) {
	mysql, err := splitTool("mysql", tools.MySQL)
	if err != nil {
		return nil, err
	}
	dump, err := splitTool("mysqldump", tools.MySQLDump)
	if err != nil {
		return nil, err
	}
	return &Client{env: env, mysql: mysql, dump: dump, stdout: os.Stdout, stderr: os.Stderr}, nil
}

// Database is the schema the client is bound to.
func (c *Client) Database() string { return c.env.Database }

// Exec runs sql and waits for the client to exit. Client output goes
// straight to the terminal.
func (c *Client) Exec(sql string) error {
	log.Info().Str("sql", sql).Msg("exec")
	cmd := c.command(c.mysql, c.connArgs("-e", sql)...)
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	return run(cmd)
}

// Query runs sql in batch mode without column names and returns stdout as
// is. Stdout is returned even when the exit status is non-zero.
func (c *Client) Query(sql string) (string, error) {
	log.Info().Str("sql", sql).Msg("query")
	args := append([]string{"-N", "-B"}, c.connArgs("-e", sql)...)
	cmd := c.command(c.mysql, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = c.stderr
	err := run(cmd)
	return out.String(), err
}

// Dump writes a SQL dump of table to path.
func (c *Client) Dump(table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating dump file %s", path)
	}
	defer f.Close()

	log.Info().Str("database", c.env.Database).Str("table", table).Str("file", path).Msg("dump")
	cmd := c.command(c.dump, "-h"+c.env.Host, "-u"+c.env.User, c.env.Database, table)
	cmd.Stdout = f
	cmd.Stderr = c.stderr
	return run(cmd)
}

// Load feeds the SQL file at path into the database.
func (c *Client) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening sql file %s", path)
	}
	defer f.Close()

	log.Info().Str("database", c.env.Database).Str("file", path).Msg("load")
	cmd := c.command(c.mysql, c.connArgs()...)
	cmd.Stdin = f
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	return run(cmd)
}

func (c *Client) connArgs(extra ...string) []string {
	args := []string{"-h" + c.env.Host, "-u" + c.env.User, "-D" + c.env.Database}
	return append(args, extra...)
}

// command builds the process. The password travels in MYSQL_PWD so it
// never shows up in the process list.
func (c *Client) command(tool []string, args ...string) *exec.Cmd {
	argv := append(append([]string{}, tool[1:]...), args...)
	cmd := exec.Command(tool[0], argv...)
	cmd.Env = append(os.Environ(), "MYSQL_PWD="+c.env.Password)
	return cmd
}

// run waits for cmd and classifies the outcome: a non-zero exit becomes a
// StatusError, a process that could not be started at all is a fatal
// assertion.
func run(cmd *exec.Cmd) error {
	log.Debug().Str("cmd", shellquote.Join(cmd.Args...)).Msg("starting process")
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		log.Debug().Str("tool", cmd.Args[0]).Msg("process finished with: exit status 0")
		return nil
	case errors.As(err, &exitErr):
		serr := &StatusError{Tool: cmd.Args[0], Code: exitErr.ExitCode()}
		log.Debug().Str("tool", cmd.Args[0]).Int("status", serr.Code).Msg("process finished")
		return serr
	default:
		return errors.NewAssertionErrorWithWrappedErrf(err, "failed to execute %s", cmd.Args[0])
	}
}

func splitTool(name, line string) ([]string, error) {
	if line == "" {
		line = name
	}
	argv, err := shellquote.Split(line)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s command %q", name, line)
	}
	if len(argv) == 0 {
		return nil, errors.Newf("empty %s command", name)
	}
	return argv, nil
}
