// Package lifecycle implements the table operations (dump, load, copy,
// rename, clone, count, probe, drop, archive) on top of an external SQL
// client, and the handler adapters that apply them across a table set.
package lifecycle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/bfv/tablemigrate/internal/confirm"
	"github.com/bfv/tablemigrate/internal/tableset"
)

// SQL is the external database client.
type SQL interface {
	Exec(sql string) error
	Query(sql string) (string, error)
	Dump(table, path string) error
	Load(path string) error
}

// Archiver packs files into an archive.
type Archiver interface {
	Zip(dst string, files []string) error
}

// Pair is one rename from From to To.
type Pair struct {
	From, To string
}

// DumpOut writes table to <dir>/<table>.sql, creating dir if needed.
func DumpOut(db SQL, table, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating dump directory %s", dir)
	}
	log.Info().Str("table", table).Str("dir", dir).Msg("dump out")
	return db.Dump(table, filepath.Join(dir, table+".sql"))
}

// DumpIn loads a SQL file produced by DumpOut.
func DumpIn(db SQL, path string) error {
	log.Info().Str("file", path).Msg("dump in")
	return db.Load(path)
}

// Copy clones the structure of src into dst, then copies every row. The
// row copy is skipped when the clone fails; a failed row copy leaves the
// new table in place.
func Copy(db SQL, src, dst string) error {
	if err := db.Exec(fmt.Sprintf("CREATE TABLE %s LIKE %s", dst, src)); err != nil {
		return errors.Wrapf(err, "creating %s like %s", dst, src)
	}
	if err := db.Exec(fmt.Sprintf("INSERT INTO %s SELECT * FROM %s", dst, src)); err != nil {
		return errors.Wrapf(err, "copying rows %s -> %s", src, dst)
	}
	return nil
}

// CreateEmpty creates dst as an empty structural clone of src.
func CreateEmpty(db SQL, src, dst string) error {
	return db.Exec(fmt.Sprintf("CREATE TABLE %s LIKE %s", dst, src))
}

// Rename runs all renames in a single client call, one statement per pair.
func Rename(db SQL, pairs ...Pair) error {
	if len(pairs) == 0 {
		return nil
	}
	stmts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", p.From, p.To))
	}
	return db.Exec(strings.Join(stmts, "; "))
}

// AddPostfix renames table to table+postfix.
func AddPostfix(db SQL, table, postfix string, join tableset.JoinPolicy) error {
	return Rename(db, Pair{From: table, To: tableset.ApplyPostfix(table, postfix, join)})
}

// RemovePostfix renames table back to its name without postfix. The table
// must end with the postfix.
func RemovePostfix(db SQL, table, postfix string, join tableset.JoinPolicy) error {
	base, err := tableset.StripPostfix(table, postfix, join)
	if err != nil {
		return err
	}
	return Rename(db, Pair{From: table, To: base})
}

// Count returns the row count of table as the client printed it, trimmed.
// The value is returned even when the client fails.
func Count(db SQL, table string) (string, error) {
	out, err := db.Query(fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
	return strings.TrimSpace(out), err
}

// IsEmpty probes table for any row. The client must succeed and print a
// single character; anything else breaks the probe contract.
func IsEmpty(db SQL, table string) (bool, error) {
	out, err := db.Query(fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s) AS is_not_empty", table))
	if err != nil {
		return false, errors.NewAssertionErrorWithWrappedErrf(err, "probing %s", table)
	}
	v := strings.TrimRight(out, " \t\r\n")
	log.Debug().Str("table", table).Str("output", v).Msg("emptiness probe")
	if len(v) != 1 {
		return false, errors.AssertionFailedf("probing %s: expected one byte of output, got %q", table, v)
	}
	return v[0] == '0', nil
}

// Drop removes table after passing the confirmation gate for tier.
func Drop(db SQL, p *confirm.Prompter, tier confirm.Tier, table string) error {
	if err := p.Gate(tier, "DROP", table); err != nil {
		return err
	}
	log.Warn().Str("table", table).Str("tier", tier.String()).Msg("dropping table")
	return db.Exec(fmt.Sprintf("DROP TABLE %s;", table))
}

// Zip archives <basedir>/<year>/<name>*.sql into
// <basedir>/<year>/<name><year>.zip. Any failure is fatal.
func Zip(a Archiver, basedir, year, name string) error {
	dir := filepath.Join(basedir, year)
	dst := filepath.Join(dir, name+year+".zip")
	pattern := filepath.Join(dir, name+"*.sql")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return errors.NewAssertionErrorWithWrappedErrf(err, "matching %s", pattern)
	}
	if len(files) == 0 {
		return errors.AssertionFailedf("no dump files match %s", pattern)
	}
	log.Info().Str("archive", dst).Int("files", len(files)).Msg("zip")
	if err := a.Zip(dst, files); err != nil {
		return errors.NewAssertionErrorWithWrappedErrf(err, "archiving %s", dst)
	}
	return nil
}

// ZipAll builds one archive per name per year, years outermost. The first
// failure stops the loop.
func ZipAll(a Archiver, basedir string, rule tableset.Rule) (int, error) {
	n := 0
	for year, name := range rule.Partitions() {
		if err := Zip(a, basedir, year, name); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
