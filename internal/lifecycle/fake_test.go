package lifecycle

import (
	"strings"

	"github.com/bfv/tablemigrate/internal/sqlclient"
)

// fakeSQL records every call and answers from scripted tables. A call
// whose text contains a key of fail exits with that status.
type fakeSQL struct {
	calls   []string
	fail    map[string]int
	answers map[string]string
}

func newFakeSQL() *fakeSQL {
	return &fakeSQL{fail: map[string]int{}, answers: map[string]string{}}
}

func (f *fakeSQL) status(call string) error {
	for k, code := range f.fail {
		if strings.Contains(call, k) {
			return &sqlclient.StatusError{Tool: "mysql", Code: code}
		}
	}
	return nil
}

func (f *fakeSQL) Exec(sql string) error {
	f.calls = append(f.calls, sql)
	return f.status(sql)
}

func (f *fakeSQL) Query(sql string) (string, error) {
	f.calls = append(f.calls, sql)
	out := ""
	for k, v := range f.answers {
		if strings.Contains(sql, k) {
			out = v
		}
	}
	return out, f.status(sql)
}

func (f *fakeSQL) Dump(table, path string) error {
	call := "dump " + table + " > " + path
	f.calls = append(f.calls, call)
	return f.status(call)
}

func (f *fakeSQL) Load(path string) error {
	call := "load " + path
	f.calls = append(f.calls, call)
	return f.status(call)
}

type fakeArchiver struct {
	dst   []string
	files [][]string
	code  int
}

func (a *fakeArchiver) Zip(dst string, files []string) error {
	a.dst = append(a.dst, dst)
	a.files = append(a.files, files)
	if a.code != 0 {
		return &sqlclient.StatusError{Tool: "zip", Code: a.code}
	}
	return nil
}
