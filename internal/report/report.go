// Package report accumulates "<table> <value>" lines for count and
// emptiness runs.
package report

import (
	"bufio"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// Writer buffers report lines in memory and writes them out on Flush. It
// is not safe for concurrent use; one run owns it.
type Writer struct {
	w     *bufio.Writer
	line  []byte
	lines int
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Record appends one line. The line buffer is reset on every call so
// nothing from the previous table can leak into this one.
func (r *Writer) Record(table, value string) error {
	r.line = r.line[:0]
	r.line = append(r.line, table...)
	r.line = append(r.line, ' ')
	r.line = append(r.line, value...)
	r.line = append(r.line, '\n')
	if _, err := r.w.Write(r.line); err != nil {
		return errors.Wrapf(err, "recording %s", table)
	}
	r.lines++
	return nil
}

// Lines is the number of records written so far.
func (r *Writer) Lines() int { return r.lines }

// Flush writes buffered lines to the underlying writer.
func (r *Writer) Flush() error {
	return errors.Wrap(r.w.Flush(), "flushing report")
}

// File is a Writer backed by a file on disk.
type File struct {
	*Writer
	Path string
	f    *os.File
}

// Create truncates or creates the report file at path.
func Create(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating report %s", path)
	}
	return &File{Writer: NewWriter(f), Path: path, f: f}, nil
}

// Close flushes and closes the file.
func (f *File) Close() error {
	ferr := f.Flush()
	cerr := f.f.Close()
	if ferr != nil {
		return ferr
	}
	return errors.Wrapf(cerr, "closing report %s", f.Path)
}
