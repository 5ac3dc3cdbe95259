package sqlclient

import (
	"os"
	"os/exec"
)

// Zipper builds archives with the external zip tool.
type Zipper struct {
	zip []string
}

// NewZipper splits the configured zip command line.
func NewZipper(tools Tools) (*Zipper, error) {
	argv, err := splitTool("zip", tools.Zip)
	if err != nil {
		return nil, err
	}
	return &Zipper{zip: argv}, nil
}

// Zip adds files to the archive at dst, creating it if needed.
func (z *Zipper) Zip(dst string, files []string) error {
	args := append(append(append([]string{}, z.zip[1:]...), dst), files...)
	cmd := exec.Command(z.zip[0], args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return run(cmd)
}
