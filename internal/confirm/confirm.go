// Package confirm gates destructive operations behind tiered interactive
// confirmation.
package confirm

import (
	"bufio"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
)

// DefaultWord is the literal an operator must type to confirm a drop.
const DefaultWord = "DROP"

// Tier is the gating level for one destructive call.
type Tier int

const (
	Silent Tier = iota
	WarnOnly
	RequireTypedConfirmation
)

func (t Tier) String() string {
	switch t {
	case Silent:
		return "silent"
	case WarnOnly:
		return "warn"
	case RequireTypedConfirmation:
		return "typed"
	default:
		return "unknown"
	}
}

// Policy selects a tier from the call's sequence index. It carries no
// state between calls.
type Policy func(index int) Tier

// Batch requires typed confirmation for the first call of a run and only
// warns for the rest.
func Batch(index int) Tier {
	if index == 0 {
		return RequireTypedConfirmation
	}
	return WarnOnly
}

// Fixed returns a policy that always selects t.
func Fixed(t Tier) Policy {
	return func(int) Tier { return t }
}

// Prompter prints warnings and reads typed confirmations.
type Prompter struct {
	in   *bufio.Reader
	out  io.Writer
	word string
}

// NewPrompter reads answers from in and writes prompts to out. An empty
// word falls back to DefaultWord.
func NewPrompter(in io.Reader, out io.Writer, word string) *Prompter {
	if word == "" {
		word = DefaultWord
	}
	return &Prompter{in: bufio.NewReader(in), out: out, word: word}
}

// Gate applies tier to a pending action described by verb and target.
// A typed answer that does not match the confirmation word is an
// assertion failure.
func (p *Prompter) Gate(tier Tier, verb, target string) error {
	switch tier {
	case Silent:
		return nil
	case WarnOnly:
		pterm.Fprintln(p.out, "You will "+pterm.Red(verb)+" TABLE ["+pterm.Red(target)+"]!!!")
		return nil
	case RequireTypedConfirmation:
		pterm.Fprint(p.out, "You will "+pterm.Red(verb)+" TABLE ["+pterm.Red(target)+"]?, input "+pterm.Red(p.word)+" to confirm: ")
		answer, err := p.readLine()
		if err != nil {
			return errors.NewAssertionErrorWithWrappedErrf(err, "reading confirmation for %s %s", verb, target)
		}
		if answer != p.word {
			return errors.AssertionFailedf("confirmation for %s %s not given: got %q, want %q", verb, target, answer, p.word)
		}
		return nil
	default:
		return errors.AssertionFailedf("unknown confirmation tier %d", int(tier))
	}
}

// readLine reads one line and trims a single trailing line terminator. A
// final line without a terminator is accepted; EOF with nothing read is
// an error.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
