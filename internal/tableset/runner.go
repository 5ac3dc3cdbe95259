package tableset

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// Handler is one operation applied to a generated table.
type Handler interface {
	Handle(t Table) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(t Table) error

func (f HandlerFunc) Handle(t Table) error { return f(t) }

// Reporter is a Handler variant that writes into an accumulator owned by
// the caller of RunInto. The runner hands the accumulator to one handler
// at a time, so it needs no locking.
type Reporter[A any] interface {
	Report(t Table, acc A) error
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc[A any] func(t Table, acc A) error

func (f ReporterFunc[A]) Report(t Table, acc A) error { return f(t, acc) }

// Failure records one handler call that returned a recoverable error.
type Failure struct {
	Table   Table
	Handler int
	Err     error
}

// Summary describes a finished (or aborted) run.
type Summary struct {
	Tables   int
	Calls    int
	Failures []Failure
}

// Failed reports whether any handler call failed.
func (s Summary) Failed() bool { return len(s.Failures) > 0 }

// IsFatal reports whether err must stop the run. Contract violations are
// raised as assertion failures; everything else is a recoverable status.
func IsFatal(err error) bool {
	return err != nil && errors.HasAssertionFailure(err)
}

// Run applies handlers, in list order, to every table of the rule before
// advancing to the next table. Recoverable errors are logged and collected
// in the summary. A fatal error stops the run at once and is returned
// together with the summary so far.
func Run(rule Rule, handlers ...Handler) (Summary, error) {
	return run(rule, len(handlers), func(t Table, i int) error {
		return handlers[i].Handle(t)
	})
}

// RunInto is Run for handlers that record into acc.
func RunInto[A any](rule Rule, acc A, handlers ...Reporter[A]) (Summary, error) {
	return run(rule, len(handlers), func(t Table, i int) error {
		return handlers[i].Report(t, acc)
	})
}

func run(rule Rule, n int, call func(t Table, i int) error) (Summary, error) {
	var sum Summary
	for t := range rule.All() {
		sum.Tables++
		for i := 0; i < n; i++ {
			sum.Calls++
			err := call(t, i)
			if err == nil {
				continue
			}
			if IsFatal(err) {
				log.Error().Err(err).Str("table", t.ID).Int("index", t.Index).Msg("run aborted")
				return sum, errors.Wrapf(err, "table %s", t.ID)
			}
			log.Warn().Err(err).Str("table", t.ID).Int("handler", i).Msg("operation failed")
			sum.Failures = append(sum.Failures, Failure{Table: t, Handler: i, Err: err})
		}
	}
	return sum, nil
}
