package commands

import (
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogging configures zerolog. Output goes to w (stderr in practice) so
// it does not mix with table output and prompts on stdout. Every line
// carries a run id so interleaved logs from separate runs can be told
// apart.
func InitLogging(verbose bool, w io.Writer) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).
		With().
		Timestamp().
		Str("run", uuid.NewString()[:8]).
		Logger()
}
