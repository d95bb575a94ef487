package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.StampMilli,
}).With().Timestamp().Logger()

// SetLevel adjusts the global log level. Unknown levels are ignored and
// reported at warn so a typo in the config does not silence the tool.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		logger.Warn().Msgf("unknown log level %q, keeping %s", level, logger.GetLevel())
		return
	}
	logger = logger.Level(lvl)
}

// SetRun tags every subsequent log line with the given run id, so the lines
// of one provisioning run can be told apart in a shared console or syslog.
func SetRun(id string) {
	logger = logger.With().Str("run", id).Logger()
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

func Debugf(format string, a ...any) {
	logger.Debug().Msgf(format, a...)
}

func Infof(format string, a ...any) {
	logger.Info().Msgf(format, a...)
}

func Warnf(format string, a ...any) {
	logger.Warn().Msgf(format, a...)
}

func Errorf(format string, a ...any) {
	logger.Error().Msgf(format, a...)
}

// Fatalf logs at fatal level and exits with status 1.
func Fatalf(format string, a ...any) {
	logger.Fatal().Msgf(format, a...)
}
