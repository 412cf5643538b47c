package infra

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger sets the global zerolog level and routes the global logger to a
// console writer on stderr.
func InitLogger(level string) error {
	return InitLoggerWithWriter(level, os.Stderr)
}

// InitLoggerWithWriter is InitLogger with an explicit destination.
func InitLoggerWithWriter(level string, out io.Writer) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: "02-01-2006 15:04:05 -0700"})
	log.Debug().Str("level", lvl.String()).Msg("logger initialized")
	return nil
}

// ParseLogLevel maps the configured level name onto a zerolog level.
func ParseLogLevel(level string) (zerolog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "", "INFO":
		return zerolog.InfoLevel, nil
	case "WARN":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "FATAL":
		return zerolog.FatalLevel, nil
	case "PANIC":
		return zerolog.PanicLevel, nil
	case "DISABLED":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("incorrect log level %q", level)
	}
}
