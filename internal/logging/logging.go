// Package logging sets up the process-wide zerolog logger for the CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/cam-per/pngcore/internal/oops"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.ErrorStackMarshaler = oops.ZerologStackMarshaler
}

// Setup points the global logger at w with a console writer and sets the
// global level. An unknown level falls back to info and is reported.
func Setup(w io.Writer, level string, color bool) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	log.Logger = zerolog.New(NewConsoleWriter(w, color)).With().Timestamp().Logger()
	if err != nil {
		return oops.New(err, "bad log level %q", level)
	}
	return nil
}

func NewConsoleWriter(w io.Writer, color bool) zerolog.ConsoleWriter {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: time.TimeOnly,
	}
}

func GlobalLogger() *zerolog.Logger {
	return &log.Logger
}

func Debug() *zerolog.Event {
	return log.Debug().Stack()
}

func Info() *zerolog.Event {
	return log.Info().Stack()
}

func Warn() *zerolog.Event {
	return log.Warn().Stack()
}

func Error() *zerolog.Event {
	return log.Error().Stack()
}

// LogPanics recovers a panic and logs it with the stack it unwound from. Use
// it deferred.
func LogPanics(logger *zerolog.Logger) {
	if r := recover(); r != nil {
		if logger == nil {
			logger = GlobalLogger()
		}
		if err, ok := r.(error); ok {
			logger.Error().Err(err).Interface(zerolog.ErrorStackFieldName, oops.Trace()).Msg("recovered from panic")
		} else {
			logger.Error().Interface("recovered", r).Interface(zerolog.ErrorStackFieldName, oops.Trace()).Msg("recovered from panic")
		}
	}
}
