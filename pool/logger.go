package pool

import (
	"os"

	"github.com/rs/zerolog"
)

// log is the package-level structured logger. Level gating matches the
// teacher's LogLevelNone/Fatal/Error/Info/Debug ladder, expressed through
// zerolog's own level instead of a hand-rolled one.
var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}).
	With().Timestamp().Logger().
	Level(zerolog.InfoLevel)

// SetLevel adjusts the package logger's verbosity. Pass zerolog.Disabled to
// silence the allocator entirely.
func SetLevel(lvl zerolog.Level) {
	log = log.Level(lvl)
}

// Debug logs a structured debug event scoped to pool allocation internals.
func Debug() *zerolog.Event { return log.Debug() }

// Info logs a structured informational event.
func Info() *zerolog.Event { return log.Info() }

// Error logs a structured error event.
func Error() *zerolog.Event { return log.Error() }

// Fatal logs a structured fatal event and terminates the process, matching
// the teacher's Fatal semantics.
func Fatal() *zerolog.Event { return log.Fatal() }
