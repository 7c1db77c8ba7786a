// Package stdlogger adapts the global zerolog logger to printf style logger interfaces,
// e.g. the one used by golang-migrate.
package stdlogger

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards printf style calls to zerolog.
type Logger struct {
	component string
}

// New returns a logger tagging every entry with component, if set.
func New(component ...string) *Logger {
	l := &Logger{}
	if len(component) > 0 {
		l.component = component[0]
	}

	return l
}

func (l *Logger) event(e *zerolog.Event) *zerolog.Event {
	if l.component != "" {
		e = e.Str("component", l.component)
	}

	return e
}

// Printf logs at info level. Trailing newlines are dropped.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.event(log.Info()).Msgf(strings.TrimRight(format, "\n"), v...)
}

// Verbose reports whether debug output is enabled.
func (l *Logger) Verbose() bool {
	return zerolog.GlobalLevel() <= zerolog.DebugLevel
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.event(log.Debug()).Msgf(format, v...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.event(log.Info()).Msgf(format, v...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, v ...interface{}) {
	l.event(log.Warn()).Msgf(format, v...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.event(log.Error()).Msgf(format, v...)
}
