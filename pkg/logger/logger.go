// Package logger builds the zerolog loggers used across doccore.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0o664

// Build configures a logger destination before construction.
type Build struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

// New returns a logger builder at the default warn level.
func New() *Build {
	return &Build{level: zerolog.WarnLevel}
}

// FromPath directs output to the log file at path (appending).
func (b *Build) FromPath(path string) *Build {
	b.path = path
	return b
}

// FromWriter directs output to an arbitrary writer.
func (b *Build) FromWriter(w io.Writer) *Build {
	b.writer = w
	return b
}

// WithLevel sets the minimum emitted level.
func (b *Build) WithLevel(level zerolog.Level) *Build {
	b.level = level
	return b
}

// Make constructs the logger. With no destination configured it writes to
// stderr.
func (b *Build) Make() (zerolog.Logger, error) {
	w := b.writer
	if b.path != "" {
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return zerolog.Nop(), err
		}
		w = zerolog.SyncWriter(f)
	}
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(w).Level(b.level).With().Timestamp().Logger(), nil
}

// Nop returns a disabled logger, the default for library consumers.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
