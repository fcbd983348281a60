package peek

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Sink receives rendered blocks at error level. *log.Logger from
// github.com/charmbracelet/log satisfies it.
type Sink interface {
	Error(msg any, keyvals ...any)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(msg any, keyvals ...any)

// Error calls f.
func (f SinkFunc) Error(msg any, keyvals ...any) { f(msg, keyvals...) }

// NewLogger returns the development logger used when no sink is given.
func NewLogger(w io.Writer, cfg Config) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          cfg.LogPrefix,
		ReportTimestamp: true,
	})
}

// SlogSink sends blocks to l at error level.
func SlogSink(l *slog.Logger) Sink {
	return slogSink{l: l}
}

type slogSink struct {
	l *slog.Logger
}

func (s slogSink) Error(msg any, keyvals ...any) {
	s.l.Error(fmt.Sprint(msg), keyvals...)
}
