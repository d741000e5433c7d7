package log

import (
	"fmt"

	"log/slog"
)

type slogAdapter struct {
	slog *slog.Logger
}

// NewSlogAdapter wraps a standard structured logger in the Modular interface.
func NewSlogAdapter(l *slog.Logger) Modular {
	return &slogAdapter{slog: l}
}

func (l *slogAdapter) WithFields(fields map[string]string) Modular {
	tmp := l.slog
	for k, v := range fields {
		tmp = tmp.With(slog.String(k, v))
	}
	return &slogAdapter{slog: tmp}
}

func (l *slogAdapter) With(keyValues ...any) Modular {
	return &slogAdapter{slog: l.slog.With(keyValues...)}
}

func (l *slogAdapter) Errorf(format string, v ...any) {
	l.slog.Error(fmt.Sprintf(format, v...))
}

func (l *slogAdapter) Warnf(format string, v ...any) {
	l.slog.Warn(fmt.Sprintf(format, v...))
}

func (l *slogAdapter) Infof(format string, v ...any) {
	l.slog.Info(fmt.Sprintf(format, v...))
}

func (l *slogAdapter) Debugf(format string, v ...any) {
	l.slog.Debug(fmt.Sprintf(format, v...))
}

func (l *slogAdapter) Tracef(format string, v ...any) {
	l.slog.Debug(fmt.Sprintf(format, v...))
}
