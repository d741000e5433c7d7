// Package log provides the leveled logging interface shared by the update
// engine and the command line tooling.
package log

// Modular is a log printer that allows you to branch child loggers carrying
// extra fields.
type Modular interface {
	WithFields(fields map[string]string) Modular
	With(keyValues ...any) Modular

	Errorf(format string, v ...any)
	Warnf(format string, v ...any)
	Infof(format string, v ...any)
	Debugf(format string, v ...any)
	Tracef(format string, v ...any)
}

// Noop returns a logger implementation that discards all print calls.
func Noop() Modular {
	return noop{}
}

type noop struct{}

func (n noop) WithFields(map[string]string) Modular { return n }
func (n noop) With(...any) Modular                  { return n }

func (n noop) Errorf(string, ...any) {}
func (n noop) Warnf(string, ...any)  {}
func (n noop) Infof(string, ...any)  {}
func (n noop) Debugf(string, ...any) {}
func (n noop) Tracef(string, ...any) {}
