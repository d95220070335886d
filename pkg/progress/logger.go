package progress

import (
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Logger adapts a *logrus.Logger to the Level/LogFunc contract of this
// package. It is the structured logger the session construction path
// hands to every component in place of ad hoc fmt.Println diagnostics.
type Logger struct {
	entry *logrus.Entry
}

// NewLogger builds a Logger with a colorized, prefixed formatter suited to
// CLI use. Component identifies the subsystem (e.g. "svf", "xilinx",
// "mpsse") and is rendered as the log prefix.
func NewLogger(component string) *Logger {
	base := logrus.New()
	base.SetFormatter(&prefixed.TextFormatter{
		DisableColors:   false,
		ForceFormatting: true,
		FullTimestamp:   false,
	})
	return &Logger{entry: base.WithField("prefix", component)}
}

// WrapLogger adapts a caller-supplied *logrus.Logger, letting an embedding
// application share one logrus instance across the whole process.
func WrapLogger(l *logrus.Logger, component string) *Logger {
	return &Logger{entry: l.WithField("prefix", component)}
}

// Log implements LogFunc.
func (l *Logger) Log(level Level, message string) {
	switch level {
	case LevelWarning:
		l.entry.Warn(message)
	case LevelError:
		l.entry.Error(message)
	case LevelSuccess:
		// logrus has no native success level; tag info lines instead so a
		// downstream formatter or collector can still distinguish them.
		l.entry.WithField("status", "success").Info(message)
	default:
		l.entry.Info(message)
	}
}

// AsLogFunc returns a LogFunc bound to this Logger, for constructors that
// accept a bare callback instead of a *Logger.
func (l *Logger) AsLogFunc() LogFunc {
	return l.Log
}
