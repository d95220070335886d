// Package progress carries the observational callbacks that sit at the
// boundary between the JTAG transport stack and whatever front end embeds
// it (CLI, UI, test harness). Nothing in this package touches USB or the
// TAP state machine.
package progress

import "fmt"

// Level classifies a log line the way the original tool's console
// diagnostics did, so call sites can be mapped mechanically.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelSuccess Level = "success"
)

// Func reports completion of a long-running operation as a percentage. It
// is invoked monotonically and at least once per meaningful milestone
// (header parse, per-N SVF commands, per Xilinx step, per configuration
// chunk).
type Func func(percent int)

// LogFunc is the minimal observational logging contract. Level indicates
// severity; message is already formatted for display.
type LogFunc func(level Level, message string)

// NoopProgress discards progress updates. Useful when a caller only wants
// logs.
func NoopProgress(int) {}

// NoopLog discards log lines. Useful in tests that only assert on returned
// errors.
func NoopLog(Level, string) {}

// Reporter bundles a progress callback and a log callback so components
// that need both can accept one argument instead of two.
type Reporter struct {
	Progress Func
	Log      LogFunc
}

// NewReporter builds a Reporter, substituting no-op callbacks for any nil
// argument so callers never need to nil-check before invoking.
func NewReporter(p Func, l LogFunc) Reporter {
	if p == nil {
		p = NoopProgress
	}
	if l == nil {
		l = NoopLog
	}
	return Reporter{Progress: p, Log: l}
}

func (r Reporter) emitProgress(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	r.Progress(percent)
}

// Info logs an informational line.
func (r Reporter) Info(format string, args ...any) { r.logf(LevelInfo, format, args...) }

// Warn logs a non-fatal warning.
func (r Reporter) Warn(format string, args ...any) { r.logf(LevelWarning, format, args...) }

// Error logs a fatal condition. It does not itself abort anything; callers
// still return an error.
func (r Reporter) Error(format string, args ...any) { r.logf(LevelError, format, args...) }

// Success logs a milestone worth calling out distinctly from routine info.
func (r Reporter) Success(format string, args ...any) { r.logf(LevelSuccess, format, args...) }

func (r Reporter) logf(level Level, format string, args ...any) {
	r.Log(level, fmt.Sprintf(format, args...))
}

// At reports progress as a fraction of total, clamped to [0, 100].
func (r Reporter) At(done, total int) {
	if total <= 0 {
		r.emitProgress(100)
		return
	}
	r.emitProgress(done * 100 / total)
}
