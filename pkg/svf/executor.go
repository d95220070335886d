package svf

import (
	"context"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/physic"

	"github.com/OpenTraceLab/jtagblaster/pkg/progress"
	"github.com/OpenTraceLab/jtagblaster/pkg/tap"
)

// rejectedCommands names SVF commands this executor recognizes but
// deliberately does not implement, as opposed to genuinely unknown
// vendor extensions that are logged and skipped. PIO/PIOMAP address
// boundary-scan pins directly; this executor only drives TAP shifts.
var rejectedCommands = map[string]bool{
	"PIO":    true,
	"PIOMAP": true,
}

// stateByName maps the keyword text SVF uses for stable states onto the
// tap package's State constants, including the RUN_TEST_IDLE/IDLE alias
// SVF treats as synonyms.
var stateByName = map[string]tap.State{
	"RESET":         tap.StateTestLogicReset,
	"RUN_TEST_IDLE": tap.StateRunTestIdle,
	"IDLE":          tap.StateRunTestIdle,
	"IRSELECT":      tap.StateSelectIRScan,
	"DRSELECT":      tap.StateSelectDRScan,
	"IRCAPTURE":     tap.StateCaptureIR,
	"DRCAPTURE":     tap.StateCaptureDR,
	"IRSHIFT":       tap.StateShiftIR,
	"DRSHIFT":       tap.StateShiftDR,
	"IREXIT1":       tap.StateExit1IR,
	"DREXIT1":       tap.StateExit1DR,
	"IRPAUSE":       tap.StatePauseIR,
	"DRPAUSE":       tap.StatePauseDR,
	"IREXIT2":       tap.StateExit2IR,
	"DREXIT2":       tap.StateExit2DR,
	"IRUPDATE":      tap.StateUpdateIR,
	"DRUPDATE":      tap.StateUpdateDR,
}

func lookupState(name string) (tap.State, error) {
	s, ok := stateByName[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("svf: unrecognized state name %q", name)
	}
	return s, nil
}

// Executor drives a tap.Controller command-by-command from a parsed SVF
// File, honouring HIR/HDR/TIR/TDR, ENDIR/ENDDR, RUNTEST and STATE
// semantics.
type Executor struct {
	ctrl     *tap.Controller
	reporter progress.Reporter
	tckHz    physic.Frequency
}

// NewExecutor builds an Executor over ctrl. tckHz, if nonzero, is used to
// convert RUNTEST's minimum-time form into a clock-cycle count; a zero
// value falls back to a conservative 1 MHz until a FREQUENCY command
// narrows it.
func NewExecutor(ctrl *tap.Controller, reporter progress.Reporter, tckHz physic.Frequency) *Executor {
	if tckHz == 0 {
		tckHz = 1 * physic.MegaHertz
	}
	return &Executor{ctrl: ctrl, reporter: reporter, tckHz: tckHz}
}

// Run executes every command in f in order, reporting (i, n) progress
// after each one and returning on the first error. Cancellation of ctx is
// checked between commands: the TAP is reset and progress.ErrCancelled is
// returned.
func (e *Executor) Run(ctx context.Context, f *File) error {
	n := len(f.Commands)
	for i, cmd := range f.Commands {
		if err := ctx.Err(); err != nil {
			_ = e.ctrl.Reset()
			return progress.ErrCancelled
		}
		if err := e.runCommand(cmd); err != nil {
			return fmt.Errorf("svf: command %d of %d: %w", i+1, n, err)
		}
		e.reporter.At(i+1, n)
	}
	return nil
}

func (e *Executor) runCommand(cmd *Command) error {
	switch {
	case cmd.State != nil:
		return e.runState(cmd.State)
	case cmd.Sir != nil:
		return e.runShift(true, cmd.Sir.Fields)
	case cmd.Sdr != nil:
		return e.runShift(false, cmd.Sdr.Fields)
	case cmd.Hir != nil:
		return e.installHeaderTrailer(&e.ctrl.Session.HIR, cmd.Hir.Fields)
	case cmd.Tir != nil:
		return e.installHeaderTrailer(&e.ctrl.Session.TIR, cmd.Tir.Fields)
	case cmd.Hdr != nil:
		return e.installHeaderTrailer(&e.ctrl.Session.HDR, cmd.Hdr.Fields)
	case cmd.Tdr != nil:
		return e.installHeaderTrailer(&e.ctrl.Session.TDR, cmd.Tdr.Fields)
	case cmd.RunTest != nil:
		return e.runRunTest(cmd.RunTest)
	case cmd.Frequency != nil:
		return e.runFrequency(cmd.Frequency)
	case cmd.Trst != nil:
		return e.runTrst(cmd.Trst)
	case cmd.EndIR != nil:
		return e.runEndIR(cmd.EndIR)
	case cmd.EndDR != nil:
		return e.runEndDR(cmd.EndDR)
	case cmd.Unknown != nil:
		keyword := strings.ToUpper(cmd.Unknown.Keyword)
		if rejectedCommands[keyword] {
			return &progress.UnsupportedCommandError{Command: keyword}
		}
		e.reporter.Warn("svf: ignoring unrecognised command %q", cmd.Unknown.Keyword)
		return nil
	default:
		return fmt.Errorf("svf: empty command")
	}
}

func (e *Executor) runState(s *StateCmd) error {
	target, err := lookupState(s.Name)
	if err != nil {
		return err
	}
	return e.ctrl.MoveTo(target)
}

// runShift performs SIR or SDR against the currently installed
// header/trailer, then checks TDO against any supplied expected value
// and mask.
func (e *Executor) runShift(ir bool, fields ShiftFields) error {
	tdi, err := hexFieldBits(fields.TDI, fields.Length)
	if err != nil {
		return err
	}

	var tdo []byte
	capture := fields.TDO != nil
	if ir {
		tdo, err = e.ctrl.ShiftIR(fields.Length, tdi, capture)
	} else {
		tdo, err = e.ctrl.ShiftDR(fields.Length, tdi, capture)
	}
	if err != nil {
		return err
	}
	if !capture {
		return nil
	}

	expected, err := hexFieldBits(fields.TDO, fields.Length)
	if err != nil {
		return err
	}
	mask, err := hexFieldBits(fields.Mask, fields.Length)
	if err != nil {
		return err
	}
	if mask == nil {
		mask = make([]byte, (fields.Length+7)/8)
		for i := range mask {
			mask[i] = 0xFF
		}
	}

	for i, got := range tdo {
		m := mask[i]
		want := expected[i] & m
		if got&m != want {
			return &progress.TdoMismatchError{ByteIndex: i, Got: got & m, Expected: want, Mask: m}
		}
	}
	return nil
}

func (e *Executor) installHeaderTrailer(dst *tap.HeaderTrailer, fields ShiftFields) error {
	tdi, err := hexFieldBits(fields.TDI, fields.Length)
	if err != nil {
		return err
	}
	*dst = tap.HeaderTrailer{Length: fields.Length, TDI: tdi}
	return nil
}

func (e *Executor) runRunTest(r *RunTestCmd) error {
	runState := e.ctrl.State()
	if r.RunState != nil {
		s, err := lookupState(*r.RunState)
		if err != nil {
			return err
		}
		runState = s
	}

	endState := runState
	if r.EndState != nil {
		s, err := lookupState(*r.EndState)
		if err != nil {
			return err
		}
		endState = s
	}

	cycles := 0
	switch {
	case r.Cycles != nil:
		cycles = *r.Cycles
	case r.Seconds != nil:
		cycles = e.secondsToCycles(*r.Seconds)
	}
	if r.MaxCycles != nil && *r.MaxCycles > cycles {
		cycles = *r.MaxCycles
	} else if r.MaxSecs != nil {
		if c := e.secondsToCycles(*r.MaxSecs); c > cycles {
			cycles = c
		}
	}
	if cycles == 0 {
		return e.ctrl.MoveTo(endState)
	}
	return e.ctrl.RunTest(cycles, runState, endState)
}

func (e *Executor) secondsToCycles(seconds float64) int {
	hz := float64(e.tckHz) / float64(physic.Hertz)
	cycles := int(seconds*hz + 0.5)
	if cycles < 1 {
		cycles = 1
	}
	return cycles
}

// runFrequency records the advisory TCK ceiling; SVF only requires that
// it be recorded, not enforced. It does not reprogram the adapter's
// clock divider; callers that need that may read tckHz back via
// Executor state in a future revision.
func (e *Executor) runFrequency(f *FrequencyCmd) error {
	if f.Hz == nil {
		return nil
	}
	e.tckHz = physic.Frequency(*f.Hz) * physic.Hertz
	e.reporter.Info("svf: FREQUENCY advisory set to %s", e.tckHz)
	return nil
}

// runTrst logs the requested TRST mode. No adapter in this package
// models a discrete TRST line, so this forwards to nothing and is a
// no-op.
func (e *Executor) runTrst(t *TrstCmd) error {
	e.reporter.Info("svf: TRST %s (no hardware TRST line, no-op)", strings.ToUpper(t.Mode))
	return nil
}

func (e *Executor) runEndIR(c *EndIRCmd) error {
	s, err := lookupState(c.State)
	if err != nil {
		return err
	}
	return e.ctrl.Session.SetEndIRState(s)
}

func (e *Executor) runEndDR(c *EndDRCmd) error {
	s, err := lookupState(c.State)
	if err != nil {
		return err
	}
	return e.ctrl.Session.SetEndDRState(s)
}

// hexFieldBits decodes an optional hex literal field into a byte slice of
// the given bit length, returning nil (not an error) when the field is
// absent.
func hexFieldBits(literal *string, bits int) ([]byte, error) {
	if literal == nil {
		return nil, nil
	}
	v, err := ParseHex(*literal, bits)
	if err != nil {
		return nil, err
	}
	return v.Data, nil
}
