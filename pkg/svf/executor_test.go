package svf

import (
	"context"
	"errors"
	"testing"

	"github.com/OpenTraceLab/jtagblaster/pkg/adapter"
	"github.com/OpenTraceLab/jtagblaster/pkg/progress"
	"github.com/OpenTraceLab/jtagblaster/pkg/tap"
)

func newTestExecutor(t *testing.T) (*Executor, *adapter.Sim, *tap.Controller) {
	t.Helper()
	sim := adapter.NewSim(adapter.Info{Name: "sim"})
	ctrl := tap.NewController(sim)
	exec := NewExecutor(ctrl, progress.NewReporter(nil, nil), 0)
	return exec, sim, ctrl
}

func TestExecutorRunsBasicProgram(t *testing.T) {
	exec, _, ctrl := newTestExecutor(t)
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser returned error: %v", err)
	}
	f, err := p.ParseString(`
STATE RESET;
STATE IDLE;
SIR 4 TDI (A);
SDR 8 TDI (FF);
RUNTEST IDLE 10 TCK;
`)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	if err := exec.Run(context.Background(), f); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if ctrl.State() != tap.StateRunTestIdle {
		t.Fatalf("final state = %s, want %s", ctrl.State(), tap.StateRunTestIdle)
	}
}

func TestExecutorDetectsTdoMismatch(t *testing.T) {
	exec, sim, _ := newTestExecutor(t)
	sim.OnShift = func(tdi, tms []byte, nBits int, capture bool) ([]byte, error) {
		if !capture {
			return nil, nil
		}
		return make([]byte, (nBits+7)/8), nil // always reads back zero
	}

	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser returned error: %v", err)
	}
	f, err := p.ParseString(`SDR 8 TDI (00) TDO (FF);`)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}

	err = exec.Run(context.Background(), f)
	if err == nil {
		t.Fatalf("expected TDO mismatch error")
	}
	var mismatch *progress.TdoMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %v, want *progress.TdoMismatchError", err)
	}
}

func TestExecutorInstallsHeaderTrailer(t *testing.T) {
	exec, _, ctrl := newTestExecutor(t)
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser returned error: %v", err)
	}
	f, err := p.ParseString(`HIR 2 TDI (3); TIR 1 TDI (1); SIR 4 TDI (A);`)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	if err := exec.Run(context.Background(), f); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if ctrl.Session.HIR.Length != 2 || ctrl.Session.TIR.Length != 1 {
		t.Fatalf("header/trailer not installed: HIR=%+v TIR=%+v", ctrl.Session.HIR, ctrl.Session.TIR)
	}
}

func TestExecutorUpdatesEndStates(t *testing.T) {
	exec, _, ctrl := newTestExecutor(t)
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser returned error: %v", err)
	}
	f, err := p.ParseString(`ENDIR IRPAUSE; ENDDR DRPAUSE;`)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	if err := exec.Run(context.Background(), f); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if ctrl.Session.EndIRState != tap.StatePauseIR {
		t.Fatalf("EndIRState = %s, want %s", ctrl.Session.EndIRState, tap.StatePauseIR)
	}
	if ctrl.Session.EndDRState != tap.StatePauseDR {
		t.Fatalf("EndDRState = %s, want %s", ctrl.Session.EndDRState, tap.StatePauseDR)
	}
}

func TestExecutorRejectsPIO(t *testing.T) {
	exec, _, _ := newTestExecutor(t)
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser returned error: %v", err)
	}
	f, err := p.ParseString(`PIO 1 0 1 0;`)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}

	err = exec.Run(context.Background(), f)
	if err == nil {
		t.Fatalf("expected PIO to be rejected")
	}
	var unsupported *progress.UnsupportedCommandError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %v, want *progress.UnsupportedCommandError", err)
	}
}

func TestExecutorWarnsAndSkipsUnknownCommand(t *testing.T) {
	exec, _, ctrl := newTestExecutor(t)
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser returned error: %v", err)
	}
	f, err := p.ParseString(`VENDOREXTENSION 1 2 3; STATE IDLE;`)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	if err := exec.Run(context.Background(), f); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if ctrl.State() != tap.StateRunTestIdle {
		t.Fatalf("final state = %s, want %s", ctrl.State(), tap.StateRunTestIdle)
	}
}

func TestExecutorCancellation(t *testing.T) {
	exec, _, _ := newTestExecutor(t)
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser returned error: %v", err)
	}
	f, err := p.ParseString(`STATE IDLE; STATE RESET;`)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := exec.Run(ctx, f); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
