package adapter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/OpenTraceLab/jtagblaster/pkg/progress"
)

func TestValidateShiftBuffers(t *testing.T) {
	if _, err := ValidateShiftBuffers(nil, nil, 0); err == nil {
		t.Fatalf("expected error for zero bits")
	}
	if _, err := ValidateShiftBuffers([]byte{0x00}, nil, 16); err == nil {
		t.Fatalf("expected error when tdi buffer too short")
	}
	if _, err := ValidateShiftBuffers(nil, []byte{0x01}, 8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSimEchoShift(t *testing.T) {
	sim := NewSim(Info{Name: "sim"})
	tdo, err := sim.Shift([]byte{0xCC}, []byte{0xAA}, 8, true)
	if err != nil {
		t.Fatalf("Shift returned error: %v", err)
	}
	if !bytes.Equal(tdo, []byte{0xCC}) {
		t.Fatalf("tdo = %X, want CC", tdo)
	}

	last := sim.LastShift()
	if !last.Capture || last.NBits != 8 {
		t.Fatalf("unexpected last shift metadata: %+v", last)
	}
}

func TestSimHook(t *testing.T) {
	sim := NewSim(Info{Name: "sim"})
	sim.OnShift = func(tdi, tms []byte, nBits int, capture bool) ([]byte, error) {
		if nBits != 4 || !capture {
			t.Fatalf("unexpected hook args: nBits=%d capture=%v", nBits, capture)
		}
		return []byte{0x0F}, nil
	}

	tdo, err := sim.Shift(nil, nil, 4, true)
	if err != nil {
		t.Fatalf("Shift returned error: %v", err)
	}
	if !bytes.Equal(tdo, []byte{0x0F}) {
		t.Fatalf("tdo = %X, want 0F", tdo)
	}
}

func TestSimShiftBytesSetsFinalTMS(t *testing.T) {
	sim := NewSim(Info{Name: "sim"})
	if err := sim.ShiftBytes([]byte{0x81}, 8); err != nil {
		t.Fatalf("ShiftBytes returned error: %v", err)
	}
	last := sim.LastShift()
	if last.Capture {
		t.Fatalf("ShiftBytes must not request capture")
	}
	if !GetBit(last.TMS, 7) {
		t.Fatalf("expected TMS bit 7 set for final-bit exit")
	}
	for i := 0; i < 7; i++ {
		if GetBit(last.TMS, i) {
			t.Fatalf("expected TMS bit %d clear", i)
		}
	}
}

func TestSimRejectsShiftAfterClose(t *testing.T) {
	sim := NewSim(Info{Name: "sim"})
	if err := sim.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	if _, err := sim.Shift([]byte{0x00}, []byte{0x00}, 8, false); !errors.Is(err, progress.ErrNotConnected) {
		t.Fatalf("Shift after Close = %v, want ErrNotConnected", err)
	}
	if err := sim.ToggleClock(1); !errors.Is(err, progress.ErrNotConnected) {
		t.Fatalf("ToggleClock after Close = %v, want ErrNotConnected", err)
	}
}
