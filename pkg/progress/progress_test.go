package progress

import (
	"errors"
	"testing"
)

func TestReporterSubstitutesNoops(t *testing.T) {
	r := NewReporter(nil, nil)
	r.Progress(50) // must not panic
	r.Log(LevelInfo, "hello")
}

func TestReporterAtClampsPercent(t *testing.T) {
	var got []int
	r := NewReporter(func(p int) { got = append(got, p) }, nil)

	r.At(0, 10)
	r.At(5, 10)
	r.At(10, 10)
	r.At(5, 0) // total<=0 always reports 100

	want := []int{0, 50, 100, 100}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestReporterLogLevels(t *testing.T) {
	var levels []Level
	r := NewReporter(nil, func(l Level, msg string) { levels = append(levels, l) })

	r.Info("info %d", 1)
	r.Warn("warn")
	r.Error("error")
	r.Success("success")

	want := []Level{LevelInfo, LevelWarning, LevelError, LevelSuccess}
	for i, lvl := range want {
		if levels[i] != lvl {
			t.Fatalf("level %d: got %s want %s", i, levels[i], lvl)
		}
	}
}

func TestTdoMismatchErrorFormatting(t *testing.T) {
	err := &TdoMismatchError{ByteIndex: 2, Got: 0x0F, Expected: 0x00, Mask: 0xFF}
	var target *TdoMismatchError
	if !errors.As(err, &target) {
		t.Fatal("errors.As failed to match *TdoMismatchError")
	}
	if target.ByteIndex != 2 {
		t.Fatalf("unexpected ByteIndex: %d", target.ByteIndex)
	}
}

func TestTransferErrorUnwraps(t *testing.T) {
	cause := errors.New("broken pipe")
	err := NewTransferError("out", "bulk write", cause)
	if !errors.Is(err, cause) {
		t.Fatal("NewTransferError result does not unwrap to its cause")
	}
}
