package tap

import (
	"testing"

	"github.com/OpenTraceLab/jtagblaster/pkg/adapter"
)

func TestStateMachineSequencesDriveSimAdapter(t *testing.T) {
	m := NewStateMachine()
	// Leave reset so the path is more interesting.
	m.Clock(false) // -> Run-Test/Idle

	seq, err := m.GoTo(StateShiftIR)
	if err != nil {
		t.Fatalf("GoTo returned error: %v", err)
	}

	sim := adapter.NewSim(adapter.Info{Name: "sim"})
	tmsBytes := tmsBoolsToBytes(seq.TMS)
	tdi := make([]byte, len(tmsBytes))

	if _, err := sim.Shift(tdi, tmsBytes, len(seq.TMS), true); err != nil {
		t.Fatalf("Shift returned error: %v", err)
	}

	last := sim.LastShift()
	if last.NBits != len(seq.TMS) {
		t.Fatalf("adapter bits = %d, want %d", last.NBits, len(seq.TMS))
	}
	gotTMS := bytesToBools(last.TMS, last.NBits)
	if len(gotTMS) != len(seq.TMS) {
		t.Fatalf("decoded bits = %d, want %d", len(gotTMS), len(seq.TMS))
	}
	for i := range gotTMS {
		if gotTMS[i] != seq.TMS[i] {
			t.Fatalf("tms bit %d = %v, want %v", i, gotTMS[i], seq.TMS[i])
		}
	}
}

func tmsBoolsToBytes(bits []bool) []byte {
	if len(bits) == 0 {
		return nil
	}
	buf := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			buf[i/8] |= 1 << (uint(i) % 8)
		}
	}
	return buf
}

func bytesToBools(buf []byte, bits int) []bool {
	if bits == 0 {
		return nil
	}
	out := make([]bool, bits)
	for i := 0; i < bits; i++ {
		out[i] = (buf[i/8]&(1<<(uint(i)%8)) != 0)
	}
	return out
}
