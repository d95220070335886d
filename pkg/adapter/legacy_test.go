package adapter

import (
	"bytes"
	"testing"
	"time"

	"github.com/OpenTraceLab/jtagblaster/pkg/progress"
)

// fakeLegacyLink is a legacyLink that records every BulkWrite call instead
// of touching a real USB device.
type fakeLegacyLink struct {
	writes [][]byte
}

func (f *fakeLegacyLink) BulkWrite(buf []byte) error {
	f.writes = append(f.writes, append([]byte(nil), buf...))
	return nil
}

func (f *fakeLegacyLink) BulkRead(maxLen int, timeout time.Duration) ([]byte, error) {
	return nil, nil
}

func (f *fakeLegacyLink) InPacketSize() int             { return 64 }
func (f *fakeLegacyLink) ResetDevice() error            { return nil }
func (f *fakeLegacyLink) PurgeRX() error                { return nil }
func (f *fakeLegacyLink) PurgeTX() error                { return nil }
func (f *fakeLegacyLink) SetLatencyTimer(_ uint8) error { return nil }
func (f *fakeLegacyLink) Close() error                  { return nil }

// TestLegacyShiftBytesScenarioD reproduces the legacy byte-shift encoding
// scenario: shifting [0xAA, 0x55, 0xFF] as 24 bits must emit the bit-bang
// anchor byte, a single 0x83 byte-shift command (0x80|3) carrying the three
// data bytes unchanged, then the final bit (bit 23, the high bit of 0xFF)
// re-clocked alone via bit-bang with TMS=1 to perform the SHIFT-state exit.
func TestLegacyShiftBytesScenarioD(t *testing.T) {
	link := &fakeLegacyLink{}
	a := &Legacy{link: link, log: progress.NoopLog}

	if err := a.ShiftBytes([]byte{0xAA, 0x55, 0xFF}, 24); err != nil {
		t.Fatalf("ShiftBytes returned error: %v", err)
	}

	if len(link.writes) != 2 {
		t.Fatalf("got %d bulk writes, want 2: %v", len(link.writes), link.writes)
	}

	wantFast := []byte{0x2C, 0x83, 0xAA, 0x55, 0xFF}
	if !bytes.Equal(link.writes[0], wantFast) {
		t.Fatalf("byte-shift write = % X, want % X", link.writes[0], wantFast)
	}

	// Final bit (bit 7 of 0xFF) is 1, so both bit-bang bytes carry TDI=1,
	// TMS=1: setup byte 0x2C|TMS|TDI = 0x3E, clock byte adds TCK = 0x3F.
	wantFinal := []byte{0x3E, 0x3F}
	if !bytes.Equal(link.writes[1], wantFinal) {
		t.Fatalf("final-bit bit-bang write = % X, want % X", link.writes[1], wantFinal)
	}
}

// TestLegacyShiftBytesScenarioDFinalBitZero checks the same path when the
// last data bit is 0, so the final bit-bang bytes carry TDI=0 while TMS
// still goes high to exit SHIFT.
func TestLegacyShiftBytesScenarioDFinalBitZero(t *testing.T) {
	link := &fakeLegacyLink{}
	a := &Legacy{link: link, log: progress.NoopLog}

	if err := a.ShiftBytes([]byte{0x7F}, 8); err != nil {
		t.Fatalf("ShiftBytes returned error: %v", err)
	}

	if len(link.writes) != 2 {
		t.Fatalf("got %d bulk writes, want 2: %v", len(link.writes), link.writes)
	}

	wantFast := []byte{0x2C, 0x81, 0x7F}
	if !bytes.Equal(link.writes[0], wantFast) {
		t.Fatalf("byte-shift write = % X, want % X", link.writes[0], wantFast)
	}

	// TDI=0, TMS=1: setup byte 0x2C|TMS = 0x2E, clock byte adds TCK = 0x2F.
	wantFinal := []byte{0x2E, 0x2F}
	if !bytes.Equal(link.writes[1], wantFinal) {
		t.Fatalf("final-bit bit-bang write = % X, want % X", link.writes[1], wantFinal)
	}
}

// TestLegacyShiftBytesFastRunSplitsAtMaxBytes checks that chunks longer
// than the 6-bit run-length field get split into multiple 0x80|N commands
// under a single bit-bang anchor byte.
func TestLegacyShiftBytesFastRunSplitsAtMaxBytes(t *testing.T) {
	link := &fakeLegacyLink{}
	a := &Legacy{link: link, log: progress.NoopLog}

	data := make([]byte, legacyMaxRunBytes+1)
	for i := range data {
		data[i] = byte(i)
	}

	if err := a.shiftBytesFast(data); err != nil {
		t.Fatalf("shiftBytesFast returned error: %v", err)
	}

	if len(link.writes) != 1 {
		t.Fatalf("got %d bulk writes, want 1: %v", len(link.writes), link.writes)
	}
	buf := link.writes[0]

	if buf[0] != legacyBase {
		t.Fatalf("anchor byte = %#x, want %#x", buf[0], legacyBase)
	}
	if buf[1] != legacyByteShiftOp|legacyMaxRunBytes {
		t.Fatalf("first run command = %#x, want %#x", buf[1], legacyByteShiftOp|legacyMaxRunBytes)
	}
	secondCmdOff := 1 + 1 + legacyMaxRunBytes
	if buf[secondCmdOff] != legacyByteShiftOp|0x01 {
		t.Fatalf("second run command = %#x, want %#x", buf[secondCmdOff], legacyByteShiftOp|0x01)
	}
}
