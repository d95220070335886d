package adapter

import (
	"bytes"
	"testing"
)

func TestPackBits(t *testing.T) {
	buf := []byte{0xB5} // 1011 0101, bits 0..7 LSB-first: 1,0,1,0,1,1,0,1
	got := packBits(buf, 0, 4)
	want := byte(0x05) // bits 0..3: 1,0,1,0 -> 0101
	if got != want {
		t.Fatalf("packBits(0,4) = %#02x want %#02x", got, want)
	}

	got = packBits(buf, 4, 4)
	want = byte(0x0B) // bits 4..7 of 0xB5 are 1,1,0,1 -> packed LSB-first as 0b1011 = 0x0B
	if got != want {
		t.Fatalf("packBits(4,4) = %#02x want %#02x", got, want)
	}
}

func TestBoolToBit(t *testing.T) {
	if boolToBit(true) != 1 {
		t.Fatal("boolToBit(true) != 1")
	}
	if boolToBit(false) != 0 {
		t.Fatal("boolToBit(false) != 0")
	}
}

func TestMPSSEConstants(t *testing.T) {
	if mpsseBufferLimit != 4096 {
		t.Errorf("unexpected mpsseBufferLimit: %d", mpsseBufferLimit)
	}
}

// TestMPSSEShiftOpcodeScenarioE drives the real Shift() (capture=false,
// so it never touches the nil *usblink.Link) with one byte out of ShiftDR
// and TMS all-zero except the final bit. bodyBits=7 leaves fullBytes=0, so
// the only commands are a bit-mode write of the residual 7 bits followed
// by the TMS command carrying the last data bit in bit 7 and TMS=1 in
// bit 0.
func TestMPSSEShiftOpcodeScenarioE(t *testing.T) {
	a := &MPSSE{}

	tdi := []byte{0x81}
	tms := make([]byte, 1)
	SetBit(tms, 7, true)

	if _, err := a.Shift(tdi, tms, 8, false); err != nil {
		t.Fatalf("Shift returned error: %v", err)
	}

	want := []byte{0x1B, 0x06, 0x01, 0x4B, 0x00, 0x81}
	if !bytes.Equal(a.buf, want) {
		t.Fatalf("buf = % X, want % X", a.buf, want)
	}
}

// TestMPSSEShiftOpcodeFullBytePlusResidual drives Shift() with enough
// bits to exercise all three legs: a byte-mode body write, a bit-mode
// residual write and the final TMS command.
func TestMPSSEShiftOpcodeFullBytePlusResidual(t *testing.T) {
	a := &MPSSE{}

	tdi := []byte{0xAB, 0x0C}
	tms := make([]byte, 2)
	SetBit(tms, 11, true)

	if _, err := a.Shift(tdi, tms, 12, false); err != nil {
		t.Fatalf("Shift returned error: %v", err)
	}

	want := []byte{
		0x19, 0x00, 0x00, 0xAB, // byte-mode write, 1 full byte, data 0xAB
		0x1B, 0x02, 0x04, // bit-mode write, 3 residual bits, packed 0x04
		0x4B, 0x00, 0x81, // TMS command: TDI=1 (bit 7), TMS=1 (bit 0)
	}
	if !bytes.Equal(a.buf, want) {
		t.Fatalf("buf = % X, want % X", a.buf, want)
	}
}
