package xilinx

import "testing"

func TestReverseBits(t *testing.T) {
	data := []byte{0x01, 0x80, 0xA5}
	want := []byte{0x80, 0x01, 0xA5} // 0xA5 = 10100101 is its own reversal
	got := ReverseBits(append([]byte(nil), data...))
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = 0x%02X, want 0x%02X", i, got[i], want[i])
		}
	}
}
