package usblink

import (
	"bytes"
	"testing"
)

func TestVIDPIDConstants(t *testing.T) {
	if VendorLegacy != 0x09FB || ProductLegacy != 0x6001 {
		t.Errorf("unexpected legacy VID/PID: 0x%04X:0x%04X", VendorLegacy, ProductLegacy)
	}
	if VendorFTDI != 0x0403 {
		t.Errorf("unexpected FTDI VID: 0x%04X", VendorFTDI)
	}
	for name, pid := range map[string]uint16{
		"FT2232": ProductFT2232,
		"FT232H": ProductFT232H,
		"FT4232": ProductFT4232,
	} {
		if pid == 0 {
			t.Errorf("%s product id not set", name)
		}
	}
}

func TestStripFT245StatusSinglePacket(t *testing.T) {
	in := []byte{0x31, 0x60, 0xDE, 0xAD, 0xBE, 0xEF}
	got := StripFT245Status(in, 64)
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x want %x", got, want)
	}
}

func TestStripFT245StatusMultiplePackets(t *testing.T) {
	packetSize := 8
	in := []byte{
		0x31, 0x60, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06,
		0x31, 0x60, 0x07, 0x08,
	}
	got := StripFT245Status(in, packetSize)
	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x want %x", got, want)
	}
}

func TestStripFT245StatusDropsStatusOnlyPacket(t *testing.T) {
	in := []byte{0x31, 0x60}
	got := StripFT245Status(in, 64)
	if len(got) != 0 {
		t.Fatalf("expected empty output for a status-only packet, got %x", got)
	}
}

func TestStripFT245StatusDefaultsSmallPacketSize(t *testing.T) {
	in := []byte{0x31, 0x60, 0xAA}
	got := StripFT245Status(in, 1)
	want := []byte{0xAA}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x want %x", got, want)
	}
}
