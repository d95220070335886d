package idcode

import "testing"

func TestParseIDCode(t *testing.T) {
	// A representative 7-series IDCODE: version 1, JEP106 0x031 (Xilinx).
	id := ParseIDCode(0x13622093)
	if id.Version != 1 {
		t.Fatalf("Version = %d, want 1", id.Version)
	}
	if id.PartNumber != 0x3622 {
		t.Fatalf("PartNumber = 0x%04X, want 0x3622", id.PartNumber)
	}
	if id.ManufacturerCode != 0x031 {
		t.Fatalf("ManufacturerCode = 0x%03X, want 0x031", id.ManufacturerCode)
	}
	if !id.HasIDCode {
		t.Fatalf("HasIDCode = false, want true")
	}
	if !id.IsXilinx() {
		t.Fatalf("IsXilinx() = false, want true")
	}
}

func TestParseIDCodeNoIDCodeRegister(t *testing.T) {
	// A BYPASS capture is a single 0 bit; bit 0 clear means no IDCODE
	// register exists on this TAP.
	id := ParseIDCode(0)
	if id.HasIDCode {
		t.Fatalf("HasIDCode = true, want false")
	}
	if id.IsXilinx() {
		t.Fatalf("IsXilinx() = true, want false")
	}
}

func TestLookupManufacturerKnownAndUnknown(t *testing.T) {
	m, ok := LookupManufacturer(0x031)
	if !ok {
		t.Fatalf("LookupManufacturer(0x031) ok = false, want true")
	}
	if m.Name != "Xilinx" {
		t.Fatalf("Name = %q, want Xilinx", m.Name)
	}

	_, ok = LookupManufacturer(0x7FF)
	if ok {
		t.Fatalf("LookupManufacturer(0x7FF) ok = true, want false")
	}
}

func TestIsFPGAVendor(t *testing.T) {
	cases := map[uint16]bool{
		0x031: true,  // Xilinx
		0x03D: true,  // Altera
		0x041: true,  // Lattice
		0x020: false, // STMicroelectronics
	}
	for code, want := range cases {
		if got := IsFPGAVendor(code); got != want {
			t.Fatalf("IsFPGAVendor(0x%03X) = %v, want %v", code, got, want)
		}
	}
}

func TestIDCodeString(t *testing.T) {
	id := ParseIDCode(0x13622093)
	if got := id.String(); got == "" {
		t.Fatalf("String() returned empty string")
	}

	bypass := ParseIDCode(0)
	if got := bypass.String(); got == "" {
		t.Fatalf("String() returned empty string for bypass capture")
	}
}
