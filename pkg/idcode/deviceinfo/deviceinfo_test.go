package deviceinfo

import "testing"

func TestLookupKnownXilinxDevice(t *testing.T) {
	// version=1, part=0x3631 (XC7A100T), mfg=0x031 (Xilinx), stop bit set.
	const raw = 0x13631063

	info := Lookup(raw)
	if info.Name != "XC7A100T" {
		t.Fatalf("Name = %q, want XC7A100T", info.Name)
	}
	if info.Family != "Artix-7" {
		t.Fatalf("Family = %q, want Artix-7", info.Family)
	}
	if !info.IsFPGA {
		t.Fatalf("IsFPGA = false, want true")
	}
	if info.IDCode.Raw != raw {
		t.Fatalf("IDCode.Raw = 0x%08X, want 0x%08X", info.IDCode.Raw, raw)
	}
}

func TestLookupUnknownDevice(t *testing.T) {
	info := Lookup(0x00000001)
	if info.Name != "Unknown device" {
		t.Fatalf("Name = %q, want Unknown device", info.Name)
	}
}

func TestLookupZynqSoC(t *testing.T) {
	// version=0, part=0x3727 (XC7Z020), mfg=0x031 (Xilinx), stop bit set.
	const raw = 0x03727063

	info := Lookup(raw)
	if info.Name != "XC7Z020" {
		t.Fatalf("Name = %q, want XC7Z020", info.Name)
	}
	if !info.HasARMCore {
		t.Fatalf("HasARMCore = false, want true")
	}
	if !info.IsSoC {
		t.Fatalf("IsSoC = false, want true")
	}
}
