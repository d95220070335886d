package deviceinfo

import "github.com/OpenTraceLab/jtagblaster/pkg/idcode"

// DeviceInfo contains rich information about a JTAG device. A lookup
// miss still carries IDCode/Manufacturer so the Raw and decoded fields
// remain available even when the part number isn't in the table.
type DeviceInfo struct {
	// Key fields
	IDCode       idcode.IDCode
	Manufacturer idcode.Manufacturer

	// Human-friendly
	Name        string // "STM32F407VG"
	Family      string // "STM32F4"
	Description string // "ARM Cortex-M4 MCU with FPU"
	Package     string // "LQFP-100", if known

	// Capabilities / hints
	HasBoundaryScan bool
	HasARMCore      bool
	ARMCore         string // "Cortex-M4", "Cortex-A9", etc.
	IsFPGA          bool
	IsCPLD          bool
	IsMCU           bool
	IsSoC           bool

	// JTAG specifics
	IRLength     int
	BSDLURL      string
	DatasheetURL string
}

// IsProgrammable reports whether this entry describes a part the SRAM
// configuration sequencer in pkg/xilinx could target, as opposed to an
// MCU or SoC boundary-scan entry kept only for chain diagnostics.
func (d DeviceInfo) IsProgrammable() bool {
	return d.IsFPGA || d.IsCPLD
}
