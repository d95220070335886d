package deviceinfo

// Xilinx device entries, scoped to the 7-series parts this module's SRAM
// configuration sequencer drives. IRLength matches the 6-bit instruction
// register every part in the family shares.
func init() {
	const xlnx = 0x031 // Xilinx JEP106 code

	register(key{ManufacturerCode: xlnx, PartNumber: 0x3627}, DeviceInfo{
		Name:            "XC7A35T",
		Family:          "Artix-7",
		Description:     "Low-cost 7-series FPGA",
		HasBoundaryScan: true,
		IsFPGA:          true,
		IRLength:        6,
	})

	register(key{ManufacturerCode: xlnx, PartNumber: 0x3631}, DeviceInfo{
		Name:            "XC7A100T",
		Family:          "Artix-7",
		Description:     "Low-cost 7-series FPGA",
		HasBoundaryScan: true,
		IsFPGA:          true,
		IRLength:        6,
	})

	register(key{ManufacturerCode: xlnx, PartNumber: 0x3636}, DeviceInfo{
		Name:            "XC7A200T",
		Family:          "Artix-7",
		Description:     "Low-cost 7-series FPGA",
		HasBoundaryScan: true,
		IsFPGA:          true,
		IRLength:        6,
	})

	register(key{ManufacturerCode: xlnx, PartNumber: 0x3647}, DeviceInfo{
		Name:            "XC7K70T",
		Family:          "Kintex-7",
		Description:     "Mid-range 7-series FPGA",
		HasBoundaryScan: true,
		IsFPGA:          true,
		IRLength:        6,
	})

	register(key{ManufacturerCode: xlnx, PartNumber: 0x3651}, DeviceInfo{
		Name:            "XC7K325T",
		Family:          "Kintex-7",
		Description:     "Mid-range 7-series FPGA",
		HasBoundaryScan: true,
		IsFPGA:          true,
		IRLength:        6,
	})

	register(key{ManufacturerCode: xlnx, PartNumber: 0x362F}, DeviceInfo{
		Name:            "XC7S50",
		Family:          "Spartan-7",
		Description:     "Low-power, low-cost 7-series FPGA",
		HasBoundaryScan: true,
		IsFPGA:          true,
		IRLength:        6,
	})

	register(key{ManufacturerCode: xlnx, PartNumber: 0x3727}, DeviceInfo{
		Name:            "XC7Z020",
		Family:          "Zynq-7000",
		Description:     "Dual-core Cortex-A9 SoC with 7-series programmable logic",
		HasBoundaryScan: true,
		HasARMCore:      true,
		ARMCore:         "Cortex-A9",
		IsFPGA:          true,
		IsSoC:           true,
		IRLength:        6,
	})
}
