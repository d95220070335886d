package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/jtagblaster/pkg/idcode"
	"github.com/OpenTraceLab/jtagblaster/pkg/idcode/deviceinfo"
	"github.com/OpenTraceLab/jtagblaster/pkg/tap"
	"github.com/spf13/cobra"
)

var (
	discoverAdapterKind string
	discoverPID         string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Reset the TAP and report the attached device's IDCODE",
	Long: `discover resets the TAP, shifts 32 bits out of the data register that
Test-Logic-Reset selects (IDCODE on most devices), and reports the decoded
manufacturer and part fields.`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().StringVarP(&discoverAdapterKind, "adapter", "a", "sim", "adapter kind: legacy, mpsse or sim")
	discoverCmd.Flags().StringVar(&discoverPID, "pid", "", "FTDI product id for --adapter mpsse (ft2232h, ft232h, ft4232h, or 0xNNNN)")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	logger := newLogger("discover")
	a, err := openAdapter(discoverAdapterKind, discoverPID, logger.AsLogFunc())
	if err != nil {
		return fmt.Errorf("failed to open adapter: %w", err)
	}
	defer a.Close()

	ctrl := tap.NewController(a)
	if err := ctrl.Reset(); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	// Test-Logic-Reset selects IDCODE as the data register on most JTAG
	// devices; a plain DR shift with no prior SIR reads it.
	raw, err := ctrl.ShiftDR(32, make([]byte, 4), true)
	if err != nil {
		return fmt.Errorf("idcode shift failed: %w", err)
	}

	var v uint32
	for i := 0; i < 4 && i < len(raw); i++ {
		v |= uint32(raw[i]) << (8 * i)
	}
	id := idcode.ParseIDCode(v)
	m, known := idcode.LookupManufacturer(id.ManufacturerCode)

	fmt.Printf("IDCODE:       0x%08X\n", id.Raw)
	fmt.Printf("Version:      %d\n", id.Version)
	fmt.Printf("Part number:  0x%04X\n", id.PartNumber)
	if known {
		fmt.Printf("Manufacturer: %s (0x%03X)\n", m.Name, m.Code)
	} else {
		fmt.Printf("Manufacturer: unknown (0x%03X)\n", id.ManufacturerCode)
	}
	info := deviceinfo.Lookup(id.Raw)
	if info.Name != "" && info.Name != "Unknown device" {
		fmt.Printf("Device:       %s (%s)\n", info.Name, info.Description)
	} else if info.Description != "" {
		fmt.Printf("Device:       %s\n", info.Description)
	}
	if info.IsProgrammable() {
		fmt.Println("Programmable: yes (FPGA/CPLD)")
	}
	return nil
}
