package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "jtagblaster",
	Short: "JTAG programmer for USB-Blaster and FTDI MPSSE cables",
	Long: `jtagblaster drives a JTAG chain over a USB-Blaster legacy bit-bang
adapter or an FTDI MPSSE cable: it can replay an SVF vector file or run the
Xilinx 7-series SRAM configuration sequence directly from a .bit file.

Examples:
  jtagblaster discover --adapter mpsse
  jtagblaster program svf boundary_scan.svf --adapter legacy
  jtagblaster program bit design.bit --adapter mpsse --pid 0x6010`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
