package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/jtagblaster/pkg/progress"
	"github.com/OpenTraceLab/jtagblaster/pkg/svf"
	"github.com/OpenTraceLab/jtagblaster/pkg/tap"
	"github.com/OpenTraceLab/jtagblaster/pkg/xilinx"
)

var (
	programAdapterKind string
	programPID         string
)

var programCmd = &cobra.Command{
	Use:   "program",
	Short: "Program a target via SVF playback or a raw Xilinx .bit sequence",
}

var programSVFCmd = &cobra.Command{
	Use:   "svf <file.svf>",
	Short: "Replay an SVF vector file against the TAP",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgramSVF,
}

var programBitCmd = &cobra.Command{
	Use:   "bit <file.bit>",
	Short: "Run the Xilinx 7-series SRAM configuration sequence from a .bit file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgramBit,
}

func init() {
	rootCmd.AddCommand(programCmd)
	programCmd.AddCommand(programSVFCmd)
	programCmd.AddCommand(programBitCmd)

	for _, c := range []*cobra.Command{programSVFCmd, programBitCmd} {
		c.Flags().StringVarP(&programAdapterKind, "adapter", "a", "sim", "adapter kind: legacy, mpsse or sim")
		c.Flags().StringVar(&programPID, "pid", "", "FTDI product id for --adapter mpsse (ft2232h, ft232h, ft4232h, or 0xNNNN)")
	}
}

// cancelOnInterrupt returns a context that is cancelled when the process
// receives SIGINT, so a long SVF replay or bitstream upload tears down to
// TAP RESET instead of leaving the target mid-shift.
func cancelOnInterrupt() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		cancel()
	}()
	return ctx, cancel
}

func runProgramSVF(cmd *cobra.Command, args []string) error {
	logger := newLogger("svf")
	a, err := openAdapter(programAdapterKind, programPID, logger.AsLogFunc())
	if err != nil {
		return fmt.Errorf("failed to open adapter: %w", err)
	}
	defer a.Close()

	p, err := svf.NewParser()
	if err != nil {
		return err
	}
	file, err := p.ParseFile(args[0])
	if err != nil {
		return err
	}

	ctrl := tap.NewController(a)
	reporter := progress.NewReporter(func(pct int) {
		fmt.Printf("\rprogress: %3d%%", pct)
	}, logger.AsLogFunc())

	exec := svf.NewExecutor(ctrl, reporter, 0)
	ctx, cancel := cancelOnInterrupt()
	defer cancel()

	err = exec.Run(ctx, file)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("svf playback failed: %w", err)
	}
	fmt.Println("svf playback complete")
	return nil
}

func runProgramBit(cmd *cobra.Command, args []string) error {
	logger := newLogger("xilinx")
	a, err := openAdapter(programAdapterKind, programPID, logger.AsLogFunc())
	if err != nil {
		return fmt.Errorf("failed to open adapter: %w", err)
	}
	defer a.Close()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read bit file: %w", err)
	}
	bf, err := xilinx.ParseBitFile(raw)
	if err != nil {
		return fmt.Errorf("failed to parse bit file: %w", err)
	}
	if bf.DesignName != "" {
		fmt.Printf("design: %s  device: %s  date: %s %s\n", bf.DesignName, bf.DeviceName, bf.Date, bf.Time)
	}

	ctrl := tap.NewController(a)
	reporter := progress.NewReporter(func(pct int) {
		fmt.Printf("\rprogress: %3d%%", pct)
	}, logger.AsLogFunc())

	prog := xilinx.NewProgrammer(ctrl, reporter)
	ctx, cancel := cancelOnInterrupt()
	defer cancel()

	done, err := prog.Program(ctx, bf)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("bitstream programming failed: %w", err)
	}
	if !done {
		return fmt.Errorf("programming completed but DONE was not asserted")
	}
	fmt.Println("configuration DONE")
	return nil
}
