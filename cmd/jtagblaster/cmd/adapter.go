package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/jtagblaster/pkg/adapter"
	"github.com/OpenTraceLab/jtagblaster/pkg/progress"
	"github.com/OpenTraceLab/jtagblaster/pkg/usblink"
)

// openAdapter opens the hardware (or simulated) adapter named by kind.
// pidFlag is only consulted for "mpsse", where it selects among the
// FTDI FT2232H/FT232H/FT4232H product IDs.
func openAdapter(kind, pidFlag string, log progress.LogFunc) (adapter.Adapter, error) {
	switch strings.ToLower(kind) {
	case "legacy", "usb-blaster", "blaster":
		return adapter.NewLegacy(log)
	case "mpsse", "ftdi":
		pid, err := resolveMPSSEProductID(pidFlag)
		if err != nil {
			return nil, err
		}
		return adapter.NewMPSSE(pid, log)
	case "sim", "simulator":
		return adapter.NewSim(adapter.Info{Name: "simulator"}), nil
	default:
		return nil, fmt.Errorf("unknown adapter kind %q (want legacy, mpsse or sim)", kind)
	}
}

func resolveMPSSEProductID(pidFlag string) (uint16, error) {
	switch strings.ToLower(pidFlag) {
	case "", "ft2232", "ft2232h":
		return usblink.ProductFT2232, nil
	case "ft232h":
		return usblink.ProductFT232H, nil
	case "ft4232", "ft4232h":
		return usblink.ProductFT4232, nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(pidFlag, "0x"), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid --pid %q: %w", pidFlag, err)
	}
	return uint16(v), nil
}

func newLogger(component string) *progress.Logger {
	l := progress.NewLogger(component)
	return l
}
