// Package adapter implements the wire-level JTAG adapters: the USB-Blaster
// legacy bit-bang adapter and the FTDI MPSSE adapter. Each encodes the
// bytes for its hardware and runs them through a pkg/usblink.Link. Neither
// adapter ever observes or mutates TAP state; the TAP Engine in pkg/tap
// only ever asks an Adapter to shift bits or toggle the clock.
package adapter

import (
	"errors"
	"fmt"

	"github.com/boljen/go-bitmap"
	"periph.io/x/conn/v3/physic"
)

// Info describes capabilities reported by a concrete adapter, using
// periph's physic.Frequency instead of a bare int so callers format
// frequencies the same way the rest of the periph-derived ecosystem
// does.
type Info struct {
	Name         string
	Vendor       string
	Model        string
	SerialNumber string
	MinFrequency physic.Frequency
	MaxFrequency physic.Frequency
	SupportsTRST bool
}

// ErrNotSupported lets an adapter decline a capability it cannot provide
// reliably — notably TDO capture on the legacy adapter's byte-shift path.
var ErrNotSupported = errors.New("adapter: not supported")

// Adapter is the wire-level contract every JTAG hardware backend
// implements. The TAP Engine drives an Adapter by supplying TDI/TMS bit
// streams; the adapter is responsible only for getting those bits onto
// (and, when asked, off of) the wire correctly.
type Adapter interface {
	// Info reports static capabilities of the adapter.
	Info() Info

	// Shift clocks nBits TCK edges. On edge i it presents tdi bit i and tms
	// bit i. If capture is true it returns nBits of TDO sampled on the
	// appropriate clock edge; an adapter that cannot capture reliably at
	// the requested size may return ErrNotSupported instead of fabricated
	// data. tdi and tms are length-tagged bit vectors, LSB first,
	// ceil(nBits/8) bytes.
	Shift(tdi, tms []byte, nBits int, capture bool) (tdo []byte, err error)

	// ShiftBytes is the optimized write-only path for runs where TMS=0 on
	// every bit except the last, which must be TMS=1. tdi is
	// ceil(nBits/8) bytes, LSB-first.
	ShiftBytes(tdi []byte, nBits int) error

	// ToggleClock clocks cycles TCK edges with TMS=0, TDI=0, no capture.
	ToggleClock(cycles int) error

	// Close releases the underlying USB link.
	Close() error
}

// ValidateShiftBuffers checks that tdi/tms are large enough for nBits and
// returns the required byte length, ceil(nBits/8).
func ValidateShiftBuffers(tdi, tms []byte, nBits int) (int, error) {
	if nBits <= 0 {
		return 0, fmt.Errorf("adapter: nBits must be positive, got %d", nBits)
	}
	required := (nBits + 7) / 8
	if len(tdi) > 0 && len(tdi) < required {
		return 0, fmt.Errorf("adapter: tdi buffer too short, need %d bytes, got %d", required, len(tdi))
	}
	if len(tms) > 0 && len(tms) < required {
		return 0, fmt.Errorf("adapter: tms buffer too short, need %d bytes, got %d", required, len(tms))
	}
	return required, nil
}

// GetBit returns bit i (0-indexed, LSB-first) of a length-tagged byte
// vector. go-bitmap indexes bits LSB-first within a byte, which is
// exactly this encoding, so this is a thin bounds-checked wrapper rather
// than a reimplementation.
func GetBit(buf []byte, i int) bool {
	if i/8 >= len(buf) {
		return false
	}
	return bitmap.Get(buf, i)
}

// SetBit sets bit i (0-indexed, LSB-first) of a length-tagged byte vector.
func SetBit(buf []byte, i int, v bool) {
	if i/8 >= len(buf) {
		return
	}
	bitmap.Set(buf, i, v)
}
