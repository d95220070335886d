package progress

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped with %w at each layer so callers can use
// errors.Is/As without caring which layer produced the failure.
var (
	ErrNotConnected     = errors.New("jtagblaster: device not connected")
	ErrDeviceNotFound   = errors.New("jtagblaster: device not found")
	ErrEndpointsMissing = errors.New("jtagblaster: required USB endpoints not found")
	ErrTimeout          = errors.New("jtagblaster: operation timed out")
	ErrCancelled        = errors.New("jtagblaster: operation cancelled")
	ErrBitstreamFormat  = errors.New("jtagblaster: malformed bitstream")
)

// TransferError reports a failed USB transfer.
type TransferError struct {
	Direction string // "in" or "out"
	Detail    string
	Err       error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("jtagblaster: %s transfer failed: %s", e.Direction, e.Detail)
}

func (e *TransferError) Unwrap() error { return e.Err }

// NewTransferError builds a TransferError, matching the NewXxxError helper
// idiom used for typed errors in the pack (bbnote-gostlink/errors.go).
func NewTransferError(direction, detail string, err error) error {
	return &TransferError{Direction: direction, Detail: detail, Err: err}
}

// ParseError reports an SVF syntax problem at a specific source line.
type ParseError struct {
	Line   int
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jtagblaster: svf parse error at line %d: %s", e.Line, e.Detail)
}

// UnsupportedCommandError reports an SVF command this executor chose to
// reject rather than silently ignore.
type UnsupportedCommandError struct {
	Command string
}

func (e *UnsupportedCommandError) Error() string {
	return fmt.Sprintf("jtagblaster: unsupported svf command %q", e.Command)
}

// TdoMismatchError reports a SIR/SDR verification failure. ByteIndex, Got,
// Expected and Mask are all required for diagnosis.
type TdoMismatchError struct {
	ByteIndex int
	Got       byte
	Expected  byte
	Mask      byte
}

func (e *TdoMismatchError) Error() string {
	return fmt.Sprintf(
		"jtagblaster: tdo mismatch at byte %d: got 0x%02X expected 0x%02X mask 0x%02X",
		e.ByteIndex, e.Got, e.Expected, e.Mask,
	)
}

// UnknownDeviceError reports an IDCODE that is not a Xilinx part listed
// in the device database. Not fatal: SRAM configuration only needs the
// TAP to respond, not a recognized identity.
type UnknownDeviceError struct {
	IDCode uint32
}

func (e *UnknownDeviceError) Error() string {
	return fmt.Sprintf("jtagblaster: unknown device idcode 0x%08X", e.IDCode)
}
