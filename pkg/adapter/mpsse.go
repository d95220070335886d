package adapter

import (
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/OpenTraceLab/jtagblaster/pkg/progress"
	"github.com/OpenTraceLab/jtagblaster/pkg/usblink"
)

// mpsseBufferLimit is the size threshold at which the command buffer is
// flushed proactively, keeping a single bulk write comfortably under the
// host controller's transfer size.
const mpsseBufferLimit = 4096

// MPSSE is the FT2232H/FT232H MPSSE adapter.
type MPSSE struct {
	link *usblink.Link
	log  progress.LogFunc

	buf         []byte
	pendingRead int // bytes expected back from commands already buffered
}

// NewMPSSE opens an FTDI MPSSE-capable device and runs the setup sequence:
// disable clock-divide-by-5 and adaptive/3-phase clocking, disable
// loopback, set the TCK divisor, and drive the GPIO pins to their idle
// JTAG levels.
func NewMPSSE(pid uint16, log progress.LogFunc) (*MPSSE, error) {
	if log == nil {
		log = progress.NoopLog
	}
	link, err := usblink.Open(usblink.VendorFTDI, pid)
	if err != nil {
		return nil, err
	}
	a := &MPSSE{link: link, log: log}
	if err := a.init(); err != nil {
		link.Close()
		return nil, err
	}
	return a, nil
}

func (a *MPSSE) init() error {
	if err := a.link.ResetDevice(); err != nil {
		a.log(progress.LevelWarning, "mpsse adapter: reset request failed: "+err.Error())
	}
	if err := a.link.SetBitMode(usblink.BitModeMPSSE, 0x0B); err != nil {
		return err
	}
	if err := a.link.SetLatencyTimer(1); err != nil {
		a.log(progress.LevelWarning, "mpsse adapter: set latency timer failed: "+err.Error())
	}
	_, _ = a.link.BulkRead(4096, 50*time.Millisecond)

	a.append(mpsseCmdDisableDiv5)
	a.append(mpsseCmdDisableAdaptive)
	a.append(mpsseCmdDisable3Phase)
	a.append(mpsseCmdLoopbackOff)
	a.append(mpsseCmdSetTCKDivisor, 0x05, 0x00) // ~5 MHz
	a.append(mpsseCmdSetBitsLow, 0xE8, 0xEB)
	a.append(mpsseCmdSetBitsHigh, 0x00, 0x60)
	return a.flush()
}

// Info reports static capabilities of the MPSSE adapter.
func (a *MPSSE) Info() Info {
	return Info{
		Name:         "FTDI MPSSE",
		Vendor:       "FTDI",
		Model:        "FT2232H/FT232H",
		MinFrequency: 100 * physic.Hertz,
		MaxFrequency: 30 * physic.MegaHertz,
		SupportsTRST: true,
	}
}

// Close flushes any buffered commands and releases the USB link.
func (a *MPSSE) Close() error {
	_ = a.flush()
	return a.link.Close()
}

func (a *MPSSE) append(b ...byte) {
	a.buf = append(a.buf, b...)
	if len(a.buf) >= mpsseBufferLimit {
		_ = a.flush()
	}
}

// flush writes the buffered command bytes to the device without reading
// anything back. Call readPending to actually drain a response.
func (a *MPSSE) flush() error {
	if len(a.buf) == 0 {
		return nil
	}
	toWrite := a.buf
	a.buf = nil
	return a.link.BulkWrite(toWrite)
}

// readPending appends SEND_IMMEDIATE, flushes, and drains exactly
// pendingRead bytes of response (after stripping the 2 FT245 status bytes
// per IN packet), then clears the pending-read counter.
func (a *MPSSE) readPending() ([]byte, error) {
	if a.pendingRead == 0 {
		return nil, nil
	}
	a.buf = append(a.buf, mpsseCmdSendImmediate)
	if err := a.flush(); err != nil {
		return nil, err
	}

	packetSize := a.link.InPacketSize()
	want := a.pendingRead
	stripped := make([]byte, 0, want)
	for len(stripped) < want {
		// Oversize the raw read request to account for the 2-byte
		// status header FTDI prepends to every IN packet.
		rawLen := (want-len(stripped))/(packetSize-2)*packetSize + packetSize
		raw, err := a.link.BulkRead(rawLen, 500*time.Millisecond)
		if err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			return nil, progress.ErrTimeout
		}
		stripped = append(stripped, usblink.StripFT245Status(raw, packetSize)...)
	}
	a.pendingRead = 0
	return stripped[:want], nil
}
