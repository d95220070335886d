// Package usblink is the USB Link of the JTAG transport stack: it opens and
// configures the USB device, performs bulk transfers and the FTDI vendor
// control transfers, and is otherwise stateless with respect to JTAG. No
// adapter in pkg/adapter talks to libusb directly; everything goes through
// a Link.
package usblink

import (
	"context"
	"time"

	"github.com/google/gousb"

	"github.com/OpenTraceLab/jtagblaster/pkg/progress"
)

// VID/PID pairs for the two supported adapter families.
const (
	VendorLegacy  = 0x09FB
	ProductLegacy = 0x6001

	VendorFTDI    = 0x0403
	ProductFT2232 = 0x6010
	ProductFT232H = 0x6014
	ProductFT4232 = 0x6011
)

// FTDI vendor request codes and bRequest values used by both adapter
// families.
const (
	reqReset         = 0x00
	reqSetBaudRate    = 0x03
	reqSetLatency    = 0x09
	reqSetBitMode    = 0x0B

	resetFull  = 0x0000
	resetPurgeRX = 0x0001
	resetPurgeTX = 0x0002
)

const (
	requestTypeVendorOut = 0x40 // host-to-device | vendor | device
)

// DefaultWriteTimeout is the default bulk OUT timeout.
const DefaultWriteTimeout = 2 * time.Second

// Link owns one open FTDI-family USB device for the lifetime of a session.
// It is not safe for concurrent use from multiple goroutines: all JTAG
// activity on a single adapter is inherently serial.
type Link struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	intf *gousb.Interface

	out *gousb.OutEndpoint
	in  *gousb.InEndpoint

	writeTimeout time.Duration
}

// Open finds the first device matching vid/pid, claims interface 0 and
// locates its bulk endpoints.
func Open(vid, pid uint16) (*Link, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, progress.NewTransferError("control", "open device", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, progress.ErrDeviceNotFound
	}

	// Not fatal on platforms where the kernel driver is already detached.
	_ = dev.SetAutoDetach(true)

	l := &Link{ctx: ctx, dev: dev, writeTimeout: DefaultWriteTimeout}

	if err := l.claim(); err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}

	return l, nil
}

func (l *Link) claim() error {
	cfg, err := l.dev.Config(1)
	if err != nil {
		return progress.NewTransferError("control", "get config", err)
	}

	intf, err := cfg.Interface(0, 0)
	if err != nil {
		return progress.NewTransferError("control", "claim interface 0", err)
	}
	l.intf = intf

	setting := intf.Setting
	var outAddr, inAddr int
	for _, ep := range setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		if ep.Direction == gousb.EndpointDirectionOut {
			outAddr = ep.Number
		} else if ep.Direction == gousb.EndpointDirectionIn {
			inAddr = ep.Number
		}
	}
	if outAddr == 0 || inAddr == 0 {
		intf.Close()
		return progress.ErrEndpointsMissing
	}

	out, err := intf.OutEndpoint(outAddr)
	if err != nil {
		intf.Close()
		return progress.NewTransferError("out", "open out endpoint", err)
	}
	in, err := intf.InEndpoint(inAddr)
	if err != nil {
		intf.Close()
		return progress.NewTransferError("in", "open in endpoint", err)
	}
	l.out, l.in = out, in
	return nil
}

// Close releases the interface, device and USB context.
func (l *Link) Close() error {
	if l.intf != nil {
		l.intf.Close()
		l.intf = nil
	}
	if l.dev != nil {
		l.dev.Close()
		l.dev = nil
	}
	if l.ctx != nil {
		l.ctx.Close()
		l.ctx = nil
	}
	return nil
}

// SetWriteTimeout overrides the default 2s bulk OUT timeout.
func (l *Link) SetWriteTimeout(d time.Duration) { l.writeTimeout = d }

// BulkWrite writes the full contents of buf to the bulk OUT endpoint within
// the configured write timeout.
func (l *Link) BulkWrite(buf []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), l.writeTimeout)
	defer cancel()
	n, err := l.out.WriteContext(ctx, buf)
	if err != nil {
		if ctx.Err() != nil {
			return progress.ErrTimeout
		}
		return progress.NewTransferError("out", "bulk write", err)
	}
	if n != len(buf) {
		return progress.NewTransferError("out", "short bulk write", nil)
	}
	return nil
}

// BulkRead reads up to maxLen bytes from the bulk IN endpoint, waiting at
// most timeout. It returns whatever bytes arrived even on a timeout,
// matching FTDI's best-effort draining behavior for byte-shift pacing.
func (l *Link) BulkRead(maxLen int, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	buf := make([]byte, maxLen)
	n, err := l.in.ReadContext(ctx, buf)
	if err != nil && ctx.Err() == nil {
		return nil, progress.NewTransferError("in", "bulk read", err)
	}
	return buf[:n], nil
}

// StripFT245Status removes the leading 2-byte FTDI modem/line-status header
// that prefixes every IN packet from an FT245-style endpoint, including
// packets with no payload. in is processed per packetSize-byte packet
// boundary, since FTDI prepends the header to each USB packet, not to the
// logical read as a whole.
func StripFT245Status(in []byte, packetSize int) []byte {
	if packetSize <= 2 {
		packetSize = 64
	}
	out := make([]byte, 0, len(in))
	for off := 0; off < len(in); off += packetSize {
		end := off + packetSize
		if end > len(in) {
			end = len(in)
		}
		chunk := in[off:end]
		if len(chunk) > 2 {
			out = append(out, chunk[2:]...)
		}
	}
	return out
}

// controlOut issues an FTDI vendor OUT control request.
func (l *Link) controlOut(request uint8, value, index uint16) error {
	_, err := l.dev.Control(requestTypeVendorOut, request, value, index, nil)
	if err != nil {
		return progress.NewTransferError("control", "vendor request", err)
	}
	return nil
}

// ResetDevice issues a full FTDI reset.
func (l *Link) ResetDevice() error { return l.controlOut(reqReset, resetFull, 0) }

// PurgeRX flushes the receive FIFO.
func (l *Link) PurgeRX() error { return l.controlOut(reqReset, resetPurgeRX, 0) }

// PurgeTX flushes the transmit FIFO.
func (l *Link) PurgeTX() error { return l.controlOut(reqReset, resetPurgeTX, 0) }

// SetLatencyTimer sets the FTDI latency timer in milliseconds.
func (l *Link) SetLatencyTimer(ms uint8) error {
	return l.controlOut(reqSetLatency, uint16(ms), 0)
}

// BitMode is the FTDI bitmode value (legacy bit-bang, MPSSE, ...).
type BitMode uint8

const (
	BitModeReset    BitMode = 0x00
	BitModeBitBang  BitMode = 0x01
	BitModeMPSSE    BitMode = 0x02
)

// SetBitMode sets the chip's bit mode and output pin mask in one vendor
// request: wValue = (mode<<8)|outputMask.
func (l *Link) SetBitMode(mode BitMode, outputMask uint8) error {
	value := uint16(mode)<<8 | uint16(outputMask)
	return l.controlOut(reqSetBitMode, value, 0)
}

// InPacketSize reports the negotiated maximum packet size of the bulk IN
// endpoint, needed by StripFT245Status to find packet boundaries.
func (l *Link) InPacketSize() int {
	if l.in == nil {
		return 64
	}
	return l.in.Desc.MaxPacketSize
}
