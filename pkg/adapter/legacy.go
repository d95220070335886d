package adapter

import (
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/OpenTraceLab/jtagblaster/pkg/progress"
	"github.com/OpenTraceLab/jtagblaster/pkg/usblink"
)

// Legacy wire-level byte layout. Base value 0x2C keeps the USB-Blaster's
// chip-select lines high across every bit-bang byte.
const (
	legacyBase        byte = 0x2C
	legacyBitTCK      byte = 0x01
	legacyBitTMS      byte = 0x02
	legacyBitTDI      byte = 0x10
	legacyBitReadEn   byte = 0x40
	legacyByteShiftOp byte = 0x80
	legacyMaxRunBytes      = 0x3F // N field of 0x80|N is 6 bits: 1..63

	// maxLegacyCaptureBits bounds how large a capture=true request this
	// adapter will honor via the bit-bang read path. The FT245 bulk read
	// path is unreliable at scale; state-interrogation-sized reads (a
	// handful of status bits) are fine. Anything larger returns
	// ErrNotSupported rather than risking silently wrong data.
	maxLegacyCaptureBits = 32
)

// legacyLink is the subset of *usblink.Link that Legacy drives. Narrowing
// it to an interface lets tests substitute a fake link and assert on the
// exact bytes the byte-shift/bit-bang encoders produce without opening a
// real USB device.
type legacyLink interface {
	BulkWrite(buf []byte) error
	BulkRead(maxLen int, timeout time.Duration) ([]byte, error)
	InPacketSize() int
	ResetDevice() error
	PurgeRX() error
	PurgeTX() error
	SetLatencyTimer(ms uint8) error
	Close() error
}

// Legacy is the USB-Blaster family bit-bang/byte-shift adapter.
type Legacy struct {
	link legacyLink
	log  progress.LogFunc
}

// NewLegacy opens the USB-Blaster device and runs its init sequence:
// full reset, purge RX, purge TX, 2ms latency timer, drain residual IN
// bytes, ~2000-cycle TMS=1 flush to guarantee RESET.
func NewLegacy(log progress.LogFunc) (*Legacy, error) {
	if log == nil {
		log = progress.NoopLog
	}
	link, err := usblink.Open(usblink.VendorLegacy, usblink.ProductLegacy)
	if err != nil {
		return nil, err
	}
	a := &Legacy{link: link, log: log}
	if err := a.init(); err != nil {
		link.Close()
		return nil, err
	}
	return a, nil
}

func (a *Legacy) init() error {
	// A NAKed reset is not necessarily fatal — the device is sometimes
	// fine anyway — so these are warnings, not aborts.
	if err := a.link.ResetDevice(); err != nil {
		a.log(progress.LevelWarning, "legacy adapter: reset request failed: "+err.Error())
	}
	if err := a.link.PurgeRX(); err != nil {
		a.log(progress.LevelWarning, "legacy adapter: purge rx failed: "+err.Error())
	}
	if err := a.link.PurgeTX(); err != nil {
		a.log(progress.LevelWarning, "legacy adapter: purge tx failed: "+err.Error())
	}
	if err := a.link.SetLatencyTimer(2); err != nil {
		a.log(progress.LevelWarning, "legacy adapter: set latency timer failed: "+err.Error())
	}
	// Drain whatever is sitting in the IN FIFO from a previous session.
	_, _ = a.link.BulkRead(4096, 50*time.Millisecond)

	// Force the TAP into RESET regardless of its prior state.
	if err := a.ToggleTMSOnes(2000); err != nil {
		return err
	}
	return nil
}

// ToggleTMSOnes clocks n TCK edges with TMS=1, TDI=0 via bit-bang. It is
// used only during init, before the TAP Engine exists to ask for a proper
// Reset() through the normal Shift path.
func (a *Legacy) ToggleTMSOnes(n int) error {
	buf := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		buf = append(buf, a.bangByte(false, true, false, false), a.bangByte(false, true, true, false))
	}
	return a.link.BulkWrite(buf)
}

func (a *Legacy) bangByte(tdi, tms, tck, read bool) byte {
	b := legacyBase
	if tms {
		b |= legacyBitTMS
	}
	if tdi {
		b |= legacyBitTDI
	}
	if tck {
		b |= legacyBitTCK
	}
	if read {
		b |= legacyBitReadEn
	}
	return b
}

// Info reports static capabilities of the USB-Blaster legacy adapter.
func (a *Legacy) Info() Info {
	return Info{
		Name:         "USB-Blaster (legacy FT245)",
		Vendor:       "Altera",
		Model:        "USB-Blaster",
		MinFrequency: 1 * physic.KiloHertz,
		MaxFrequency: 6 * physic.MegaHertz,
	}
}

// Close releases the underlying USB link.
func (a *Legacy) Close() error { return a.link.Close() }

// Shift implements Adapter.Shift for the legacy bit-bang/byte-shift
// adapter.
func (a *Legacy) Shift(tdi, tms []byte, nBits int, capture bool) ([]byte, error) {
	if _, err := ValidateShiftBuffers(tdi, tms, nBits); err != nil {
		return nil, err
	}

	if capture {
		if nBits > maxLegacyCaptureBits {
			return nil, ErrNotSupported
		}
		return a.bitbangRun(tdi, tms, nBits, true)
	}

	tdoTotal := []byte(nil)
	i := 0
	for i < nBits {
		if i%8 == 0 && i+8 <= nBits && tmsByteIsZero(tms, i) {
			n := countZeroTMSBytes(tms, i, nBits)
			chunk := tdi[i/8 : i/8+n]
			if err := a.shiftBytesFast(chunk); err != nil {
				return nil, err
			}
			i += n * 8
			continue
		}
		if _, err := a.bitbangRun(sliceBit(tdi, i), sliceBit(tms, i), 1, false); err != nil {
			return nil, err
		}
		i++
	}
	return tdoTotal, nil
}

// ShiftBytes implements Adapter.ShiftBytes: stream full bytes through
// byte-shift mode (TMS held at 0 throughout, including the final bit's
// first clock), then re-clock the final bit alone via bit-bang with TMS=1
// to perform the actual SHIFT-state exit.
func (a *Legacy) ShiftBytes(tdi []byte, nBits int) error {
	if _, err := ValidateShiftBuffers(tdi, nil, nBits); err != nil {
		return err
	}
	nBytes := (nBits + 7) / 8
	if err := a.shiftBytesFast(tdi[:nBytes]); err != nil {
		return err
	}
	lastBit := GetBit(tdi, nBits-1)
	_, err := a.bitbangRun(boolVec(lastBit), boolVec(true), 1, false)
	return err
}

// ToggleClock implements Adapter.ToggleClock: one bit-bang anchor byte,
// then byte-shift of zeros for ceil(cycles/8) bytes.
func (a *Legacy) ToggleClock(cycles int) error {
	if cycles <= 0 {
		return nil
	}
	zeros := make([]byte, (cycles+7)/8)
	return a.shiftBytesFastN(zeros, cycles)
}

// shiftBytesFast emits the anchor byte followed by one or more byte-shift
// commands covering every byte of chunk.
func (a *Legacy) shiftBytesFast(chunk []byte) error {
	return a.shiftBytesFastN(chunk, len(chunk)*8)
}

// shiftBytesFastN is shiftBytesFast with a logical bit count argument,
// which it ignores: every byte of chunk is sent in full, so when
// ToggleClock's cycles is not a multiple of 8 the trailing partial byte
// still clocks all 8 bits (the adapter contract for ToggleClock has no
// TMS exit to get wrong).
func (a *Legacy) shiftBytesFastN(chunk []byte, _ int) error {
	if len(chunk) == 0 {
		return nil
	}
	buf := []byte{a.bangByte(false, false, false, false)} // anchor: TMS=0, TCK=0
	for off := 0; off < len(chunk); off += legacyMaxRunBytes {
		end := off + legacyMaxRunBytes
		if end > len(chunk) {
			end = len(chunk)
		}
		sub := chunk[off:end]
		buf = append(buf, legacyByteShiftOp|byte(len(sub)))
		buf = append(buf, sub...)
	}
	return a.link.BulkWrite(buf)
}

// bitbangRun shifts n bits via the two-byte-per-edge bit-bang protocol in
// one batched USB write (and, if capture is requested, one batched read).
func (a *Legacy) bitbangRun(tdi, tms []byte, n int, capture bool) ([]byte, error) {
	buf := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		tdiBit := GetBit(tdi, i)
		tmsBit := GetBit(tms, i)
		buf = append(buf, a.bangByte(tdiBit, tmsBit, false, false))
		buf = append(buf, a.bangByte(tdiBit, tmsBit, true, capture))
	}
	if err := a.link.BulkWrite(buf); err != nil {
		return nil, err
	}
	if !capture {
		return nil, nil
	}

	packetSize := a.link.InPacketSize()
	raw, err := a.link.BulkRead(n+2*((n/62)+1), 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	stripped := usblink.StripFT245Status(raw, packetSize)

	tdo := make([]byte, (n+7)/8)
	for i := 0; i < n && i < len(stripped); i++ {
		SetBit(tdo, i, stripped[i]&0x01 == 0x01)
	}
	return tdo, nil
}

func tmsByteIsZero(tms []byte, bitOffset int) bool {
	for b := 0; b < 8; b++ {
		if GetBit(tms, bitOffset+b) {
			return false
		}
	}
	return true
}

func countZeroTMSBytes(tms []byte, start, nBits int) int {
	n := 0
	for start+(n+1)*8 <= nBits && tmsByteIsZero(tms, start+n*8) {
		n++
	}
	return n
}

// sliceBit returns a 1-bit length-tagged vector holding bit i of buf.
func sliceBit(buf []byte, i int) []byte { return boolVec(GetBit(buf, i)) }

func boolVec(b bool) []byte {
	v := []byte{0}
	SetBit(v, 0, b)
	return v
}
