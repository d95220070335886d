package adapter

import (
	"periph.io/x/conn/v3/physic"

	"github.com/OpenTraceLab/jtagblaster/pkg/progress"
)

// ShiftHook lets a test configure deterministic TDO data for a Sim
// adapter by overriding what a given Shift call returns.
type ShiftHook func(tdi, tms []byte, nBits int, capture bool) ([]byte, error)

// ShiftCall records one Shift invocation for inspection in tests.
type ShiftCall struct {
	TDI     []byte
	TMS     []byte
	NBits   int
	Capture bool
}

// Sim is an in-memory Adapter useful for unit tests and for running without
// hardware attached. By default it echoes TDI back as TDO, which is enough
// to exercise pkg/tap and pkg/svf deterministically; OnShift overrides that
// for tests that need specific TDO content (e.g. a fabricated IDCODE).
type Sim struct {
	InfoData Info
	OnShift  ShiftHook

	lastShift   ShiftCall
	shiftCount  int
	toggleCount int
	closed      bool
}

// NewSim constructs a simulator adapter reporting the given Info.
func NewSim(info Info) *Sim {
	if info.Name == "" {
		info.Name = "JTAG Simulator"
	}
	if info.MaxFrequency == 0 {
		info.MaxFrequency = 10 * physic.MegaHertz
	}
	return &Sim{InfoData: info}
}

// LastShift returns a copy of the most recent Shift call, for assertions.
func (s *Sim) LastShift() ShiftCall {
	return ShiftCall{
		TDI:     append([]byte(nil), s.lastShift.TDI...),
		TMS:     append([]byte(nil), s.lastShift.TMS...),
		NBits:   s.lastShift.NBits,
		Capture: s.lastShift.Capture,
	}
}

// Counts reports how many Shift and ToggleClock calls have been made.
func (s *Sim) Counts() (shifts, toggles int) {
	return s.shiftCount, s.toggleCount
}

func (s *Sim) Info() Info { return s.InfoData }

func (s *Sim) Shift(tdi, tms []byte, nBits int, capture bool) ([]byte, error) {
	if s.closed {
		return nil, progress.ErrNotConnected
	}
	if _, err := ValidateShiftBuffers(tdi, tms, nBits); err != nil {
		return nil, err
	}
	s.shiftCount++
	s.lastShift = ShiftCall{
		TDI:     append([]byte(nil), tdi...),
		TMS:     append([]byte(nil), tms...),
		NBits:   nBits,
		Capture: capture,
	}
	if s.OnShift != nil {
		return s.OnShift(tdi, tms, nBits, capture)
	}
	if !capture {
		return nil, nil
	}
	tdo := make([]byte, (nBits+7)/8)
	copy(tdo, tdi)
	return tdo, nil
}

func (s *Sim) ShiftBytes(tdi []byte, nBits int) error {
	tms := make([]byte, (nBits+7)/8)
	SetBit(tms, nBits-1, true)
	_, err := s.Shift(tdi, tms, nBits, false)
	return err
}

func (s *Sim) ToggleClock(cycles int) error {
	if s.closed {
		return progress.ErrNotConnected
	}
	s.toggleCount++
	return nil
}

func (s *Sim) Close() error {
	s.closed = true
	return nil
}
