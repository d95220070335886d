package tap

import (
	"fmt"

	"github.com/OpenTraceLab/jtagblaster/pkg/adapter"
)

// Controller owns an Adapter and a SessionState, and implements the
// TAP engine's move_to, shift_ir, shift_dr, run_test and reset
// operations. The StateMachine it wraps never observes the adapter or
// the session state; Controller is the only thing that touches both,
// preserving the invariant that adapter code never observes TAP state
// directly.
type Controller struct {
	sm      *StateMachine
	adapter adapter.Adapter
	Session *SessionState
}

// NewController constructs a Controller in Test-Logic-Reset, owning a.
func NewController(a adapter.Adapter) *Controller {
	return &Controller{
		sm:      NewStateMachine(),
		adapter: a,
		Session: NewSessionState(),
	}
}

// State reports the TAP state the Controller believes the hardware is in.
func (c *Controller) State() State {
	return c.sm.State()
}

// Reset drives at least 5 TMS=1 cycles to force Test-Logic-Reset, then one
// TMS=0 cycle to Run-Test/Idle, in a single Shift call.
func (c *Controller) Reset() error {
	seq := c.sm.Reset()
	c.sm.Clock(false)

	tmsBits := append(append([]bool{}, seq.TMS...), false)
	tms := boolsToBytes(tmsBits)
	tdi := make([]byte, len(tms))
	if _, err := c.adapter.Shift(tdi, tms, len(tmsBits), false); err != nil {
		return err
	}
	return nil
}

// MoveTo drives the minimum TMS path from the current state to target,
// via a single Adapter.Shift with TDI held at 0.
func (c *Controller) MoveTo(target State) error {
	path, err := c.sm.GoTo(target)
	if err != nil {
		return err
	}
	if len(path.TMS) == 0 {
		return nil
	}
	tms := boolsToBytes(path.TMS)
	tdi := make([]byte, len(tms))
	_, err = c.adapter.Shift(tdi, tms, len(path.TMS), false)
	return err
}

// ShiftIR performs the five-step shift_ir sequence against the installed
// HIR/TIR header/trailer and the session's end-IR state.
func (c *Controller) ShiftIR(length int, tdi []byte, capture bool) ([]byte, error) {
	return c.shiftRegister(StateShiftIR, c.Session.EndIRState, c.Session.HIR, c.Session.TIR, length, tdi, capture)
}

// ShiftDR performs the five-step shift_dr sequence against the installed
// HDR/TDR header/trailer and the session's end-DR state.
func (c *Controller) ShiftDR(length int, tdi []byte, capture bool) ([]byte, error) {
	return c.shiftRegister(StateShiftDR, c.Session.EndDRState, c.Session.HDR, c.Session.TDR, length, tdi, capture)
}

// RunTest moves to run_state, clocks cycles TCK edges with TMS=0/TDI=0,
// then moves to end_state if the TAP is not already there. run_state must
// be one of the stable states. Clocking TCK with TMS held at 0 leaves the
// TAP in place in every stable state except Test-Logic-Reset, which it
// leaves for Run-Test/Idle; the tracked state follows that move.
func (c *Controller) RunTest(cycles int, runState, endState State) error {
	if !IsStable(runState) {
		return fmt.Errorf("tap: run_test state %s is not stable", runState)
	}
	if err := c.MoveTo(runState); err != nil {
		return err
	}
	if err := c.adapter.ToggleClock(cycles); err != nil {
		return err
	}
	if runState == StateTestLogicReset && cycles > 0 {
		c.sm.Clock(false)
	}
	return c.MoveTo(endState)
}

// shiftRegister is the shared implementation behind ShiftIR/ShiftDR. It
// combines header, payload and trailer into a single bit vector: TMS=0
// throughout except the very last bit (trailer's if installed, else
// payload's), which exits SHIFT to the corresponding EXIT1 state, all in
// one Shift call, then moves on to the configured end state.
func (c *Controller) shiftRegister(selectState, endState State, header, trailer HeaderTrailer, payloadLen int, payloadTDI []byte, capture bool) ([]byte, error) {
	if err := c.MoveTo(selectState); err != nil {
		return nil, err
	}

	headerLen := header.Length
	parts := make([][]byte, 0, 3)
	lens := make([]int, 0, 3)
	if headerLen > 0 {
		parts = append(parts, header.TDI)
		lens = append(lens, headerLen)
	}
	parts = append(parts, payloadTDI)
	lens = append(lens, payloadLen)
	if trailer.Length > 0 {
		parts = append(parts, trailer.TDI)
		lens = append(lens, trailer.Length)
	}

	combinedTDI, total := concatBits(parts, lens)
	combinedTMS := make([]byte, (total+7)/8)
	if total > 0 {
		adapter.SetBit(combinedTMS, total-1, true)
	}

	tdo, err := c.adapter.Shift(combinedTDI, combinedTMS, total, capture)
	if err != nil {
		return nil, err
	}

	// The combined shift is TMS=0 throughout SHIFT except the final bit,
	// which always transitions SHIFT -> EXIT1 regardless of how many bits
	// preceded it.
	c.sm.state = NextState(selectState, true)

	if err := c.MoveTo(endState); err != nil {
		return nil, err
	}

	if !capture {
		return nil, nil
	}

	payloadTDO := make([]byte, (payloadLen+7)/8)
	for i := 0; i < payloadLen; i++ {
		if adapter.GetBit(tdo, headerLen+i) {
			adapter.SetBit(payloadTDO, i, true)
		}
	}
	return payloadTDO, nil
}

// concatBits packs the given bit vectors end to end, LSB-first, into one
// length-tagged byte vector.
func concatBits(parts [][]byte, lens []int) ([]byte, int) {
	total := 0
	for _, l := range lens {
		total += l
	}
	out := make([]byte, (total+7)/8)
	off := 0
	for i, l := range lens {
		for b := 0; b < l; b++ {
			if adapter.GetBit(parts[i], b) {
				adapter.SetBit(out, off+b, true)
			}
		}
		off += l
	}
	return out, total
}

func boolsToBytes(bits []bool) []byte {
	if len(bits) == 0 {
		return nil
	}
	buf := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			buf[i/8] |= 1 << (uint(i) % 8)
		}
	}
	return buf
}
