package xilinx

import (
	"context"
	"time"

	"github.com/OpenTraceLab/jtagblaster/pkg/idcode"
	"github.com/OpenTraceLab/jtagblaster/pkg/idcode/deviceinfo"
	"github.com/OpenTraceLab/jtagblaster/pkg/progress"
	"github.com/OpenTraceLab/jtagblaster/pkg/tap"
)

// 7-series instruction register is 6 bits wide; these are the opcodes the
// programmer issues.
const (
	irLength = 6

	opIDCODE   = 0x09
	opBypass   = 0x3F
	opJProgram = 0x0B
	opCfgIn    = 0x05
	opJStart   = 0x0C
)

const (
	chunkSize      = 4096
	initPollTries  = 100
	initPollDelay  = 10 * time.Millisecond
	memClearCycles = 120_000
	jstartCycles   = 2000
)

// Programmer drives the Xilinx 7-series SRAM configuration sequence
// directly on a tap.Controller, bypassing the SVF layer entirely.
type Programmer struct {
	ctrl     *tap.Controller
	reporter progress.Reporter
}

// NewProgrammer builds a Programmer over ctrl.
func NewProgrammer(ctrl *tap.Controller, reporter progress.Reporter) *Programmer {
	return &Programmer{ctrl: ctrl, reporter: reporter}
}

// Program runs the eleven-step JPROGRAM/CFG_IN/JSTART sequence against
// bf, reporting progress after each major step and returning once DONE
// has been checked (an unset DONE bit is reported but is not itself a Go
// error: the caller decides what an incomplete configuration means).
func (p *Programmer) Program(ctx context.Context, bf *BitFile) (done bool, err error) {
	const steps = 11
	step := 0
	report := func() error {
		step++
		p.reporter.At(step, steps)
		return ctx.Err()
	}

	if err := p.checkCancel(ctx); err != nil {
		return false, err
	}
	p.identify()

	if err := p.ctrl.Reset(); err != nil {
		return false, err
	}
	if err := report(); err != nil {
		return false, p.cancelTeardown(err)
	}

	if err := p.shiftIRConst(opJProgram, false); err != nil {
		return false, err
	}
	if err := report(); err != nil {
		return false, p.cancelTeardown(err)
	}

	if err := p.pollInit(ctx); err != nil {
		return false, err
	}
	if err := report(); err != nil {
		return false, p.cancelTeardown(err)
	}

	if err := p.ctrl.MoveTo(tap.StateRunTestIdle); err != nil {
		return false, err
	}
	if err := p.ctrl.RunTest(memClearCycles, tap.StateRunTestIdle, tap.StateRunTestIdle); err != nil {
		return false, err
	}
	if err := report(); err != nil {
		return false, p.cancelTeardown(err)
	}

	if err := p.shiftIRConst(opCfgIn, false); err != nil {
		return false, err
	}
	if err := report(); err != nil {
		return false, p.cancelTeardown(err)
	}

	if err := p.streamPayload(ctx, bf.Data); err != nil {
		return false, err
	}
	if err := report(); err != nil {
		return false, p.cancelTeardown(err)
	}

	if err := p.ctrl.MoveTo(tap.StateRunTestIdle); err != nil {
		return false, err
	}
	if err := report(); err != nil {
		return false, p.cancelTeardown(err)
	}

	prevEndIR := p.ctrl.Session.EndIRState
	p.ctrl.Session.EndIRState = tap.StateUpdateIR
	err = p.shiftIRConst(opJStart, false)
	p.ctrl.Session.EndIRState = prevEndIR
	if err != nil {
		return false, err
	}
	if err := report(); err != nil {
		return false, p.cancelTeardown(err)
	}

	if err := p.ctrl.RunTest(jstartCycles, tap.StateRunTestIdle, tap.StateRunTestIdle); err != nil {
		return false, err
	}
	if err := report(); err != nil {
		return false, p.cancelTeardown(err)
	}

	if err := p.ctrl.Reset(); err != nil {
		return false, err
	}
	if err := report(); err != nil {
		return false, p.cancelTeardown(err)
	}

	status, err := p.shiftIRConst(opBypass, true)
	if err != nil {
		return false, err
	}
	step++
	p.reporter.At(step, steps)

	done = len(status) > 0 && status[0]&0x20 != 0
	if done {
		p.reporter.Success("xilinx: configuration DONE")
	} else {
		p.reporter.Warn("xilinx: configuration DONE bit not set after JSTART")
	}
	return done, nil
}

// identify issues a non-fatal IDCODE read before JPROGRAM so operators can
// see which device is attached. Failure or an unrecognized manufacturer
// never aborts programming.
func (p *Programmer) identify() {
	tdo, err := p.ctrl.ShiftIR(irLength, []byte{opIDCODE}, true)
	if err != nil {
		p.reporter.Warn("xilinx: idcode read failed: %v", err)
		return
	}
	raw, err := p.ctrl.ShiftDR(32, make([]byte, 4), true)
	if err != nil {
		p.reporter.Warn("xilinx: idcode shift failed: %v", err)
		return
	}
	_ = tdo
	id := idcode.ParseIDCode(leBytesToUint32(raw))
	info := deviceinfo.Lookup(id.Raw)
	if !id.IsXilinx() || info.Name == "Unknown device" {
		p.reporter.Warn("xilinx: %v", &progress.UnknownDeviceError{IDCode: id.Raw})
		return
	}
	p.reporter.Info("xilinx: device idcode %s -> %s (%s)", id, info.Name, info.Family)
}

// pollInit repeatedly reads BYPASS and checks bit 0 (INIT), up to
// initPollTries times with initPollDelay between attempts. A timeout is
// reported as a warning and is not fatal: some devices leave INIT low
// under writes without this actually blocking configuration.
func (p *Programmer) pollInit(ctx context.Context) error {
	for i := 0; i < initPollTries; i++ {
		if err := p.checkCancel(ctx); err != nil {
			return err
		}
		status, err := p.shiftIRConst(opBypass, true)
		if err != nil {
			return err
		}
		if len(status) > 0 && status[0]&0x01 != 0 {
			return nil
		}
		time.Sleep(initPollDelay)
	}
	p.reporter.Warn("xilinx: INIT not asserted after %d polls, proceeding anyway", initPollTries)
	return nil
}

// streamPayload bit-reverses and streams data in chunkSize-byte chunks via
// shift_dr; every chunk but the last ends in SHIFT_DR (the Controller's
// MoveTo naturally re-enters SHIFT_DR via PAUSE/EXIT2 without losing
// shifted bits), the final chunk ends in UPDATE_DR.
func (p *Programmer) streamPayload(ctx context.Context, data []byte) error {
	reversed := ReverseBits(append([]byte(nil), data...))

	prevEndDR := p.ctrl.Session.EndDRState
	defer func() { p.ctrl.Session.EndDRState = prevEndDR }()

	for off := 0; off < len(reversed); off += chunkSize {
		if err := p.checkCancel(ctx); err != nil {
			return err
		}
		end := off + chunkSize
		if end > len(reversed) {
			end = len(reversed)
		}
		chunk := reversed[off:end]
		last := end == len(reversed)
		if last {
			p.ctrl.Session.EndDRState = tap.StateUpdateDR
		} else {
			p.ctrl.Session.EndDRState = tap.StateShiftDR
		}
		if _, err := p.ctrl.ShiftDR(len(chunk)*8, chunk, false); err != nil {
			return err
		}
	}
	return nil
}

func (p *Programmer) shiftIRConst(opcode byte, capture bool) ([]byte, error) {
	return p.ctrl.ShiftIR(irLength, []byte{opcode}, capture)
}

// checkCancel drives the TAP back to RESET and returns ErrCancelled once
// ctx has been cancelled.
func (p *Programmer) checkCancel(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		_ = p.ctrl.Reset()
		return progress.ErrCancelled
	}
	return nil
}

// cancelTeardown drives the TAP back to RESET on cancellation before
// propagating the error.
func (p *Programmer) cancelTeardown(err error) error {
	_ = p.ctrl.Reset()
	if err == context.Canceled || err == context.DeadlineExceeded {
		return progress.ErrCancelled
	}
	return err
}

func leBytesToUint32(b []byte) uint32 {
	var v uint32
	for i := 0; i < 4 && i < len(b); i++ {
		v |= uint32(b[i]) << (8 * i)
	}
	return v
}
