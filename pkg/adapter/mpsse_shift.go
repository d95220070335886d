package adapter

// Shift implements Adapter.Shift for MPSSE: the body (full bytes) and
// residual (0..7 bits) of all but the last bit are sent
// via the LSB-first byte/bit data commands with TMS implicitly 0; the
// final bit is always sent via the TMS command, which carries TDI in data
// bit 7 and the TMS value in data bit 0. This matches how pkg/tap always
// calls Shift: every bit is TMS=0 except, at most, the last.
func (a *MPSSE) Shift(tdi, tms []byte, nBits int, capture bool) ([]byte, error) {
	if _, err := ValidateShiftBuffers(tdi, tms, nBits); err != nil {
		return nil, err
	}

	bodyBits := nBits - 1
	fullBytes := bodyBits / 8
	residual := bodyBits % 8

	haveBody := fullBytes > 0
	haveResidual := residual > 0

	if haveBody {
		a.append(byteWriteOpcode(capture), byte((fullBytes-1)&0xFF), byte((fullBytes-1)>>8))
		a.append(tdi[:fullBytes]...)
		if capture {
			a.pendingRead += fullBytes
		}
	}
	if haveResidual {
		residualByte := packBits(tdi, fullBytes*8, residual)
		a.append(bitWriteOpcode(capture), byte(residual-1), residualByte)
		if capture {
			a.pendingRead++
		}
	}

	lastBit := GetBit(tdi, nBits-1)
	lastTMS := GetBit(tms, nBits-1)
	tmsData := boolToBit(lastTMS)
	if lastBit {
		tmsData |= 0x80
	}
	a.append(tmsOpcode(capture), 0x00, tmsData)
	if capture {
		a.pendingRead++
	}

	if !capture {
		return nil, nil
	}

	raw, err := a.readPending()
	if err != nil {
		return nil, err
	}

	tdo := make([]byte, (nBits+7)/8)
	idx := 0
	if haveBody {
		copy(tdo, raw[idx:idx+fullBytes])
		idx += fullBytes
	}
	if haveResidual {
		// residual bits arrive right-justified in the response byte.
		b := raw[idx] >> uint(8-residual)
		idx++
		for i := 0; i < residual; i++ {
			SetBit(tdo, fullBytes*8+i, (b>>uint(i))&1 == 1)
		}
	}
	// TMS-read bit arrives in bit 7 of the final response byte.
	SetBit(tdo, nBits-1, raw[idx]&0x80 != 0)
	return tdo, nil
}

// ShiftBytes implements Adapter.ShiftBytes for MPSSE: delegate to Shift,
// which already handles the TMS=0-except-last-bit pattern this method
// exists to describe.
func (a *MPSSE) ShiftBytes(tdi []byte, nBits int) error {
	tms := make([]byte, (nBits+7)/8)
	SetBit(tms, nBits-1, true)
	_, err := a.Shift(tdi, tms, nBits, false)
	return err
}

// ToggleClock implements Adapter.ToggleClock: byte-mode clock-only for
// multiples of 8, bit-mode clock-only for the remainder.
func (a *MPSSE) ToggleClock(cycles int) error {
	if cycles <= 0 {
		return nil
	}
	fullBytes := cycles / 8
	residual := cycles % 8
	if fullBytes > 0 {
		a.append(mpsseCmdClockBytesNoData, byte((fullBytes-1)&0xFF), byte((fullBytes-1)>>8))
	}
	if residual > 0 {
		a.append(mpsseCmdClockBitsNoData, byte(residual-1))
	}
	return a.flush()
}

// packBits packs n bits (LSB-first) of buf starting at bit offset start
// into a single byte, LSB-first (bit 0 of the result is buf bit `start`).
func packBits(buf []byte, start, n int) byte {
	var b byte
	for i := 0; i < n; i++ {
		if GetBit(buf, start+i) {
			b |= 1 << uint(i)
		}
	}
	return b
}

func boolToBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}
