package svf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boljen/go-bitmap"
)

// BitVector is a length-tagged, LSB-first bit string: bit i of the
// logical vector lives at bytes[i/8] >> (i%8) & 1. go-bitmap already
// indexes bits this way, so BitVector is a length-carrying wrapper rather
// than a reimplementation of bit indexing.
type BitVector struct {
	Bits int
	Data []byte
}

// NewBitVector returns a zeroed BitVector of the given bit length.
func NewBitVector(bits int) BitVector {
	return BitVector{Bits: bits, Data: make([]byte, (bits+7)/8)}
}

// Get returns bit i (0-indexed, LSB-first).
func (v BitVector) Get(i int) bool {
	if i/8 >= len(v.Data) {
		return false
	}
	return bitmap.Get(v.Data, i)
}

// Set sets bit i (0-indexed, LSB-first).
func (v *BitVector) Set(i int, b bool) {
	if i/8 >= len(v.Data) {
		return
	}
	bitmap.Set(v.Data, i, b)
}

// ParseHex decodes an SVF hex literal into a BitVector of the given bit
// length: the rightmost two hex characters form byte 0, the next pair
// to the left forms byte 1, and so on. Unused high bits of the final
// byte are masked to zero.
func ParseHex(literal string, bits int) (BitVector, error) {
	digits := stripHexPunctuation(literal)
	v := NewBitVector(bits)
	nbytes := len(v.Data)

	idx := 0
	for end := len(digits); end > 0 && idx < nbytes; end -= 2 {
		start := end - 2
		if start < 0 {
			start = 0
		}
		chunk := digits[start:end]
		b, err := strconv.ParseUint(chunk, 16, 8)
		if err != nil {
			return BitVector{}, fmt.Errorf("svf: invalid hex digits %q: %w", chunk, err)
		}
		v.Data[idx] = byte(b)
		idx++
	}

	if bits%8 != 0 && nbytes > 0 {
		mask := byte((1 << uint(bits%8)) - 1)
		v.Data[nbytes-1] &= mask
	}
	return v, nil
}

// HexString is the inverse of ParseHex: byte 0 becomes the rightmost two
// hex characters, byte 1 the next pair to the left, and so on.
func (v BitVector) HexString() string {
	var sb strings.Builder
	for i := len(v.Data) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%02X", v.Data[i])
	}
	return sb.String()
}

func stripHexPunctuation(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '(', ')', ' ', '\t', '\n', '\r':
			continue
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
