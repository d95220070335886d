package xilinx

import (
	"encoding/binary"
	"fmt"
)

// BitFile is a parsed Xilinx .bit file: the tagged design metadata fields
// plus the raw configuration payload.
type BitFile struct {
	DesignName string
	DeviceName string
	Date       string
	Time       string
	Data       []byte
}

// ParseBitFile decodes a Xilinx .bit file: a 2-byte big-endian header
// length, that many bytes of header plus 2 more to skip, then tagged
// fields 'a'-'d' (2-byte big-endian length + NUL-terminated string) and
// 'e' (4-byte big-endian length + raw payload). A file that is just the
// raw payload with no header is also accepted.
func ParseBitFile(raw []byte) (*BitFile, error) {
	if len(raw) < 2 {
		return &BitFile{Data: append([]byte(nil), raw...)}, nil
	}

	headerLen := int(binary.BigEndian.Uint16(raw[0:2]))
	off := 2 + headerLen + 2
	if off > len(raw) || headerLen == 0 {
		// Not a recognizable tagged header; treat the whole file as
		// payload rather than failing outright.
		return &BitFile{Data: append([]byte(nil), raw...)}, nil
	}

	bf := &BitFile{}
	for off < len(raw) {
		tag := raw[off]
		off++
		switch tag {
		case 'a', 'b', 'c', 'd':
			if off+2 > len(raw) {
				return nil, fmt.Errorf("xilinx: truncated tag %q length", tag)
			}
			fieldLen := int(binary.BigEndian.Uint16(raw[off : off+2]))
			off += 2
			if off+fieldLen > len(raw) {
				return nil, fmt.Errorf("xilinx: truncated tag %q payload", tag)
			}
			s := trimNUL(raw[off : off+fieldLen])
			off += fieldLen
			switch tag {
			case 'a':
				bf.DesignName = s
			case 'b':
				bf.DeviceName = s
			case 'c':
				bf.Date = s
			case 'd':
				bf.Time = s
			}
		case 'e':
			if off+4 > len(raw) {
				return nil, fmt.Errorf("xilinx: truncated tag 'e' length")
			}
			dataLen := int(binary.BigEndian.Uint32(raw[off : off+4]))
			off += 4
			if off+dataLen > len(raw) {
				dataLen = len(raw) - off
			}
			bf.Data = append([]byte(nil), raw[off:off+dataLen]...)
			off += dataLen
		default:
			return nil, fmt.Errorf("xilinx: unrecognized bit file tag %q at offset %d", tag, off-1)
		}
	}

	if bf.Data == nil {
		return nil, fmt.Errorf("xilinx: bit file has no 'e' (payload) tag")
	}
	return bf, nil
}

func trimNUL(b []byte) string {
	if n := len(b); n > 0 && b[n-1] == 0 {
		b = b[:n-1]
	}
	return string(b)
}
