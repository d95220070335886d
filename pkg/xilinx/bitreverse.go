package xilinx

// reverseByteTable is a lookup table rather than a per-call bit
// loop since the Xilinx programmer runs it over the entire configuration
// payload, often several megabytes, once per programming pass.
var reverseByteTable = func() [256]byte {
	var t [256]byte
	for i := 0; i < 256; i++ {
		b := byte(i)
		var r byte
		for bit := 0; bit < 8; bit++ {
			r <<= 1
			r |= b & 1
			b >>= 1
		}
		t[i] = r
	}
	return t
}()

// ReverseBits bit-reverses every byte of data in place and returns it.
// Xilinx .bit payloads are MSB-first per byte; JTAG shifts are LSB-first,
// so every byte must be flipped before it reaches tap.Controller.ShiftDR.
func ReverseBits(data []byte) []byte {
	for i, b := range data {
		data[i] = reverseByteTable[b]
	}
	return data
}
