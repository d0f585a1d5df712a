package canrt

import "math"

// Linear-bit load/store helpers used by generated accessors. Ranges are
// [start, end) in a bit space of len(data)*8 bits, as resolved at
// generation time.
//
// Little-endian ranges index bits LSB-first within each byte (Intel
// packing); big-endian ranges index bits MSB-first within each byte
// (Motorola packing), so the first bit of a big-endian range is the most
// significant bit of the loaded value.

// RoundS converts a scaled physical intermediate to its nearest signed
// raw value. Truncating toward zero would encode an exactly
// representable physical value one raw step low (0.3 at factor 0.1
// divides to 2.999...96), breaking encode/decode round trips.
func RoundS(v float64) int64 {
	return int64(math.Round(v))
}

// RoundU converts a scaled physical intermediate to its nearest
// unsigned raw value.
func RoundU(v float64) uint64 {
	return uint64(math.Round(v))
}

// LoadLE extracts the unsigned value of a little-endian bit range.
func LoadLE(data []byte, start, end uint64) uint64 {
	var value uint64
	for i := uint64(0); start+i < end; i++ {
		pos := start + i
		byteIdx := pos / 8
		if byteIdx >= uint64(len(data)) {
			break
		}
		bit := (data[byteIdx] >> (pos % 8)) & 1
		value |= uint64(bit) << i
	}

	return value
}

// StoreLE packs the low end-start bits of value into a little-endian bit
// range, leaving all bits outside the range untouched.
func StoreLE(data []byte, start, end, value uint64) {
	for i := uint64(0); start+i < end; i++ {
		pos := start + i
		byteIdx := pos / 8
		if byteIdx >= uint64(len(data)) {
			break
		}
		mask := byte(1) << (pos % 8)
		if value&(1<<i) != 0 {
			data[byteIdx] |= mask
		} else {
			data[byteIdx] &^= mask
		}
	}
}

// LoadBE extracts the unsigned value of a big-endian bit range.
func LoadBE(data []byte, start, end uint64) uint64 {
	var value uint64
	for pos := start; pos < end; pos++ {
		byteIdx := pos / 8
		if byteIdx >= uint64(len(data)) {
			break
		}
		bit := (data[byteIdx] >> (7 - pos%8)) & 1
		value = value<<1 | uint64(bit)
	}

	return value
}

// StoreBE packs the low end-start bits of value into a big-endian bit
// range, leaving all bits outside the range untouched.
func StoreBE(data []byte, start, end, value uint64) {
	width := end - start
	for i := uint64(0); i < width; i++ {
		pos := start + i
		byteIdx := pos / 8
		if byteIdx >= uint64(len(data)) {
			break
		}
		mask := byte(1) << (7 - pos%8)
		if value&(1<<(width-1-i)) != 0 {
			data[byteIdx] |= mask
		} else {
			data[byteIdx] &^= mask
		}
	}
}
