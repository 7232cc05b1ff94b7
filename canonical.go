package hashsafe

import (
	"encoding/binary"
	"math"
)

// Canonical bit patterns for NaN. Every NaN input, whatever its sign bit or
// mantissa payload, collapses to these before hashing or comparison, so two
// NaNs always hash equal and compare equal under the resistant strategies.
const (
	canonicalNaN64 = 0x7ff8000000000000
	canonicalNaN32 = 0x7fc00000
)

// canonicalFloat64Bits maps a float64 to its canonical bit representation:
// one NaN pattern for all NaNs, +0 for both zeros, raw bits otherwise.
func canonicalFloat64Bits(f float64) uint64 {
	if f != f {
		return canonicalNaN64
	}
	if f == 0 {
		return 0
	}
	return math.Float64bits(f)
}

// canonicalFloat32Bits is the 32-bit counterpart of canonicalFloat64Bits.
func canonicalFloat32Bits(f float32) uint32 {
	if f != f {
		return canonicalNaN32
	}
	if f == 0 {
		return 0
	}
	return math.Float32bits(f)
}

// int64Bytes writes the full-width two's-complement representation of v.
// Narrower integer widths are widened to 64 bits before encoding; the hash
// always covers all eight bytes. Folding high and low halves together (a
// common shortcut) is exactly the collision vector this package defends
// against.
func int64Bytes(buf *[8]byte, v int64) {
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
}

// uint64Bytes writes the full-width representation of v.
func uint64Bytes(buf *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(buf[:], v)
}

// uint32Bytes writes the four-byte representation of v.
func uint32Bytes(buf *[4]byte, v uint32) {
	binary.LittleEndian.PutUint32(buf[:], v)
}

// boolByte encodes a boolean as a single byte.
func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
