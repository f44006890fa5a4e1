// Package simd defines the narrow, portable vector vocabulary the
// prefilter and scoring engine are built on (spec.md §4.1): 128- and
// 256-bit lanes over u8/u16 elements, broadcast, partial load,
// shift-with-carry, horizontal max and find-first-equal.
//
// The teacher (github.com/junegunn/fzf) never ships real CPU-intrinsic
// SIMD: its "vectorization" is SWAR (SIMD-within-a-register) over plain
// uint64/uint32 words in src/util/chars.go's checkAscii, and its DP inner
// loop in src/algo/algo.go processes one rune at a time over int16 slices
// allocated from a reusable util.Slab. This package follows that same
// texture — lanes are plain Go arrays/slices, operated on with ordinary
// loops the compiler can autovectorize, not assembly — while giving the
// prefilter and engine the exact operation vocabulary spec.md §4.1
// demands, so a future native-intrinsic backend can be dropped in behind
// the same interface without touching callers. The amd64/arm64 vs generic
// split in dispatch_amd64.go/dispatch_arm64.go/dispatch_generic.go mirrors
// the teacher's own build-tag split between src/result_x86.go and
// src/result_others.go.
package simd

// V128Lanes and V256Lanes are the u8 lane counts of a 128-bit vector (one
// SIMD register) and a 256-bit vector. Both are fixed; the runtime CPU
// feature detection in dispatch_amd64.go / dispatch_arm64.go /
// dispatch_generic.go only decides which of them PreferredChunkWidth reports.
const (
	V128Lanes = 16
	V256Lanes = 32
)

// V128 holds sixteen u8 lanes (ExpandU8ToU16 widens them to sixteen u16
// lanes).
type V128 [V128Lanes]byte

// V256U16 holds sixteen u16 lanes — the natural width of one DP matrix row
// chunk (spec.md's "Chunk: a 16-byte horizontal slice of a haystack").
type V256U16 [16]uint16

// BroadcastU8 returns a V128 with every lane set to b.
func BroadcastU8(b byte) V128 {
	var v V128
	for i := range v {
		v[i] = b
	}
	return v
}

// BroadcastU16 returns a V256U16 with every lane set to x.
func BroadcastU16(x uint16) V256U16 {
	var v V256U16
	for i := range v {
		v[i] = x
	}
	return v
}

// LoadV128 loads sixteen bytes from buf starting at off (caller guarantees
// off+16 <= len(buf); use LoadPartialV128 near the end of a buffer).
func LoadV128(buf []byte, off int) V128 {
	var v V128
	copy(v[:], buf[off:off+V128Lanes])
	return v
}

// LoadPartialV128 loads a V128 from buf[off:] when fewer than 16 bytes
// remain, zero-filling the high lanes. Per spec.md §4.1: when len-off < 8
// it must not read past the buffer, so it copies byte by byte; when
// len-off >= 8 it may safely combine two 8-byte loads (here: two copies)
// since both are known in-bounds.
func LoadPartialV128(buf []byte, off int) V128 {
	var v V128
	n := len(buf) - off
	if n <= 0 {
		return v
	}
	if n > V128Lanes {
		n = V128Lanes
	}
	if n < 8 {
		for i := 0; i < n; i++ {
			v[i] = buf[off+i]
		}
		return v
	}
	copy(v[0:8], buf[off:off+8])
	copy(v[8:n], buf[off+8:off+n])
	return v
}

// EqU8 compares a and b lanewise, returning 0xFF in matching lanes and 0x00
// elsewhere.
func EqU8(a, b V128) V128 {
	var out V128
	for i := range a {
		if a[i] == b[i] {
			out[i] = 0xFF
		}
	}
	return out
}

// GtU8 compares a > b lanewise (unsigned), 0xFF/0x00 mask.
func GtU8(a, b V128) V128 {
	var out V128
	for i := range a {
		if a[i] > b[i] {
			out[i] = 0xFF
		}
	}
	return out
}

// LtU8 compares a < b lanewise (unsigned), 0xFF/0x00 mask.
func LtU8(a, b V128) V128 {
	var out V128
	for i := range a {
		if a[i] < b[i] {
			out[i] = 0xFF
		}
	}
	return out
}

// AnyNonZero reports whether any lane of v is non-zero — used by the
// prefilter to test "did the needle byte match anywhere in this chunk".
func AnyNonZero(v V128) bool {
	for _, b := range v {
		if b != 0 {
			return true
		}
	}
	return false
}

// FirstNonZero returns the lane index of the first non-zero byte in v, or
// -1 if none. Used by the prefilter to locate the chunk-relative position
// of the first needle-character match.
func FirstNonZero(v V128) int {
	for i, b := range v {
		if b != 0 {
			return i
		}
	}
	return -1
}

// ExpandU8ToU16 zero-extends sixteen u8 lanes to sixteen u16 lanes.
func ExpandU8ToU16(v V128) V256U16 {
	var out V256U16
	for i, b := range v {
		out[i] = uint16(b)
	}
	return out
}

// CastI8ToI16Mask widens a 0xFF/0x00 byte mask (as produced by EqU8/GtU8/
// LtU8) into a 0xFFFF/0x0000 u16 lane mask. This is the cast a real ISA
// applies when moving a byte-wide comparison result into the wider scoring
// lane: every set bit of the byte must become a set u16, not merely its
// low-order byte. ExpandU8ToU16 is the wrong tool for this (it zero-extends
// 0xFF to 0x00FF), which would silently corrupt AndU16/OrU16 masking
// against any bonus value >= 256; CastI8ToI16Mask exists specifically for
// mask lanes, which are always all-ones or all-zeros.
func CastI8ToI16Mask(v V128) V256U16 {
	var out V256U16
	for i, b := range v {
		if b != 0 {
			out[i] = 0xFFFF
		}
	}
	return out
}

// MaxU16 takes the lanewise max of two V256U16.
func MaxU16(a, b V256U16) V256U16 {
	var out V256U16
	for i := range a {
		if a[i] >= b[i] {
			out[i] = a[i]
		} else {
			out[i] = b[i]
		}
	}
	return out
}

// SatAddU16 adds a and b lanewise, saturating at 0xFFFF.
func SatAddU16(a, b V256U16) V256U16 {
	var out V256U16
	for i := range a {
		sum := uint32(a[i]) + uint32(b[i])
		if sum > 0xFFFF {
			out[i] = 0xFFFF
		} else {
			out[i] = uint16(sum)
		}
	}
	return out
}

// SatSubU16 subtracts b from a lanewise, saturating at 0.
func SatSubU16(a, b V256U16) V256U16 {
	var out V256U16
	for i := range a {
		if b[i] >= a[i] {
			out[i] = 0
		} else {
			out[i] = a[i] - b[i]
		}
	}
	return out
}

// AndU16, OrU16, NotU16 are the bitwise lane ops spec.md §4.1 requires for
// combining match masks.
func AndU16(a, b V256U16) V256U16 {
	var out V256U16
	for i := range a {
		out[i] = a[i] & b[i]
	}
	return out
}

func OrU16(a, b V256U16) V256U16 {
	var out V256U16
	for i := range a {
		out[i] = a[i] | b[i]
	}
	return out
}

func NotU16(a V256U16) V256U16 {
	var out V256U16
	for i := range a {
		out[i] = ^a[i]
	}
	return out
}

// ShiftRightCarry shifts row right by n lane positions (0 <= n <= 8),
// filling the vacated low lanes from the high lanes of carry — the
// "previous chunk" in spec.md §4.3's horizontal gap cascade.
func ShiftRightCarry(row, carry V256U16, n int) V256U16 {
	var out V256U16
	if n <= 0 {
		return row
	}
	if n > len(row) {
		n = len(row)
	}
	for i := 0; i < n; i++ {
		out[i] = carry[len(carry)-n+i]
	}
	copy(out[n:], row[:len(row)-n])
	return out
}

// HMax reduces a V256U16 to its single largest lane value.
func HMax(v V256U16) uint16 {
	max := v[0]
	for _, x := range v[1:] {
		if x > max {
			max = x
		}
	}
	return max
}

// FindFirstEqual returns the lowest lane index in v equal to target, or -1.
// Used by traceback to locate where the row's maximum score sits
// (spec.md §4.3, "found via find-first-equal within each chunk").
func FindFirstEqual(v V256U16, target uint16) int {
	for i, x := range v {
		if x == target {
			return i
		}
	}
	return -1
}
