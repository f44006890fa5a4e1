// Package util holds the small, dependency-free helpers shared by the
// prefilter, scoring engine and greedy fallback: saturating arithmetic on
// the u16 score domain and ASCII byte classification for bonus rules.
//
// Grounded on github.com/junegunn/fzf/src/util/util.go (Max16/Min/Constrain)
// and src/algo/algo.go (charClassOfAscii/bonusFor), generalized from fzf's
// fixed bonus constants to the configurable Scoring struct this module
// exposes in package frizbee.
package util

import "math"

// Max16 returns the larger of two uint16 values.
func Max16(a, b uint16) uint16 {
	if a >= b {
		return a
	}
	return b
}

// Min16 returns the smaller of two uint16 values.
func Min16(a, b uint16) uint16 {
	if a <= b {
		return a
	}
	return b
}

// Min returns the smaller of two ints.
func Min(a, b int) int {
	if a <= b {
		return a
	}
	return b
}

// Max returns the larger of two ints.
func Max(a, b int) int {
	if a >= b {
		return a
	}
	return b
}

// SatAdd16 adds two uint16 values, saturating at math.MaxUint16 instead of
// wrapping. The DP recurrence (spec.md §4.3) never intends scores to wrap.
func SatAdd16(a, b uint16) uint16 {
	sum := uint32(a) + uint32(b)
	if sum > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(sum)
}

// SatSub16 subtracts b from a, saturating at 0 instead of wrapping
// (Smith-Waterman scores never go negative: spec.md §4.3's recurrence is
// `saturating_max(diag, up, left)` "saturating at 0").
func SatSub16(a, b uint16) uint16 {
	if b >= a {
		return 0
	}
	return a - b
}

// ByteClass is the ASCII character class used for camelCase/boundary bonus
// detection, mirroring fzf's charClass (src/algo/algo.go) restricted to the
// ASCII-only semantics this module's Non-goals require.
type ByteClass int

const (
	ClassDelimiter ByteClass = iota
	ClassLower
	ClassUpper
	ClassDigit
	ClassOther
)

// ClassifyByte reports the ASCII class of b. Per spec.md §3, a delimiter is
// any byte that is neither an ASCII letter nor an ASCII digit and is <= 127.
// Bytes >= 128 (multi-byte UTF-8 continuation/lead bytes) are excluded from
// the delimiter class, matching the reference SIMD mask
// (char_is_delimiter_mask = (is_letter | is_digit | byte>127).not()):
// they classify as ClassOther, which is neither a delimiter nor a letter.
func ClassifyByte(b byte) ByteClass {
	switch {
	case b >= 'a' && b <= 'z':
		return ClassLower
	case b >= 'A' && b <= 'Z':
		return ClassUpper
	case b >= '0' && b <= '9':
		return ClassDigit
	case b > 127:
		return ClassOther
	default:
		return ClassDelimiter
	}
}

// IsDelimiter reports whether b is a delimiter byte as defined in spec.md §3.
func IsDelimiter(b byte) bool {
	return ClassifyByte(b) == ClassDelimiter
}

// ToLowerASCII folds b to lowercase iff it is an ASCII uppercase letter,
// leaving every other byte (including non-ASCII bytes) untouched — matching
// spec.md's Non-goals ("case handling is ASCII-only").
func ToLowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 32
	}
	return b
}

// EqualFoldASCII reports whether a and b are equal, ignoring ASCII case.
func EqualFoldASCII(a, b byte) bool {
	return ToLowerASCII(a) == ToLowerASCII(b)
}
