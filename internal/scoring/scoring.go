// Package scoring defines the configurable scoring parameters shared by
// the prefilter, needle preprocessor and scoring engine (spec.md §3,
// "Scoring parameters"). It lives below frizbee's root package so every
// internal package can depend on it without an import cycle; the root
// package re-exports Scoring and Default as part of its public API.
//
// Grounded on github.com/junegunn/fzf/src/algo/algo.go's fixed scoreMatch/
// scoreGapStart/scoreGapExtension/bonus* constants, generalized into a
// struct per spec.md's Config so callers can tune it instead of it being
// baked into the binary.
package scoring

import "math"

// Scoring holds the tunable weights of the DP recurrence (spec.md §4.3)
// and the bonuses layered on top of it. All fields are uint16, matching
// the u16 score domain the engine computes in.
type Scoring struct {
	MatchScore          uint16
	MismatchPenalty     uint16
	GapOpenPenalty      uint16
	GapExtendPenalty    uint16
	PrefixBonus         uint16
	CapitalizationBonus uint16
	MatchingCaseBonus   uint16
	ExactMatchBonus     uint16
	DelimiterBonus      uint16
}

// Default returns the scoring scheme this module ships with, derived from
// the teacher's fixed bonus constants (src/algo/algo.go): scoreMatch=16,
// scoreGapStart=3, scoreGapExtension=1, bonusBoundary=8, bonusCamel123=7,
// with two spec-only additions (MatchingCaseBonus, ExactMatchBonus) given
// values in the same register as the others.
func Default() Scoring {
	return Scoring{
		MatchScore:          16,
		MismatchPenalty:     0,
		GapOpenPenalty:      3,
		GapExtendPenalty:    1,
		PrefixBonus:         16,
		CapitalizationBonus: 7,
		MatchingCaseBonus:   1,
		ExactMatchBonus:     8,
		DelimiterBonus:      8,
	}
}

// MaxNeedleLen returns the longest needle length this Scoring can safely
// score without the u16 DP cells overflowing (spec.md §4.3, "Overflow
// guard"): the worst-case per-byte gain is MatchScore +
// CapitalizationBonus/2 + DelimiterBonus/2 + MatchingCaseBonus (a capital,
// post-delimiter, exact-case match on every byte), plus the one-time
// PrefixBonus and ExactMatchBonus.
func (s Scoring) MaxNeedleLen() int {
	perByte := uint32(s.MatchScore) + uint32(s.CapitalizationBonus)/2 + uint32(s.DelimiterBonus)/2 + uint32(s.MatchingCaseBonus)
	once := uint32(s.PrefixBonus) + uint32(s.ExactMatchBonus)
	if perByte == 0 {
		return math.MaxUint16
	}
	budget := uint32(math.MaxUint16)
	if once >= budget {
		return 0
	}
	return int((budget - once) / perByte)
}
