// Package fingerprint hashes a Scoring configuration so Matcher.SetConfig
// can cheaply detect "nothing actually changed" and skip re-deriving the overflow-safe needle bound (spec.md §4.3) and
// re-broadcasting the needle bytes (spec.md §3).
//
// Grounded on github.com/junegunn/fzf's own memoization idiom: ChunkCache
// (src/cache.go) and Matcher.mergerCache (src/matcher.go) both key
// expensive recomputation off a cheap string identity. xxh3 stands in for
// fzf's plain string keys here because a Scoring struct has no natural
// string form; hashing its 9 uint16 fields is the direct generalization.
package fingerprint

import (
	"encoding/binary"

	"github.com/saghen/frizbee/internal/scoring"
	"github.com/zeebo/xxh3"
)

// Of returns a 64-bit fingerprint of s, stable across process runs (xxh3 is
// seeded to 0 unless otherwise configured, which is what frizbee wants: a
// pure function of the config's field values, not of memory addresses).
func Of(s scoring.Scoring) uint64 {
	var buf [18]byte
	binary.LittleEndian.PutUint16(buf[0:2], s.MatchScore)
	binary.LittleEndian.PutUint16(buf[2:4], s.MismatchPenalty)
	binary.LittleEndian.PutUint16(buf[4:6], s.GapOpenPenalty)
	binary.LittleEndian.PutUint16(buf[6:8], s.GapExtendPenalty)
	binary.LittleEndian.PutUint16(buf[8:10], s.PrefixBonus)
	binary.LittleEndian.PutUint16(buf[10:12], s.CapitalizationBonus)
	binary.LittleEndian.PutUint16(buf[12:14], s.MatchingCaseBonus)
	binary.LittleEndian.PutUint16(buf[14:16], s.ExactMatchBonus)
	binary.LittleEndian.PutUint16(buf[16:18], s.DelimiterBonus)
	return xxh3.Hash(buf[:])
}
