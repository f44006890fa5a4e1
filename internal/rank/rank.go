// Package rank builds the packed sort key frizbee.Match results compare
// by, and mirrors the teacher's amd64-fast / portable-fallback comparator
// split so a hot sort.Slice over potentially thousands of matches avoids
// four separate uint16 compares in the common case.
//
// Grounded on github.com/junegunn/fzf's Result.points ([4]uint16,
// src/result.go's buildResult) and its two-file comparator
// (src/result_x86.go's unsafe-uint64 compareRanks vs
// src/result_others.go's loop). spec.md's Match only has one tiebreak
// chain (score desc, then index asc) where fzf supports up to four
// user-configurable criteria, so Key populates three of the four point
// slots (the inverted score and the index's high and low halves) — point 0
// stays zero and therefore never affects the comparison, keeping the same
// packed-points shape for no extra cost.
package rank

import "math"

// Key is a packed, ascending-comparable sort key: sorting ascending by Key
// yields descending score, ties broken by ascending index — spec.md's
// Match ordering. Point 3 (most significant when reinterpreted as a single
// uint64 on little-endian, matching fzf's points[3-idx] convention) holds
// the inverted score; points 2/1 hold the index's high/low 16 bits.
type Key struct {
	Points [4]uint16
}

// Of builds the sort key for one Match's (index, score) pair.
func Of(index uint32, score uint16) Key {
	return Key{Points: [4]uint16{
		0,
		uint16(index & 0xFFFF),
		uint16(index >> 16),
		math.MaxUint16 - score,
	}}
}

// Less reports whether a sorts before b (i.e. a's match should be returned
// first): higher score first, then lower index.
func Less(a, b Key) bool {
	return less(a, b)
}
