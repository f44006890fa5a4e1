// Package needle preprocesses the query byte string once per Matcher
// construction (or SetNeedle call), producing the case-folded pair
// representation and SIMD broadcasts spec.md §3 calls for.
//
// Grounded on github.com/junegunn/fzf/src/algo/algo.go's asciiFuzzyIndex /
// trySkip, which precompute nothing but repeatedly fold case per
// comparison; frizbee instead precomputes both case forms once (spec.md:
// "Preprocessed into (i) a case-folded pair representation... (ii) 128-bit
// SIMD broadcasts of each needle byte in both cases") since the needle is
// reused across potentially thousands of haystacks per call.
package needle

import (
	"fmt"

	"github.com/saghen/frizbee/internal/scoring"
	"github.com/saghen/frizbee/internal/simd"
	"github.com/saghen/frizbee/internal/util"
)

// Needle is the preprocessed query: raw bytes plus, per byte, the
// lowercase/uppercase broadcast pair used by the prefilter and scoring
// engine to compare against a haystack chunk without folding the haystack
// itself.
type Needle struct {
	Raw    []byte
	Lower  []byte      // Raw, ASCII-lowercased.
	Upper  []byte      // Raw, ASCII-uppercased (non-letters pass through).
	LowerB []simd.V128 // BroadcastU8(Lower[i]) per byte.
	UpperB []simd.V128 // BroadcastU8(Upper[i]) per byte.
	RawB   []simd.V128 // BroadcastU8(Raw[i]) per byte, for exact-case lane comparison.
}

// New preprocesses raw into a Needle, panicking if raw is longer than
// scorer's overflow-safe bound (spec.md §4.3 "Overflow guard", §7 "Fatal
// contract violation at Matcher::new / set_needle / set_config").
func New(raw []byte, scorer scoring.Scoring) *Needle {
	if max := scorer.MaxNeedleLen(); len(raw) > max {
		panic(fmt.Sprintf("frizbee: needle length %d exceeds overflow-safe bound %d for this scoring configuration", len(raw), max))
	}
	n := &Needle{
		Raw:    append([]byte(nil), raw...),
		Lower:  make([]byte, len(raw)),
		Upper:  make([]byte, len(raw)),
		LowerB: make([]simd.V128, len(raw)),
		UpperB: make([]simd.V128, len(raw)),
		RawB:   make([]simd.V128, len(raw)),
	}
	for i, b := range raw {
		n.Lower[i] = util.ToLowerASCII(b)
		n.Upper[i] = toUpperASCII(b)
		n.LowerB[i] = simd.BroadcastU8(n.Lower[i])
		n.UpperB[i] = simd.BroadcastU8(n.Upper[i])
		n.RawB[i] = simd.BroadcastU8(b)
	}
	return n
}

func toUpperASCII(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 32
	}
	return b
}

// Len reports the needle length in bytes.
func (n *Needle) Len() int { return len(n.Raw) }

// EqualFold reports whether haystack byte b matches needle byte at index i,
// ASCII case-insensitively.
func (n *Needle) EqualFold(i int, b byte) bool {
	return util.ToLowerASCII(b) == n.Lower[i]
}

// EqualExact reports whether haystack byte b matches needle byte at index
// i verbatim (used for Scoring.MatchingCaseBonus).
func (n *Needle) EqualExact(i int, b byte) bool {
	return b == n.Raw[i]
}
