package engine

import (
	"github.com/saghen/frizbee/internal/needle"
	"github.com/saghen/frizbee/internal/scoring"
	"github.com/saghen/frizbee/internal/util"
)

// Greedy implements spec.md §4.5's fallback for haystacks too long for the
// O(needle*haystack) DP matrix (see MaxHaystackLen): a single forward scan
// locates a subsequence occurrence of the needle, a backward scan narrows
// it to the tightest span containing that occurrence, and the span is
// scored with the same per-byte bonuses the DP engine uses.
//
// Grounded on github.com/junegunn/fzf/src/algo/algo.go's FuzzyMatchV1,
// which FuzzyMatchV2 itself falls back to once N*M exceeds the scratch
// slab's capacity — the same two-pass forward-find/backward-narrow shape,
// generalized from fzf's fixed bonus table to a Scoring configuration.
//
// The greedy scan requires every needle byte to appear in order; it has no
// notion of a missing-character typo, so it reports ok=false whenever the
// needle isn't a subsequence of the haystack at all, regardless of
// maxTypos (spec.md's typo budget is an DP-stage concept this fallback
// does not attempt to reproduce exactly, consistent with §4.5's framing
// as a cheaper, non-optimal approximation for oversized haystacks).
type Greedy struct {
	needle *needle.Needle
	scorer scoring.Scoring
}

// NewGreedy builds a Greedy fallback for n.
func NewGreedy(n *needle.Needle, scorer scoring.Scoring) *Greedy {
	return &Greedy{needle: n, scorer: scorer}
}

func (g *Greedy) ScoreHaystack(h []byte) uint16 {
	score, _, ok := g.MatchHaystackIndices(h, nil)
	if !ok {
		return 0
	}
	return score
}

// MatchHaystackIndices runs the greedy subsequence search described above.
func (g *Greedy) MatchHaystackIndices(h []byte, maxTypos *int) (score uint16, indices []int, ok bool) {
	m := g.needle.Len()
	if m == 0 {
		return 0, nil, true
	}

	sidx, eidx := -1, -1
	pidx := 0
	for i := 0; i < len(h); i++ {
		if g.needle.EqualFold(pidx, h[i]) {
			if sidx < 0 {
				sidx = i
			}
			pidx++
			if pidx == m {
				eidx = i + 1
				break
			}
		}
	}
	if sidx < 0 || eidx < 0 {
		return 0, nil, false
	}

	// Narrow backward from eidx-1 to the tightest span still containing the
	// full needle as a subsequence (mirrors FuzzyMatchV1's second pass).
	pidx = m - 1
	for i := eidx - 1; i >= sidx; i-- {
		if g.needle.EqualFold(pidx, h[i]) {
			pidx--
			if pidx < 0 {
				sidx = i
				break
			}
		}
	}

	indices = make([]int, 0, m)
	score = 0
	pidx = 0
	for i := sidx; i < eidx && pidx < m; i++ {
		if !g.needle.EqualFold(pidx, h[i]) {
			continue
		}
		indices = append(indices, i)
		gain := util.SatAdd16(g.scorer.MatchScore, g.scorer.MismatchPenalty)
		score = util.SatAdd16(score, gain)
		score = util.SatAdd16(score, diagonalBonus(g.scorer, g.needle, pidx, h, i+1, pidx+1))
		pidx++
	}
	return score, indices, true
}
