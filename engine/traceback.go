package engine

// MatchHaystack scores h and reports whether the alignment's typo count is
// within maxTypos (nil disables the check, per spec.md §3). The returned
// score has every bonus but ExactMatchBonus applied, matching ScoreHaystack.
func (e *Engine) MatchHaystack(h []byte, maxTypos *int) (score uint16, ok bool) {
	score, col := e.fill(h)
	if maxTypos == nil {
		return score, true
	}
	_, typos := e.traceback(col)
	return score, typos <= *maxTypos
}

// MatchHaystackIndices is MatchHaystack plus the ascending haystack byte
// index of each matched needle character (spec.md §4.3's
// match_haystack_indices).
func (e *Engine) MatchHaystackIndices(h []byte, maxTypos *int) (score uint16, indices []int, ok bool) {
	score, col := e.fill(h)
	indices, typos := e.traceback(col)
	if maxTypos == nil {
		return score, indices, true
	}
	return score, indices, typos <= *maxTypos
}

// traceback walks the DP matrix backward from (needle length, col), the
// best-scoring cell on the last needle row, recovering the matched haystack
// indices and the number of typos (mismatches plus skipped needle bytes)
// the alignment required. Grounded on spec.md §4.3's traceback description;
// see engine.go's package doc for how this generalizes FuzzyMatchV2, which
// never needs a traceback since it disallows typos outright.
//
// Diagonal moves into a cell whose match mask is unset can never be the
// chosen predecessor without representing a genuine character match (mask
// would then be set) under this recurrence, since such a diagonal value is
// always <= the predecessor's own best score; the "Match" half of the
// step-2 diagonal case in spec.md §4.3 is therefore unreachable here and
// every diagonal step taken in that branch is counted as a mismatch typo.
func (e *Engine) traceback(col int) (indices []int, typos int) {
	i, j := e.needle.Len(), col
	for i > 0 && j > 0 {
		if e.mask.At(i, j) {
			indices = append(indices, j-1)
			i--
			j--
			continue
		}

		diag := e.score.At(i-1, j-1)
		left := e.score.At(i, j-1)
		up := e.score.At(i-1, j)

		switch {
		case diag >= left && diag >= up:
			typos++
			i--
			j--
		case left >= up:
			j--
		default:
			typos++
			i--
		}
	}
	typos += i // Rows left unvisited when the walk hits column 0 are typos.

	for l, r := 0, len(indices)-1; l < r; l, r = l+1, r-1 {
		indices[l], indices[r] = indices[r], indices[l]
	}
	return indices, typos
}
