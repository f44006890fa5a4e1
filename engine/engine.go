// Package engine implements the SIMD-parallel Smith-Waterman scoring
// engine (spec.md §4.3): given a prefiltered haystack, it fills a DP score
// matrix row by row, applies the fuzzy-finder bonuses, and reports the
// best alignment score — plus, on demand, the traceback needed for typo
// counting and match-index recovery.
//
// Grounded on github.com/junegunn/fzf/src/algo/algo.go's FuzzyMatchV2,
// which already computes an analogous H/C score/consecutive-run matrix
// row by row from a reusable util.Slab. frizbee generalizes two things
// FuzzyMatchV2 deliberately does not support: mismatches along the
// diagonal (FuzzyMatchV2 "does not allow omission of a character in the
// pattern"; frizbee's needle can have up to Config.MaxTypos of them, per
// spec.md §4.3's unconditional mismatch_penalty term) and a configurable
// Scoring struct instead of FuzzyMatchV2's fixed scoreMatch/bonus* consts.
package engine

import (
	"github.com/saghen/frizbee/internal/needle"
	"github.com/saghen/frizbee/internal/scoring"
	"github.com/saghen/frizbee/internal/simd"
	"github.com/saghen/frizbee/internal/util"
)

// MaxHaystackLen is the longest haystack the DP matrices are sized for by
// default (spec.md §4.3, "Haystack size cap"). Longer haystacks must be
// routed to the greedy fallback (greedy.go) by the caller.
const MaxHaystackLen = 512

// Engine owns the preallocated score and match-mask matrices for one
// needle, reused and zeroed across calls exactly like the teacher's
// util.Slab (spec.md §9, "Shared matrices").
//
// score/mask are the scalar, column-indexed matrices traceback.go walks.
// vecScore/vecMask are the chunk-indexed V256U16 grids fill's DP recurrence
// actually computes on; each vector cell is extracted into score/mask once
// it's final, the same "compute in vector lanes, transmute to a flat scalar
// array for the backward walk" split
// _examples/original_source/src/smith_waterman/simd/typos.rs uses
// (typos_from_score_matrix transmutes &[Simd256] to &[[u16;16]] rather than
// tracebacking through vector registers).
type Engine struct {
	needle *needle.Needle
	scorer scoring.Scoring
	score  *util.Matrix
	mask   *util.BoolMatrix

	vecScore         []simd.V256U16
	vecMask          []simd.V256U16
	vecRows, vecCols int
}

// New builds an Engine for n, preallocating matrices sized for
// MaxHaystackLen bytes.
func New(n *needle.Needle, scorer scoring.Scoring) *Engine {
	rows := n.Len() + 1
	cols := MaxHaystackLen + 1
	chunks := (MaxHaystackLen + simd.V128Lanes - 1) / simd.V128Lanes
	return &Engine{
		needle:   n,
		scorer:   scorer,
		score:    util.NewMatrix(rows, cols),
		mask:     util.NewBoolMatrix(rows, cols),
		vecScore: make([]simd.V256U16, rows*(chunks+1)),
		vecMask:  make([]simd.V256U16, rows*(chunks+1)),
		vecRows:  rows,
		vecCols:  chunks + 1,
	}
}

// resizeVec ensures the vector grid has room for rows x cols cells,
// zeroing every cell (row 0 and column 0 are the DP's implicit-zero
// border, spec.md §4.3's "Score matrix" data model).
func (e *Engine) resizeVec(rows, cols int) {
	need := rows * cols
	if cap(e.vecScore) < need {
		e.vecScore = make([]simd.V256U16, need)
		e.vecMask = make([]simd.V256U16, need)
	} else {
		e.vecScore = e.vecScore[:need]
		e.vecMask = e.vecMask[:need]
		for i := range e.vecScore {
			e.vecScore[i] = simd.V256U16{}
			e.vecMask[i] = simd.V256U16{}
		}
	}
	e.vecRows, e.vecCols = rows, cols
}

func (e *Engine) vecScoreAt(i, c int) simd.V256U16 { return e.vecScore[i*e.vecCols+c] }
func (e *Engine) vecMaskAt(i, c int) simd.V256U16  { return e.vecMask[i*e.vecCols+c] }

func (e *Engine) vecSet(i, c int, score, mask simd.V256U16) {
	e.vecScore[i*e.vecCols+c] = score
	e.vecMask[i*e.vecCols+c] = mask
}

// SetNeedle swaps in a new preprocessed needle; fill resizes the matrices
// to its row count on the next call.
func (e *Engine) SetNeedle(n *needle.Needle) {
	e.needle = n
}

// SetScoring swaps in a new scoring configuration.
func (e *Engine) SetScoring(s scoring.Scoring) {
	e.scorer = s
}

// ScoreHaystack computes the DP matrix for h and returns the maximum cell
// value on the last needle row, with every bonus but ExactMatchBonus
// applied (spec.md §4.3's score_haystack contract — the caller adds
// ExactMatchBonus).
func (e *Engine) ScoreHaystack(h []byte) uint16 {
	max, _ := e.fill(h)
	return max
}

// fill runs the DP recurrence over h and returns the best score on the
// last needle row along with the haystack column (1-indexed) it sits at.
//
// Grounded directly on
// _examples/original_source/src/smith_waterman/simd/algo.rs's
// score_haystack: the outer loop walks 16-byte haystack chunks
// (column-major), the inner loop walks needle rows, and every per-cell
// update — match-mask construction, the diagonal/up/left recurrence, the
// horizontal-gap cascade — is a V256U16 lane operation rather than a
// scalar uint16 one, per spec.md §4.1's "the scoring engine depends only
// on this vocabulary" contract. Column-level bonus eligibility (delimiter
// and capitalization transitions) is still derived with one scalar pass
// over h first: unlike the O(needle*haystack) recurrence itself, that pass
// is O(haystack) and depends only on adjacent raw bytes, not on vector
// lanes — see columnBonusMasks.
func (e *Engine) fill(h []byte) (maxScore uint16, maxCol int) {
	m := e.needle.Len()
	n := len(h)
	e.score.Reset(m+1, n+1)
	e.mask.Reset(m+1, n+1)
	if m == 0 || n == 0 {
		return 0, 0
	}
	s := e.scorer

	chunks := (n + simd.V128Lanes - 1) / simd.V128Lanes
	e.resizeVec(m+1, chunks+1)

	delimMask, capMask := columnBonusMasks(h, chunks)

	matchScoreVec := simd.BroadcastU16(util.SatAdd16(s.MatchScore, s.MismatchPenalty))
	mismatchVec := simd.BroadcastU16(s.MismatchPenalty)
	gapExtendVec := simd.BroadcastU16(s.GapExtendPenalty)
	gapOpenDeltaVec := simd.BroadcastU16(util.SatSub16(s.GapOpenPenalty, s.GapExtendPenalty))
	delimBonusVec := simd.BroadcastU16(s.DelimiterBonus)
	capBonusVec := simd.BroadcastU16(s.CapitalizationBonus)
	matchCaseBonusVec := simd.BroadcastU16(s.MatchingCaseBonus)
	var prefixVec simd.V256U16
	prefixVec[0] = s.PrefixBonus

	var lastRowMax simd.V256U16
	for c := 1; c <= chunks; c++ {
		base := (c - 1) * simd.V128Lanes
		subLen := util.Min(simd.V128Lanes, n-base)
		chunk := h[base : base+subLen]

		delimBonusMasked := simd.AndU16(delimMask[c], delimBonusVec)
		capBonusMasked := simd.AndU16(capMask[c], capBonusVec)

		var upGapMask simd.V256U16
		prevRowScores := e.vecScoreAt(0, c)
		var rowScores simd.V256U16
		for i := 1; i <= m; i++ {
			pidx := i - 1
			matchMask, exactMask := matchMasksVec(e.needle, pidx, chunk)

			// Diagonal: match/mismatch, shifting the row above one lane
			// right with the previous column's bottom lane as carry-in
			// (spec.md §4.3's "Diagonal" dependency).
			diag := simd.ShiftRightCarry(prevRowScores, e.vecScoreAt(i-1, c-1), 1)
			diag = simd.SatAddU16(diag, simd.AndU16(matchMask, matchScoreVec))
			diag = simd.SatSubU16(diag, mismatchVec)
			if i == 1 && c == 1 {
				diag = simd.SatAddU16(diag, simd.AndU16(matchMask, prefixVec))
			}
			diag = simd.SatAddU16(diag, simd.AndU16(matchMask, delimBonusMasked))
			diag = simd.SatAddU16(diag, simd.AndU16(matchMask, capBonusMasked))
			diag = simd.SatAddU16(diag, simd.AndU16(exactMask, matchCaseBonusVec))

			// Up: vertical gap, open-vs-extend decided by whether the row
			// above was itself a match.
			gapExtended := simd.SatSubU16(prevRowScores, gapExtendVec)
			up := simd.SatSubU16(gapExtended, simd.AndU16(upGapMask, gapOpenDeltaVec))

			current := simd.MaxU16(diag, up)

			// Left: the logarithmic shift-and-decay cascade over
			// d = 1, 2, 4, 8, carrying in the previous chunk's final
			// column/mask (spec.md §4.3's horizontal-gap dependency;
			// grounded on
			// _examples/original_source/src/smith_waterman/simd/gaps.rs's
			// propagate_horizontal_gaps).
			rowScores = propagateHorizontalGapsVec(
				current, e.vecScoreAt(i, c-1),
				matchMask, e.vecMaskAt(i, c-1),
				s.GapOpenPenalty, s.GapExtendPenalty,
			)

			e.vecSet(i, c, rowScores, matchMask)
			extractRow(e.score, e.mask, i, base, subLen, rowScores, matchMask)

			prevRowScores = rowScores
			upGapMask = matchMask
		}
		// Lanes past the end of the haystack hold no haystack cell; keep
		// them out of the last-row maximum.
		lastRow := rowScores
		for j := subLen; j < simd.V128Lanes; j++ {
			lastRow[j] = 0
		}
		lastRowMax = simd.MaxU16(lastRowMax, lastRow)
	}

	maxScore = simd.HMax(lastRowMax)
	for c := 1; c <= chunks; c++ {
		idx := simd.FindFirstEqual(e.vecScoreAt(m, c), maxScore)
		if idx < 0 {
			continue
		}
		base := (c - 1) * simd.V128Lanes
		if base+idx < n {
			maxCol = base + idx + 1
			break
		}
	}
	return maxScore, maxCol
}

// extractRow copies a computed chunk row (subLen lanes starting at haystack
// byte base) into the scalar score/mask matrices traceback.go walks —
// the same vector-to-scalar materialization
// _examples/original_source/src/smith_waterman/simd/typos.rs's
// typos_from_score_matrix performs via transmute before its own backward
// walk.
func extractRow(score *util.Matrix, mask *util.BoolMatrix, i, base, subLen int, scores, masks simd.V256U16) {
	for j := 0; j < subLen; j++ {
		col := base + j + 1
		score.Set(i, col, scores[j])
		mask.Set(i, col, masks[j] != 0)
	}
}

// matchMasksVec compares a haystack chunk against needle byte pidx via the
// needle's lower/upper/raw broadcasts, returning a case-insensitive match
// mask and an exact (same-case) match mask, both as 0xFFFF/0x0000 V256U16
// lane masks. Grounded on
// _examples/original_source/src/smith_waterman/simd/algo.rs's
// exact_case_match_mask/flipped_case_match_mask/match_mask computation.
func matchMasksVec(n *needle.Needle, pidx int, chunk []byte) (matchMask, exactMask simd.V256U16) {
	v := simd.LoadPartialV128(chunk, 0)
	lowerEq := simd.EqU8(v, n.LowerB[pidx])
	upperEq := simd.EqU8(v, n.UpperB[pidx])
	exactEq := simd.EqU8(v, n.RawB[pidx])
	matchMask = simd.OrU16(simd.CastI8ToI16Mask(lowerEq), simd.CastI8ToI16Mask(upperEq))
	exactMask = simd.CastI8ToI16Mask(exactEq)
	return matchMask, exactMask
}

// propagateHorizontalGapsVec is the logarithmic shift-and-decay cascade
// spec.md §4.3 specifies, ported directly from
// _examples/original_source/src/smith_waterman/simd/gaps.rs's
// propagate_horizontal_gaps (the 6-parameter revision, which folds in the
// adjacent chunk's match mask as the shift's carry-in — without it, a gap
// reaching back across a chunk boundary would see zero-padding instead of
// the true predecessor mask and misclassify every boundary-crossing gap as
// freshly opened).
func propagateHorizontalGapsVec(row, adjacentRow, matchMask, adjacentMatchMask simd.V256U16, gapOpen, gapExtend uint16) simd.V256U16 {
	gapOpenDelta := simd.BroadcastU16(util.SatSub16(gapOpen, gapExtend))
	for _, d := range [4]int{1, 2, 4, 8} {
		shiftedRow := simd.ShiftRightCarry(row, adjacentRow, d)
		shiftedMatch := simd.ShiftRightCarry(matchMask, adjacentMatchMask, d)
		gapPenalty := simd.SatAddU16(simd.BroadcastU16(uint16(d)*gapExtend), simd.AndU16(gapOpenDelta, shiftedMatch))
		decayed := simd.SatSubU16(shiftedRow, gapPenalty)
		row = simd.MaxU16(row, decayed)
	}
	return row
}

// columnBonusMasks computes, once per haystack (not once per needle row),
// the delimiter- and capitalization-bonus eligibility of every haystack
// byte: delimMask[c] lane j is set iff h[base+j-1] is a delimiter and
// h[base+j] is not; capMask[c] lane j is set iff h[base+j-1] is lowercase
// and h[base+j] is uppercase. Both definitions need only the immediately
// preceding byte, so a single O(len(h)) scalar pass (reusing util's fixed
// ASCII classification, see internal/util's ClassifyByte/IsDelimiter)
// suffices — this is an O(n) setup step, not the O(needle*haystack)
// recurrence spec.md §4.1's SIMD-only contract binds. Grounded on
// _examples/original_source/src/smith_waterman/simd/algo.rs's
// char_is_delimiter_mask/capitalization_mask, which derive the same two
// conditions from a one-byte shift-with-carry across chunks.
func columnBonusMasks(h []byte, chunks int) (delim, cap []simd.V256U16) {
	delim = make([]simd.V256U16, chunks+1)
	cap = make([]simd.V256U16, chunks+1)

	prevDelim, prevLower := false, false
	for c := 1; c <= chunks; c++ {
		base := (c - 1) * simd.V128Lanes
		end := util.Min(base+simd.V128Lanes, len(h))
		var dv, cv simd.V256U16
		for j := 0; base+j < end; j++ {
			b := h[base+j]
			isDelim := util.IsDelimiter(b)
			isUpper := util.ClassifyByte(b) == util.ClassUpper
			if prevDelim && !isDelim {
				dv[j] = 0xFFFF
			}
			if prevLower && isUpper {
				cv[j] = 0xFFFF
			}
			prevDelim = isDelim
			prevLower = util.ClassifyByte(b) == util.ClassLower
		}
		delim[c] = dv
		cap[c] = cv
	}
	return delim, cap
}

// diagonalBonus computes the bonus added to a matched diagonal move at
// 1-indexed needle row i / haystack column col, per spec.md §4.3:
// PrefixBonus at (1,1); DelimiterBonus for the first non-delimiter byte
// after a delimiter; CapitalizationBonus for an uppercase byte following a
// lowercase one; MatchingCaseBonus for an exact (not just case-folded)
// byte match.
func diagonalBonus(s scoring.Scoring, n *needle.Needle, pidx int, h []byte, col, i int) uint16 {
	var bonus uint16
	if i == 1 && col == 1 {
		bonus = util.SatAdd16(bonus, s.PrefixBonus)
	}
	if col >= 2 {
		prev, cur := h[col-2], h[col-1]
		if util.IsDelimiter(prev) && !util.IsDelimiter(cur) {
			bonus = util.SatAdd16(bonus, s.DelimiterBonus)
		}
		if util.ClassifyByte(prev) == util.ClassLower && util.ClassifyByte(cur) == util.ClassUpper {
			bonus = util.SatAdd16(bonus, s.CapitalizationBonus)
		}
	}
	if n.EqualExact(pidx, h[col-1]) {
		bonus = util.SatAdd16(bonus, s.MatchingCaseBonus)
	}
	return bonus
}
