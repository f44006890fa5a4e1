// Package prefilter implements the SIMD bitmask scan that cheaply rejects
// haystacks that cannot contain the needle characters (spec.md §4.2),
// bypassing the DP stage (package engine) for the vast majority of
// candidates in a typical fuzzy-finder workload.
//
// Grounded on github.com/junegunn/fzf/src/algo/algo.go's asciiFuzzyIndex/
// trySkip, which already implement the same idea at the scalar level (walk
// the needle forward, skip to the next occurrence of each byte via
// bytes.IndexByte, bail if any byte is entirely absent). This package
// generalizes that into the chunked, typo-tolerant, SIMD-lane scan spec.md
// §4.2 specifies, reusing fzf's "first occurrence position becomes the
// safe skip offset" idea as the basis for skippedChunks.
package prefilter

import (
	"github.com/saghen/frizbee/internal/needle"
	"github.com/saghen/frizbee/internal/simd"
)

const chunkSize = simd.V128Lanes

// Prefilter rejects haystacks that cannot satisfy a fixed needle.
type Prefilter struct {
	needle *needle.Needle
}

// New builds a Prefilter for n.
func New(n *needle.Needle) *Prefilter {
	return &Prefilter{needle: n}
}

// MatchHaystack implements spec.md §4.2's contract. maxTypos == nil means
// the caller's Config.MaxTypos is unset ("disables typo filtering (every
// prefiltered candidate is scored and kept)" per spec.md §3); per that
// rule the prefilter never rejects and always reports true, leaving all
// filtering to the DP stage.
func (p *Prefilter) MatchHaystack(haystack []byte, maxTypos *int) (ok bool, skippedChunks int) {
	m := p.needle.Len()
	if m == 0 {
		return true, 0
	}
	if maxTypos == nil {
		return true, 0
	}
	return p.scan(haystack, *maxTypos)
}

// scan is the single implementation backing both the chunked SIMD path and
// the "scalar fallback" spec.md §4.2 calls for on haystacks shorter than 8
// bytes: for tiny inputs the chunk loop below naturally runs exactly once
// over the whole haystack with no overlap adjustment, which is the scalar
// behavior spec.md asks for, under the same code path (so the two can
// never silently diverge).
func (p *Prefilter) scan(haystack []byte, maxTypos int) (bool, int) {
	n := p.needle
	m := n.Len()
	pidx := 0
	skippedChunks := -1

	if len(haystack) == 0 {
		unmatched := m - pidx
		return unmatched <= maxTypos, 0
	}

	pos, resume, typos := 0, 0, 0
	for pidx < m {
		end := pos + chunkSize
		if end > len(haystack) {
			if len(haystack) >= chunkSize {
				// Overlap the final chunk with the previous bytes instead
				// of reading past the buffer or falling back to a
				// separate scalar tail loop (spec.md §4.2).
				pos = len(haystack) - chunkSize
			}
			end = len(haystack)
		}
		chunk := haystack[pos:end]

		for pidx < m {
			lane := firstFoldedMatch(n, pidx, chunk)
			if lane < 0 {
				break // Not in this chunk; try the next one at the same pidx.
			}
			if skippedChunks == -1 {
				skippedChunks = (pos + lane) / chunkSize
			}
			pidx++
			resume = pos
		}
		if pidx == m {
			return true, skippedChunks
		}
		if end == len(haystack) {
			// Needle byte pidx has no home in the rest of the haystack:
			// count it as a typo and search for the next needle byte from
			// the chunk of the last match.
			typos++
			if typos > maxTypos {
				break
			}
			pidx++
			pos = resume
			continue
		}
		pos = end
	}

	if skippedChunks == -1 {
		skippedChunks = 0
	}
	return typos <= maxTypos, skippedChunks
}

// firstFoldedMatch returns the lowest lane index in chunk whose byte folds
// (ASCII case-insensitively) to needle byte pidx, or -1. Compares against
// both the lower- and upper-case broadcasts of the needle byte (spec.md
// §3's "(c_lower, c_upper) per byte") rather than folding the haystack
// chunk, so the haystack is never copied.
func firstFoldedMatch(n *needle.Needle, pidx int, chunk []byte) int {
	v := simd.LoadPartialV128(chunk, 0)
	lowerMask := simd.EqU8(v, n.LowerB[pidx])
	upperMask := simd.EqU8(v, n.UpperB[pidx])
	for i := 0; i < len(chunk); i++ {
		if lowerMask[i] != 0 || upperMask[i] != 0 {
			return i
		}
	}
	return -1
}
