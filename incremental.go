package frizbee

import (
	"bytes"
	"sort"
)

// IncrementalMatcher implements spec.md §4.6: as a user extends their query
// one character at a time, it narrows the previous match set instead of
// rescoring the whole haystack list from scratch.
type IncrementalMatcher struct {
	cfg Config

	prevNeedle   []byte
	matched      []uint32 // ascending, indices into the prevHayCount haystacks of the last call
	prevHayCount int

	matcher *Matcher // nil until the first non-empty needle is seen
}

// NewIncrementalMatcher builds an IncrementalMatcher under cfg.
func NewIncrementalMatcher(cfg Config) *IncrementalMatcher {
	return &IncrementalMatcher{cfg: cfg}
}

// Reset clears all retained state, forcing a full rescore on the next call.
func (im *IncrementalMatcher) Reset() {
	im.prevNeedle = nil
	im.matched = nil
	im.prevHayCount = 0
}

// MatchList implements the §4.6 state machine for Match records.
func (im *IncrementalMatcher) MatchList(n []byte, haystacks [][]byte) []Match {
	out, _ := im.run(n, haystacks, false)
	return out
}

// MatchListIndices mirrors MatchList but returns MatchIndices records.
func (im *IncrementalMatcher) MatchListIndices(n []byte, haystacks [][]byte) []MatchIndices {
	_, outI := im.run(n, haystacks, true)
	return outI
}

// MatchListParallel fans MatchList out across workerCount goroutines
// whenever the case dispatched to is a full rescore (the only case large
// enough, and embarrassingly parallel enough, to be worth it); narrow
// passes stay serial since they touch only the previously matched subset.
func (im *IncrementalMatcher) MatchListParallel(n []byte, haystacks [][]byte, workerCount int) []Match {
	if im.isFullRescore(n, len(haystacks)) {
		out := MatchListParallel(n, haystacks, im.cfg, workerCount)
		im.commit(n, len(haystacks), out, nil)
		return out
	}
	return im.MatchList(n, haystacks)
}

func (im *IncrementalMatcher) isFullRescore(n []byte, haystackLen int) bool {
	if len(n) == 0 {
		return false
	}
	if len(im.prevNeedle) == 0 {
		return true
	}
	if !bytes.HasPrefix(n, im.prevNeedle) || bytes.Equal(n, im.prevNeedle) {
		return true
	}
	return haystackLen < im.prevHayCount
}

// run is shared by MatchList and MatchListIndices; withIndices selects
// which record type populates the non-nil return slot.
func (im *IncrementalMatcher) run(n []byte, haystacks [][]byte, withIndices bool) ([]Match, []MatchIndices) {
	H := len(haystacks)

	// Case "Empty": n == "".
	if len(n) == 0 {
		im.Reset()
		im.prevHayCount = H
		if withIndices {
			out := make([]MatchIndices, H)
			for i := range out {
				out[i] = MatchIndices{Match: Match{Index: uint32(i)}}
			}
			return nil, out
		}
		out := make([]Match, H)
		for i := range out {
			out[i] = Match{Index: uint32(i)}
		}
		return out, nil
	}

	im.ensureMatcher()
	im.matcher.SetNeedle(n)

	switch {
	case len(im.prevNeedle) != 0 && bytes.HasPrefix(n, im.prevNeedle) && !bytes.Equal(n, im.prevNeedle) && H == im.prevHayCount:
		return im.narrow(n, haystacks, withIndices, true)
	case len(im.prevNeedle) != 0 && bytes.HasPrefix(n, im.prevNeedle) && !bytes.Equal(n, im.prevNeedle) && H > im.prevHayCount:
		return im.narrowAndGrow(n, haystacks, withIndices)
	default:
		return im.fullRescore(n, haystacks, withIndices)
	}
}

func (im *IncrementalMatcher) ensureMatcher() {
	if im.matcher == nil {
		im.matcher = New(nil, im.cfg)
	}
}

// narrow implements spec.md §4.6's Narrow case: re-test only the
// previously matched indices, compacting matched in place. doSort controls
// whether the returned slice is sorted here; narrowAndGrow defers sorting
// until the tail is appended, to avoid sorting the head twice.
func (im *IncrementalMatcher) narrow(n []byte, haystacks [][]byte, withIndices, doSort bool) ([]Match, []MatchIndices) {
	write := 0
	var matchesOut []Match
	var indicesOut []MatchIndices
	if withIndices {
		indicesOut = make([]MatchIndices, 0, len(im.matched))
	} else {
		matchesOut = make([]Match, 0, len(im.matched))
	}

	for _, idx := range im.matched {
		h := haystacks[idx]
		if withIndices {
			mi, ok := im.matcher.matchOneIndices(h)
			if !ok {
				continue
			}
			mi.Index = idx
			indicesOut = append(indicesOut, mi)
		} else {
			mt, ok := im.matcher.matchOne(h)
			if !ok {
				continue
			}
			mt.Index = idx
			matchesOut = append(matchesOut, mt)
		}
		im.matched[write] = idx
		write++
	}
	im.matched = im.matched[:write]
	im.prevNeedle = append(im.prevNeedle[:0], n...)
	im.prevHayCount = len(haystacks)

	if doSort && im.cfg.Sort {
		if withIndices {
			sortMatchIndices(indicesOut)
		} else {
			sortMatches(matchesOut)
		}
	}
	return matchesOut, indicesOut
}

// narrowAndGrow implements the Narrow+grow case: narrow over the first
// prevHayCount haystacks, then full-match the newly appended tail.
func (im *IncrementalMatcher) narrowAndGrow(n []byte, haystacks [][]byte, withIndices bool) ([]Match, []MatchIndices) {
	head := haystacks[:im.prevHayCount]
	tail := haystacks[im.prevHayCount:]
	tailOffset := uint32(im.prevHayCount)

	headMatches, headIndices := im.narrow(n, head, withIndices, false)

	if withIndices {
		tailOut := im.matcher.MatchListIndices(tail)
		for i := range tailOut {
			tailOut[i].Index += tailOffset
			im.matched = append(im.matched, tailOut[i].Index)
		}
		headIndices = append(headIndices, tailOut...)
		im.prevHayCount = len(haystacks)
		sortUint32Ascending(im.matched)
		if im.cfg.Sort {
			sortMatchIndices(headIndices)
		}
		return nil, headIndices
	}

	tailOut := im.matcher.MatchList(tail)
	for i := range tailOut {
		tailOut[i].Index += tailOffset
		im.matched = append(im.matched, tailOut[i].Index)
	}
	headMatches = append(headMatches, tailOut...)
	im.prevHayCount = len(haystacks)
	sortUint32Ascending(im.matched)
	if im.cfg.Sort {
		sortMatches(headMatches)
	}
	return headMatches, nil
}

// fullRescore implements the Full rescore case.
func (im *IncrementalMatcher) fullRescore(n []byte, haystacks [][]byte, withIndices bool) ([]Match, []MatchIndices) {
	if withIndices {
		out := im.matcher.MatchListIndices(haystacks)
		im.commit(n, len(haystacks), nil, out)
		return nil, out
	}
	out := im.matcher.MatchList(haystacks)
	im.commit(n, len(haystacks), out, nil)
	return out, nil
}

func (im *IncrementalMatcher) commit(n []byte, hayCount int, matches []Match, indices []MatchIndices) {
	im.prevNeedle = append(im.prevNeedle[:0], n...)
	im.prevHayCount = hayCount
	if indices != nil {
		im.matched = make([]uint32, len(indices))
		for i, mi := range indices {
			im.matched[i] = mi.Index
		}
	} else {
		im.matched = make([]uint32, len(matches))
		for i, m := range matches {
			im.matched[i] = m.Index
		}
	}
	// matched_indices must stay ascending (spec's Incremental state
	// invariant) independent of cfg.Sort's score-ordering of the output.
	sortUint32Ascending(im.matched)
}

func sortUint32Ascending(s []uint32) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}
