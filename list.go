package frizbee

// MatchList is the public one-shot convenience wrapper spec.md §6 lists as
// an out-of-core-scope external collaborator: build a Matcher, run it once,
// discard it. Callers driving many queries against the same haystack list
// should keep their own Matcher (or IncrementalMatcher) instead.
func MatchList(n []byte, haystacks [][]byte, cfg Config) []Match {
	return New(n, cfg).MatchList(haystacks)
}

// MatchListIndices is MatchList's MatchIndices-returning counterpart.
func MatchListIndices(n []byte, haystacks [][]byte, cfg Config) []MatchIndices {
	return New(n, cfg).MatchListIndices(haystacks)
}
