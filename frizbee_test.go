package frizbee

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func zeroTypos() *int {
	z := 0
	return &z
}

// TestEndToEndScenarioOne is spec.md §8's concrete scenario 1: needle
// "deadbe" over ["deadbeef", "deadbf", "deadbeefg", "deadbe"] with
// max_typos=0 and sort=true keeps exactly the three haystacks that cover
// every needle byte, in descending-score order [3, 0, 2], with index 3
// (the exact match) the only exact=true result.
func TestEndToEndScenarioOne(t *testing.T) {
	cfg := Config{MaxTypos: zeroTypos(), Sort: true, Scoring: Default()}
	haystacks := [][]byte{[]byte("deadbeef"), []byte("deadbf"), []byte("deadbeefg"), []byte("deadbe")}
	got := MatchList([]byte("deadbe"), haystacks, cfg)

	wantOrder := []uint32{3, 0, 2}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d matches, want %d: %+v", len(got), len(wantOrder), got)
	}
	gotOrder := make([]uint32, len(got))
	for i, m := range got {
		gotOrder[i] = m.Index
	}
	if diff := cmp.Diff(wantOrder, gotOrder); diff != "" {
		t.Fatalf("match order mismatch (-want +got):\n%s", diff)
	}
	for _, m := range got {
		want := m.Index == 3
		if m.Exact != want {
			t.Fatalf("index %d: Exact=%v, want %v", m.Index, m.Exact, want)
		}
	}
}

// TestEndToEndScenarioTwo is spec.md §8's scenario 2: the same needle and
// haystacks with typo filtering disabled (max_typos=nil) admits all four
// haystacks, ordered [3, 0, 2, 1] with index 1 lowest-scoring.
func TestEndToEndScenarioTwo(t *testing.T) {
	cfg := Config{MaxTypos: nil, Sort: true, Scoring: Default()}
	haystacks := [][]byte{[]byte("deadbeef"), []byte("deadbf"), []byte("deadbeefg"), []byte("deadbe")}
	got := MatchList([]byte("deadbe"), haystacks, cfg)

	wantOrder := []uint32{3, 0, 2, 1}
	gotOrder := make([]uint32, len(got))
	for i, m := range got {
		gotOrder[i] = m.Index
	}
	if diff := cmp.Diff(wantOrder, gotOrder); diff != "" {
		t.Fatalf("match order mismatch (-want +got):\n%s", diff)
	}
	if got[len(got)-1].Index != 1 {
		t.Fatalf("lowest-scoring match index = %d, want 1", got[len(got)-1].Index)
	}
	for i := 0; i+1 < len(got); i++ {
		if got[i].Score < got[i+1].Score {
			t.Fatalf("scores not non-increasing at %d: %d < %d", i, got[i].Score, got[i+1].Score)
		}
	}
}

// TestEmptyNeedle is spec.md §8's "Empty needle" property: match_list("", H)
// returns exactly H records, scores zero, indices 0..|H|, regardless of Sort.
func TestEmptyNeedle(t *testing.T) {
	haystacks := [][]byte{[]byte("abc"), []byte("xyz"), []byte("")}
	for _, sort := range []bool{false, true} {
		cfg := Config{Sort: sort, Scoring: Default()}
		got := MatchList(nil, haystacks, cfg)
		if len(got) != len(haystacks) {
			t.Fatalf("sort=%v: got %d matches, want %d", sort, len(got), len(haystacks))
		}
		for i, m := range got {
			if m.Score != 0 {
				t.Fatalf("sort=%v: match %d score = %d, want 0", sort, i, m.Score)
			}
			if m.Index != uint32(i) {
				t.Fatalf("sort=%v: match %d index = %d, want %d", sort, i, m.Index, i)
			}
		}
	}
}

// TestOrderInvarianceUnsorted is spec.md §8's "Order invariance of
// haystacks": with Sort=false, the i-th Match's index is strictly less
// than the (i+1)-th's.
func TestOrderInvarianceUnsorted(t *testing.T) {
	cfg := Config{Sort: false, Scoring: Default()}
	haystacks := [][]byte{
		[]byte("deadbeef"), []byte("nope"), []byte("deadbf"), []byte("xyz"),
		[]byte("deadbeefg"), []byte("deadbe"), []byte("qux"),
	}
	got := MatchList([]byte("deadbe"), haystacks, cfg)
	for i := 0; i+1 < len(got); i++ {
		if got[i].Index >= got[i+1].Index {
			t.Fatalf("unsorted order violated at %d: index %d >= %d", i, got[i].Index, got[i+1].Index)
		}
	}
}

// TestRoundTripIndices is spec.md §8's "Round-trip indices" property: every
// MatchIndices result has ascending, unique indices bounded by the haystack
// length, and with max_typos=0 the index count equals the needle length.
func TestRoundTripIndices(t *testing.T) {
	cfg := Config{MaxTypos: zeroTypos(), Sort: true, Scoring: Default()}
	haystacks := [][]byte{[]byte("deadbeef"), []byte("deadbeefg"), []byte("deadbe")}
	got := MatchListIndices([]byte("deadbe"), haystacks, cfg)
	if len(got) == 0 {
		t.Fatal("expected at least one match")
	}
	for _, mi := range got {
		if len(mi.Indices) != len("deadbe") {
			t.Fatalf("index %d: got %d indices, want %d (max_typos=0)", mi.Index, len(mi.Indices), len("deadbe"))
		}
		seen := map[int]bool{}
		for j, idx := range mi.Indices {
			if idx < 0 || idx >= len(haystacks[mi.Index]) {
				t.Fatalf("index %d: indices[%d]=%d out of bounds for haystack len %d", mi.Index, j, idx, len(haystacks[mi.Index]))
			}
			if seen[idx] {
				t.Fatalf("index %d: duplicate haystack index %d", mi.Index, idx)
			}
			seen[idx] = true
			if j > 0 && idx <= mi.Indices[j-1] {
				t.Fatalf("index %d: indices not strictly ascending at %d: %d <= %d", mi.Index, j, idx, mi.Indices[j-1])
			}
		}
	}
}
