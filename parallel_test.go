package frizbee

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func buildParallelCorpus(n int) [][]byte {
	words := []string{"deadbeef", "deadbf", "deadbeefg", "deadbe", "nope", "qux", "fooBar", "foo_bar", "prelude"}
	out := make([][]byte, n)
	for i := 0; i < n; i++ {
		out[i] = []byte(fmt.Sprintf("%s%d", words[i%len(words)], i))
	}
	return out
}

// TestParallelParity is spec.md §8's "Parallel parity" property:
// match_list_parallel(n, H, cfg, w) == match_list(n, H, cfg) for all w >= 1,
// checked against both Sort settings and against worker counts both above
// and below parallelChunkSize's chunk count, exercising parallel.go's
// atomic chunk-claiming fan-out (grounded on
// _examples/original_source/src/one_shot/parallel.rs's match_list_parallel).
func TestParallelParity(t *testing.T) {
	haystacks := buildParallelCorpus(parallelChunkSize*3 + 37)
	needle := []byte("deadbe")

	for _, sort := range []bool{false, true} {
		cfg := Config{MaxTypos: nil, Sort: sort, Scoring: Default()}
		want := MatchList(needle, haystacks, cfg)

		for _, workers := range []int{1, 2, 4, 8} {
			got := MatchListParallel(needle, haystacks, cfg, workers)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("sort=%v workers=%d: parallel result mismatches serial (-want +got):\n%s", sort, workers, diff)
			}
		}
	}
}

// TestParallelParityIndices mirrors TestParallelParity for the
// MatchIndices-returning entry points.
func TestParallelParityIndices(t *testing.T) {
	haystacks := buildParallelCorpus(parallelChunkSize*2 + 5)
	needle := []byte("deadbe")

	for _, sort := range []bool{false, true} {
		cfg := Config{MaxTypos: nil, Sort: sort, Scoring: Default()}
		want := MatchListIndices(needle, haystacks, cfg)

		for _, workers := range []int{1, 3, 6} {
			got := MatchListIndicesParallel(needle, haystacks, cfg, workers)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("sort=%v workers=%d: parallel indices mismatch serial (-want +got):\n%s", sort, workers, diff)
			}
		}
	}
}

// TestParallelEmptyHaystacks checks the len(haystacks)==0 short-circuit
// returns nil rather than panicking on the zero-chunk case.
func TestParallelEmptyHaystacks(t *testing.T) {
	cfg := DefaultConfig()
	if got := MatchListParallel([]byte("x"), nil, cfg, 4); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}
