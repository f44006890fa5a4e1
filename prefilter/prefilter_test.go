package prefilter

import (
	"testing"

	"github.com/saghen/frizbee/internal/needle"
	"github.com/saghen/frizbee/internal/scoring"
)

func newPrefilter(t *testing.T, pattern string) *Prefilter {
	t.Helper()
	return New(needle.New([]byte(pattern), scoring.Default()))
}

func zero() *int {
	z := 0
	return &z
}

func TestExactCoverage(t *testing.T) {
	p := newPrefilter(t, "deadbe")
	ok, _ := p.MatchHaystack([]byte("deadbeef"), zero())
	if !ok {
		t.Fatal("expected deadbe to prefilter-match deadbeef")
	}
	// deadbf holds every needle byte inside its single 16-byte chunk. The
	// scan does not check order within a chunk, so it admits deadbf and
	// leaves the rejection to the DP stage.
	ok, _ = p.MatchHaystack([]byte("deadbf"), zero())
	if !ok {
		t.Fatal("deadbe should prefilter-match deadbf (order within a chunk is not checked)")
	}
}

func TestCaseInsensitive(t *testing.T) {
	p := newPrefilter(t, "test")
	ok, _ := p.MatchHaystack([]byte("Uterst"), zero())
	if !ok {
		t.Fatal("expected case-insensitive prefilter match")
	}
}

func TestTypoBudget(t *testing.T) {
	p := newPrefilter(t, "abc")
	one := 1
	ok, _ := p.MatchHaystack([]byte("axc"), &one)
	if !ok {
		t.Fatal("1 missing char should pass with max_typos=1")
	}
	ok, _ = p.MatchHaystack([]byte("xxc"), &one)
	if ok {
		t.Fatal("2 missing chars should fail with max_typos=1")
	}
}

func TestUnboundedTyposAlwaysPasses(t *testing.T) {
	p := newPrefilter(t, "zzzznotpresent")
	ok, _ := p.MatchHaystack([]byte("some random haystack"), nil)
	if !ok {
		t.Fatal("nil max_typos must disable prefilter rejection")
	}
}

func TestEmptyNeedleAlwaysPasses(t *testing.T) {
	p := newPrefilter(t, "")
	ok, _ := p.MatchHaystack([]byte("anything"), zero())
	if !ok {
		t.Fatal("empty needle must always pass the prefilter")
	}
}

func TestShortHaystackScalarPath(t *testing.T) {
	p := newPrefilter(t, "ab")
	ok, _ := p.MatchHaystack([]byte("xab"), zero())
	if !ok {
		t.Fatal("expected match on short (<8 byte) haystack")
	}
	ok, _ = p.MatchHaystack([]byte("xa"), zero())
	if ok {
		t.Fatal("expected no match: 'b' is absent")
	}
}

func TestSkippedChunksIsSafeLowerBound(t *testing.T) {
	p := newPrefilter(t, "z")
	haystack := make([]byte, 40)
	for i := range haystack {
		haystack[i] = 'x'
	}
	haystack[33] = 'z'
	ok, skipped := p.MatchHaystack(haystack, zero())
	if !ok {
		t.Fatal("expected match")
	}
	if skipped*16 > 33 {
		t.Fatalf("skippedChunks=%d skips past the only match at byte 33", skipped)
	}
}

func TestLongHaystackOverlapNoOverread(t *testing.T) {
	p := newPrefilter(t, "end")
	haystack := []byte("0123456789012345678901234567890end")
	ok, _ := p.MatchHaystack(haystack, zero())
	if !ok {
		t.Fatal("expected match at the tail of a non-16-aligned haystack")
	}
}
