//go:build amd64

package simd

import "golang.org/x/sys/cpu"

// PreferredChunkWidth reports a chunk-width hint for this CPU, picked by
// runtime feature detection: V256Lanes on AVX2-capable cores, V128Lanes
// otherwise. The engine and prefilter do not consult it; both always walk
// haystacks in V128Lanes-wide chunks.
func PreferredChunkWidth() int {
	if cpu.X86.HasAVX2 {
		return V256Lanes
	}
	return V128Lanes
}
