//go:build !amd64 && !arm64

package simd

// PreferredChunkWidth is the portable fallback for ISAs without a feature
// probe wired in (spec.md §9: "A portable reimplementation should define
// the vector vocabulary once and supply implementations per ISA"). One
// V128Lanes-wide chunk at a time is always correct; it's just the baseline
// speed.
func PreferredChunkWidth() int {
	return V128Lanes
}
