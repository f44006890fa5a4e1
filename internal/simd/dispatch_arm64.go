//go:build arm64

package simd

import "golang.org/x/sys/cpu"

// PreferredChunkWidth mirrors dispatch_amd64.go's reasoning for arm64:
// NEON (ASIMD) is mandatory on arm64, but not every core benefits equally
// from wider batches, so this only widens when the CPU actually reports
// ASIMD (always true in practice on arm64, kept explicit for symmetry with
// the amd64 path and for documentation value).
func PreferredChunkWidth() int {
	if cpu.ARM64.HasASIMD {
		return V256Lanes
	}
	return V128Lanes
}
