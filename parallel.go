package frizbee

import (
	"container/heap"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/saghen/frizbee/internal/rank"
	"github.com/saghen/frizbee/internal/util"
)

// parallelChunkSize is the unit of work a worker claims at a time.
// Grounded on _examples/original_source/src/one_shot/parallel.rs's
// match_list_parallel, whose comment states the tradeoff directly:
// "Smaller chunks enable better load balancing via stealing but too small
// increases atomic contention" — 512 is the value the original crate picks.
const parallelChunkSize = 512

// MatchListParallel is spec.md §5/§6's parallel fan-out: workerCount worker
// goroutines each clone a Matcher and repeatedly claim the next unclaimed
// parallelChunkSize-sized haystack chunk from a shared atomic cursor,
// instead of being handed one fixed contiguous slice up front. Grounded on
// _examples/original_source/src/one_shot/parallel.rs's AtomicUsize
// work-stealing loop (the teacher's own src/matcher.go fans out over a
// static per-goroutine split; this module adopts the upstream crate's
// finer-grained claiming instead, since an unlucky static split leaves
// idle workers whenever one worker's haystacks score expensively). Chunk
// results are written into a slot preallocated by chunk index rather than
// appended in completion order, so the unsorted merge below stays in
// ascending haystack-index order regardless of which worker finishes which
// chunk first or when — spec.md §5's "Parallel parity" requires
// match_list_parallel's output to equal the serial result for every
// workerCount, under both Sort settings, not only when cfg.Sort is true.
// With cfg.Sort, each chunk is pre-sorted internally by MatchList and the
// chunks are k-way merged so the overall order is identical to the serial
// MatchList result.
//
// workerCount <= 0 defaults to runtime.NumCPU(), mirroring
// src/matcher.go's NewMatcher defaulting partitions to runtime.NumCPU().
func MatchListParallel(n []byte, haystacks [][]byte, cfg Config, workerCount int) []Match {
	if len(haystacks) == 0 {
		return nil
	}
	workerCount, numChunks := parallelPlan(len(haystacks), workerCount)

	partials := make([][]Match, numChunks)
	var cursor atomic.Int64
	var g errgroup.Group
	for w := 0; w < workerCount; w++ {
		g.Go(func() error {
			m := New(n, cfg)
			for {
				idx := int(cursor.Add(1)) - 1
				if idx >= numChunks {
					return nil
				}
				start := idx * parallelChunkSize
				end := util.Min(start+parallelChunkSize, len(haystacks))
				res := m.MatchList(haystacks[start:end])
				for j := range res {
					res[j].Index += uint32(start)
				}
				partials[idx] = res
			}
		})
	}
	_ = g.Wait() // worker closures never return an error

	if !cfg.Sort {
		total := 0
		for _, p := range partials {
			total += len(p)
		}
		out := make([]Match, 0, total)
		for _, p := range partials {
			out = append(out, p...)
		}
		return out
	}
	return mergeSortedMatches(partials)
}

// MatchListIndicesParallel is MatchListParallel's MatchIndices-returning
// counterpart.
func MatchListIndicesParallel(n []byte, haystacks [][]byte, cfg Config, workerCount int) []MatchIndices {
	if len(haystacks) == 0 {
		return nil
	}
	workerCount, numChunks := parallelPlan(len(haystacks), workerCount)

	partials := make([][]MatchIndices, numChunks)
	var cursor atomic.Int64
	var g errgroup.Group
	for w := 0; w < workerCount; w++ {
		g.Go(func() error {
			m := New(n, cfg)
			for {
				idx := int(cursor.Add(1)) - 1
				if idx >= numChunks {
					return nil
				}
				start := idx * parallelChunkSize
				end := util.Min(start+parallelChunkSize, len(haystacks))
				res := m.MatchListIndices(haystacks[start:end])
				for j := range res {
					res[j].Index += uint32(start)
				}
				partials[idx] = res
			}
		})
	}
	_ = g.Wait()

	if !cfg.Sort {
		total := 0
		for _, p := range partials {
			total += len(p)
		}
		out := make([]MatchIndices, 0, total)
		for _, p := range partials {
			out = append(out, p...)
		}
		return out
	}
	return mergeSortedMatchIndices(partials)
}

// parallelPlan reports how many worker goroutines to launch and how many
// parallelChunkSize-sized chunks haystackLen splits into, never launching
// more workers than there are chunks to claim.
func parallelPlan(haystackLen, workerCount int) (workers, numChunks int) {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	numChunks = (haystackLen + parallelChunkSize - 1) / parallelChunkSize
	if workerCount > numChunks {
		workerCount = numChunks
	}
	return workerCount, numChunks
}

// mergeHeapItem/matchHeap implement the k-way merge of per-worker sorted
// match slices, keyed by the same rank.Key the serial sort path uses, so
// parallel output with Sort=true is byte-for-byte identical to serial.
type mergeHeapItem struct {
	key      rank.Key
	sliceIdx int
	elemIdx  int
}

type matchMergeHeap []mergeHeapItem

func (h matchMergeHeap) Len() int           { return len(h) }
func (h matchMergeHeap) Less(i, j int) bool { return rank.Less(h[i].key, h[j].key) }
func (h matchMergeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *matchMergeHeap) Push(x interface{}) { *h = append(*h, x.(mergeHeapItem)) }
func (h *matchMergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func mergeSortedMatches(partials [][]Match) []Match {
	total := 0
	h := make(matchMergeHeap, 0, len(partials))
	for i, p := range partials {
		total += len(p)
		if len(p) > 0 {
			h = append(h, mergeHeapItem{key: rank.Of(p[0].Index, p[0].Score), sliceIdx: i, elemIdx: 0})
		}
	}
	heap.Init(&h)

	out := make([]Match, 0, total)
	for h.Len() > 0 {
		top := heap.Pop(&h).(mergeHeapItem)
		m := partials[top.sliceIdx][top.elemIdx]
		out = append(out, m)
		if next := top.elemIdx + 1; next < len(partials[top.sliceIdx]) {
			nm := partials[top.sliceIdx][next]
			heap.Push(&h, mergeHeapItem{key: rank.Of(nm.Index, nm.Score), sliceIdx: top.sliceIdx, elemIdx: next})
		}
	}
	return out
}

func mergeSortedMatchIndices(partials [][]MatchIndices) []MatchIndices {
	total := 0
	h := make(matchMergeHeap, 0, len(partials))
	for i, p := range partials {
		total += len(p)
		if len(p) > 0 {
			h = append(h, mergeHeapItem{key: rank.Of(p[0].Index, p[0].Score), sliceIdx: i, elemIdx: 0})
		}
	}
	heap.Init(&h)

	out := make([]MatchIndices, 0, total)
	for h.Len() > 0 {
		top := heap.Pop(&h).(mergeHeapItem)
		mi := partials[top.sliceIdx][top.elemIdx]
		out = append(out, mi)
		if next := top.elemIdx + 1; next < len(partials[top.sliceIdx]) {
			nmi := partials[top.sliceIdx][next]
			heap.Push(&h, mergeHeapItem{key: rank.Of(nmi.Index, nmi.Score), sliceIdx: top.sliceIdx, elemIdx: next})
		}
	}
	return out
}
