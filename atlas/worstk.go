package atlas

import (
	"container/heap"
	"sort"

	"anytime/internal/tree"
)

// worstKTracker retains the k replicates with the smallest coverage
// margin (the ones that came closest to, or fell into, exclusion)
// across a Monte Carlo run, using tree.MinHeap as a bounded max-heap
// over negated margins: the heap root is always the least-bad of the
// currently retained worst replicates, so it is the cheap one to evict
// when a worse replicate arrives.
type worstKTracker struct {
	k    int
	heap *tree.MinHeap
}

func newWorstKTracker(k int) *worstKTracker {
	if k < 0 {
		k = 0
	}
	return &worstKTracker{k: k, heap: tree.NewMinHeap(k)}
}

// observe records a replicate's coverage margin: how close the final
// interval came to excluding the ground truth. Negative margin means
// the interval already excludes it.
func (w *worstKTracker) observe(replicateID int64, margin float64) {
	if w.k == 0 {
		return
	}
	item := &tree.Item{ReplicateID: replicateID, CoverageMargin: -margin}
	if w.heap.Len() < w.k {
		heap.Push(w.heap, item)
		return
	}
	if -margin < w.heap.Top().CoverageMargin {
		return
	}
	heap.Pop(w.heap)
	heap.Push(w.heap, item)
}

// WorstReplicate is one entry of a worstKTracker snapshot: the
// original margin (un-negated) and the replicate it came from.
type WorstReplicate struct {
	ReplicateID    int64
	CoverageMargin float64
}

// worst returns the tracked replicates ordered from smallest (worst)
// margin to largest.
func (w *worstKTracker) worst() []WorstReplicate {
	out := make([]WorstReplicate, 0, w.heap.Len())
	for _, item := range *w.heap {
		out = append(out, WorstReplicate{ReplicateID: item.ReplicateID, CoverageMargin: -item.CoverageMargin})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CoverageMargin < out[j].CoverageMargin })
	return out
}
