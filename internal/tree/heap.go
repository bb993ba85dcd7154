// Package tree provides a generic priority min-heap over container/heap,
// used by the atlas package to track the K replicates with the worst
// coverage margin across a Monte-Carlo run.
package tree

import "container/heap"

// Item is one entry in a MinHeap: a replicate identifier ordered by its
// coverage margin (lower margin sorts first).
type Item struct {
	ReplicateID    int64
	CoverageMargin float64
	Index          int
}

// MinHeap orders Items by ascending CoverageMargin, ReplicateID as a
// tiebreaker.
type MinHeap []*Item

func (mh MinHeap) Len() int { return len(mh) }

func (mh MinHeap) Less(i, j int) bool {
	if mh[i].CoverageMargin == mh[j].CoverageMargin {
		return mh[i].ReplicateID < mh[j].ReplicateID
	}
	return mh[i].CoverageMargin < mh[j].CoverageMargin
}

func (mh MinHeap) Swap(i, j int) {
	mh[i], mh[j] = mh[j], mh[i]
	mh[i].Index = i
	mh[j].Index = j
}

func (mh *MinHeap) Push(x interface{}) {
	n := len(*mh)
	item := x.(*Item)
	item.Index = n
	*mh = append(*mh, item)
}

func (mh *MinHeap) Pop() interface{} {
	old := *mh
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*mh = old[0 : n-1]
	return item
}

func (mh *MinHeap) Top() *Item {
	arr := *mh
	return arr[0]
}

func (mh *MinHeap) Update(item *Item, replicateID int64, coverageMargin float64) {
	item.ReplicateID = replicateID
	item.CoverageMargin = coverageMargin
	heap.Fix(mh, item.Index)
}

// NewMinHeap builds an empty, heap-initialized MinHeap with initSize
// pre-allocated capacity.
func NewMinHeap(initSize int) *MinHeap {
	mh := make(MinHeap, 0, initSize)
	heap.Init(&mh)
	return &mh
}
