package haloc

import (
	"container/heap"
	"iter"
)

// hashEntry pairs a node index with its hash vector, in insertion order.
type hashEntry struct {
	index int
	hash  HashVector
}

// HashIndex is an append-only, ordered sequence of (node index, hash)
// pairs. It is the only record of which nodes have been hashed; the
// node bodies themselves live in a FeatureStore.
type HashIndex struct {
	entries []hashEntry
}

// NewHashIndex creates an empty HashIndex.
func NewHashIndex() *HashIndex {
	return &HashIndex{}
}

// Append adds a (index, hash) pair. index must be larger than every
// previously appended index; callers (the engine) guarantee this.
func (hi *HashIndex) Append(index int, h HashVector) {
	hi.entries = append(hi.entries, hashEntry{index: index, hash: h})
}

// Size returns the number of entries.
func (hi *HashIndex) Size() int { return len(hi.entries) }

// Iter yields every (index, hash) pair in insertion order.
func (hi *HashIndex) Iter() iter.Seq2[int, HashVector] {
	return func(yield func(int, HashVector) bool) {
		for _, e := range hi.entries {
			if !yield(e.index, e.hash) {
				return
			}
		}
	}
}

// Candidate is a ranked loop-closure candidate: a prior node index and
// its hash distance to the query.
type Candidate struct {
	Index int
	Dist  float64
}

// candHeap is a bounded max-heap (farthest candidate on top), used to
// keep a running top-N closest without sorting the whole index.
type candHeap []Candidate

func (h candHeap) Len() int { return len(h) }

// Less orders the worst candidate at the root: farthest first, ties by
// larger index, so eviction keeps the same entries a full sort
// (ascending by distance, ties by smaller index) would.
func (h candHeap) Less(i, j int) bool {
	if h[i].Dist != h[j].Dist {
		return h[i].Dist > h[j].Dist
	}
	return h[i].Index > h[j].Index
}
func (h candHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candHeap) Push(x any)        { *h = append(*h, x.(Candidate)) }
func (h *candHeap) Pop() (out any) {
	old := *h
	n := len(old)
	out = old[n-1]
	*h = old[:n-1]
	return out
}

// TopCandidates ranks legal candidates for query (the current node's
// hash) and returns up to n of the closest, ascending by distance with
// ties broken by smaller index.
//
// A candidate at stored index i is legal only if currentIndex - i >
// minNeighbour, so a query can never match itself or its immediate
// temporal neighborhood.
func (hi *HashIndex) TopCandidates(query HashVector, currentIndex, minNeighbour, n int) []Candidate {
	if n <= 0 {
		return nil
	}
	h := make(candHeap, 0, n+1)
	for _, e := range hi.entries {
		if currentIndex-e.index <= minNeighbour {
			continue
		}
		c := Candidate{Index: e.index, Dist: Match(query, e.hash)}
		heap.Push(&h, c)
		if h.Len() > n {
			heap.Pop(&h)
		}
	}

	out := make([]Candidate, len(h))
	copy(out, h)
	// Ascending by distance, ties by smaller index.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func less(a, b Candidate) bool {
	if a.Dist != b.Dist {
		return a.Dist < b.Dist
	}
	return a.Index < b.Index
}
