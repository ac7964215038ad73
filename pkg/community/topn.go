package community

import (
	"container/heap"
	"sort"
)

// groupHeap is a min-heap keyed on rank, weakest group on top.
type groupHeap []Group

func (h groupHeap) Len() int           { return len(h) }
func (h groupHeap) Less(i, j int) bool { return outranks(h[j], h[i]) }
func (h groupHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *groupHeap) Push(x any) {
	*h = append(*h, x.(Group))
}

func (h *groupHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// outranks orders groups by size descending, then by community id ascending.
func outranks(a, b Group) bool {
	if a.Size() != b.Size() {
		return a.Size() > b.Size()
	}
	return a.ID < b.ID
}

// TopN returns the n largest communities of p, largest first. Equal sizes
// rank the smaller community id first. Community ids are kept as detected.
// Fewer than n groups are returned when p has fewer communities.
func TopN(p Partition, n int) ([]Group, error) {
	if n <= 0 {
		return nil, ErrInvalidTopN
	}

	groups := GroupPartition(p)
	if len(groups) == 0 {
		return []Group{}, nil
	}

	h := make(groupHeap, 0, n)
	heap.Init(&h)
	for _, g := range groups {
		if h.Len() < n {
			heap.Push(&h, g)
			continue
		}
		if outranks(g, h[0]) {
			h[0] = g
			heap.Fix(&h, 0)
		}
	}

	result := make([]Group, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(Group)
	}
	sort.SliceStable(result, func(i, j int) bool { return outranks(result[i], result[j]) })
	return result, nil
}
