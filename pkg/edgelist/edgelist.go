// Package edgelist reads, writes and combines blockchain transaction edge
// lists ("source target [weight]" per line).
package edgelist

import "sort"

// Edge is one transaction link between two addresses.
type Edge struct {
	Source int64
	Target int64
	Weight float64 // 1 for unweighted input
}

// EdgeList is an ordered sequence of edges. Duplicates are kept as separate rows.
type EdgeList struct {
	Edges    []Edge
	Weighted bool
}

// Len returns the number of rows.
func (el EdgeList) Len() int {
	return len(el.Edges)
}

// Nodes returns the distinct node ids in ascending order.
func (el EdgeList) Nodes() []int64 {
	seen := make(map[int64]struct{}, len(el.Edges))
	for _, e := range el.Edges {
		seen[e.Source] = struct{}{}
		seen[e.Target] = struct{}{}
	}
	nodes := make([]int64, 0, len(seen))
	for id := range seen {
		nodes = append(nodes, id)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// NodeSet collects node ids from any number of member lists.
func NodeSet(memberLists ...[]int64) map[int64]struct{} {
	set := make(map[int64]struct{})
	for _, members := range memberLists {
		for _, id := range members {
			set[id] = struct{}{}
		}
	}
	return set
}

// Filter keeps the edges touching at least one seed node (source OR target),
// in their original order.
func Filter(el EdgeList, seeds map[int64]struct{}) EdgeList {
	out := EdgeList{Weighted: el.Weighted, Edges: make([]Edge, 0)}
	for _, e := range el.Edges {
		_, src := seeds[e.Source]
		_, dst := seeds[e.Target]
		if src || dst {
			out.Edges = append(out.Edges, e)
		}
	}
	return out
}

// Concat appends b after a. Rows present in both are kept twice: a repeated
// edge marks activity that continued into the later window.
func Concat(a, b EdgeList) EdgeList {
	edges := make([]Edge, 0, len(a.Edges)+len(b.Edges))
	edges = append(edges, a.Edges...)
	edges = append(edges, b.Edges...)
	return EdgeList{
		Edges:    edges,
		Weighted: a.Weighted && b.Weighted,
	}
}
