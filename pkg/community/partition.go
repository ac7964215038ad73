// Package community runs community detection over edge lists and selects the
// largest resulting groups.
package community

import (
	"sort"
)

// Partition maps a node id to its community id. Every node of the detected
// graph has exactly one entry.
type Partition map[int64]int64

// Group is one community and its members in ascending order.
type Group struct {
	ID      int64
	Members []int64
}

// Size returns the number of members.
func (g Group) Size() int {
	return len(g.Members)
}

// Communities returns the number of distinct community ids.
func (p Partition) Communities() int {
	seen := make(map[int64]struct{})
	for _, c := range p {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// GroupPartition inverts p into groups ordered by community id.
func GroupPartition(p Partition) []Group {
	byID := make(map[int64][]int64)
	for node, c := range p {
		byID[c] = append(byID[c], node)
	}

	groups := make([]Group, 0, len(byID))
	for id, members := range byID {
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		groups = append(groups, Group{ID: id, Members: members})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups
}

// Members returns the member lists of groups in order.
func Members(groups []Group) [][]int64 {
	out := make([][]int64, len(groups))
	for i, g := range groups {
		out[i] = g.Members
	}
	return out
}
