// Package tree computes nested-set positions for the category hierarchy.
//
// Every root starts its own tree (TreeID 1..n, roots ordered by name). Within
// a tree the nodes are numbered by a depth-first walk that visits siblings in
// name order, so a node's descendants are exactly the nodes whose Left lies
// strictly between its Left and Right.
package tree

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrCycle         = errors.New("tree: cycle")
	ErrUnknownParent = errors.New("tree: unknown parent")
	ErrUnknownNode   = errors.New("tree: unknown node")
)

// Node is the parent-pointer view of one category.
type Node struct {
	ID       int64
	ParentID *int64
	Name     string
}

// Position is a node's place in the nested-set encoding.
type Position struct {
	TreeID int
	Left   int
	Right  int
	Depth  int
}

// Contains reports whether q is a descendant of p.
func (p Position) Contains(q Position) bool {
	return p.TreeID == q.TreeID && p.Left < q.Left && q.Right < p.Right
}

// Build numbers every node. It fails when a parent is missing or when some
// nodes are unreachable from a root, which can only happen through a cycle.
func Build(nodes []Node) (map[int64]Position, error) {
	byID := make(map[int64]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	children := make(map[int64][]Node, len(nodes))
	var roots []Node
	for _, n := range nodes {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		if _, ok := byID[*n.ParentID]; !ok {
			return nil, fmt.Errorf("%w: node %d references %d", ErrUnknownParent, n.ID, *n.ParentID)
		}
		children[*n.ParentID] = append(children[*n.ParentID], n)
	}
	sortByName(roots)
	for id := range children {
		sortByName(children[id])
	}

	out := make(map[int64]Position, len(nodes))
	for i, root := range roots {
		counter := 0
		var walk func(n Node, depth int)
		walk = func(n Node, depth int) {
			counter++
			left := counter
			for _, child := range children[n.ID] {
				walk(child, depth+1)
			}
			counter++
			out[n.ID] = Position{TreeID: i + 1, Left: left, Right: counter, Depth: depth}
		}
		walk(root, 0)
	}

	if len(out) != len(nodes) {
		for _, n := range nodes {
			if _, ok := out[n.ID]; !ok {
				return nil, fmt.Errorf("%w: node %d is not reachable from a root", ErrCycle, n.ID)
			}
		}
	}
	return out, nil
}

// Reparent returns a copy of nodes with id moved under newParent (nil makes
// it a root). Moving a node under itself or one of its descendants fails with
// ErrCycle.
func Reparent(nodes []Node, id int64, newParent *int64) ([]Node, error) {
	parentOf := make(map[int64]*int64, len(nodes))
	for _, n := range nodes {
		parentOf[n.ID] = n.ParentID
	}
	if _, ok := parentOf[id]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	if newParent != nil {
		if _, ok := parentOf[*newParent]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownParent, *newParent)
		}
		// Walk up from the new parent; reaching id means id would become
		// its own ancestor.
		seen := make(map[int64]bool)
		for cur := newParent; cur != nil; cur = parentOf[*cur] {
			if *cur == id {
				return nil, fmt.Errorf("%w: cannot move %d under %d", ErrCycle, id, *newParent)
			}
			if seen[*cur] {
				return nil, fmt.Errorf("%w: existing cycle at %d", ErrCycle, *cur)
			}
			seen[*cur] = true
		}
	}

	out := make([]Node, len(nodes))
	copy(out, nodes)
	for i := range out {
		if out[i].ID == id {
			if newParent != nil {
				p := *newParent
				out[i].ParentID = &p
			} else {
				out[i].ParentID = nil
			}
		}
	}
	return out, nil
}

// Changed returns the ids whose position in next differs from current, in
// ascending order.
func Changed(current, next map[int64]Position) []int64 {
	var ids []int64
	for id, pos := range next {
		if cur, ok := current[id]; !ok || cur != pos {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortByName(ns []Node) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].Name != ns[j].Name {
			return ns[i].Name < ns[j].Name
		}
		return ns[i].ID < ns[j].ID
	})
}
