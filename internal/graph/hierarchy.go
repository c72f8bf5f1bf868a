package graph

import "errors"

// Parent returns the parent of n. The root reports ok=false.
func (g *Graph) Parent(n NodeID) (NodeID, bool) {
	s, live := g.arena.get(n)
	if !live || !s.parent.IsValid() {
		return NodeID{}, false
	}
	return s.parent, true
}

// Children returns the ordered children of n. Child order is significant:
// dataflow containers require their Input first and Output second, and a
// CFG requires its entry first and exit second.
func (g *Graph) Children(n NodeID) ([]NodeID, error) {
	s, ok := g.arena.get(n)
	if !ok {
		return nil, structuralf("Children", "node %s is not live", n)
	}
	return append([]NodeID(nil), s.children...), nil
}

// NumChildren returns the number of children of n, zero for dead handles.
func (g *Graph) NumChildren(n NodeID) int {
	s, ok := g.arena.get(n)
	if !ok {
		return 0
	}
	return len(s.children)
}

// Contains reports whether n lies strictly beneath ancestor.
func (g *Graph) Contains(ancestor, n NodeID) bool {
	s, ok := g.arena.get(n)
	if !ok {
		return false
	}
	for s.parent.IsValid() {
		if s.parent == ancestor {
			return true
		}
		if s, ok = g.arena.get(s.parent); !ok {
			return false
		}
	}
	return false
}

// SetParent moves n to be the last child of parent. Moving the root, or
// moving a node into its own subtree, fails. Edges and ordering constraints
// are untouched; a move that breaks sibling-scoped constraints surfaces at
// validation.
func (g *Graph) SetParent(n, parent NodeID) error {
	s, ok := g.arena.get(n)
	if !ok {
		return structuralf("SetParent", "node %s is not live", n)
	}
	ps, ok := g.arena.get(parent)
	if !ok {
		return structuralf("SetParent", "parent %s is not live", parent)
	}
	if n == g.root {
		return structuralf("SetParent", "the root cannot be reparented")
	}
	if n == parent || g.Contains(n, parent) {
		return structuralf("SetParent", "%s lies within the subtree of %s", parent, n)
	}
	if old, ok := g.arena.get(s.parent); ok {
		removeNode(&old.children, n)
	}
	s.parent = parent
	ps.children = append(ps.children, n)
	return nil
}

// Detach removes n from its parent's child list, leaving it rootless.
// Rootless nodes are legal transiently during construction; the validator
// reports any that remain. Edges and ordering constraints are untouched.
func (g *Graph) Detach(n NodeID) error {
	s, ok := g.arena.get(n)
	if !ok {
		return structuralf("Detach", "node %s is not live", n)
	}
	if n == g.root {
		return structuralf("Detach", "the root cannot be detached")
	}
	if ps, ok := g.arena.get(s.parent); ok {
		removeNode(&ps.children, n)
	}
	s.parent = NodeID{}
	return nil
}

// InsertBefore moves n directly before sibling in sibling's parent's child
// list.
func (g *Graph) InsertBefore(n, sibling NodeID) error {
	sib, ok := g.arena.get(sibling)
	if !ok {
		return structuralf("InsertBefore", "node %s is not live", sibling)
	}
	if !sib.parent.IsValid() {
		return structuralf("InsertBefore", "the root has no siblings")
	}
	if n == sibling {
		return structuralf("InsertBefore", "node %s cannot be inserted before itself", n)
	}
	if err := g.SetParent(n, sib.parent); err != nil {
		var serr *StructuralError
		if errors.As(err, &serr) {
			return &StructuralError{Op: "InsertBefore", Message: serr.Message}
		}
		return err
	}
	ps, _ := g.arena.get(sib.parent)
	removeNode(&ps.children, n)
	for i, c := range ps.children {
		if c == sibling {
			ps.children = append(ps.children[:i], append([]NodeID{n}, ps.children[i:]...)...)
			return nil
		}
	}
	// Unreachable: sibling is a child of its own parent.
	ps.children = append(ps.children, n)
	return nil
}
