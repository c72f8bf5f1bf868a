package graph

import (
	"sort"

	"github.com/hgir-dev/hgir/internal/ops"
)

// TopoRegion returns the children of region in a deterministic topological
// order with respect to the value, static, and order edges whose endpoints
// are both siblings in the region. Ties break on arena index, so the result
// is stable across runs for the same construction sequence. Control-flow
// edges are ignored: CFG regions may legitimately contain cycles.
func (g *Graph) TopoRegion(region NodeID) ([]NodeID, error) {
	s, ok := g.arena.get(region)
	if !ok {
		return nil, structuralf("TopoRegion", "node %s is not live", region)
	}

	member := make(map[NodeID]bool, len(s.children))
	for _, c := range s.children {
		member[c] = true
	}

	indeg := make(map[NodeID]int, len(s.children))
	succs := make(map[NodeID][]NodeID, len(s.children))
	for _, c := range s.children {
		indeg[c] = 0
	}
	addDep := func(from, to NodeID) {
		succs[from] = append(succs[from], to)
		indeg[to]++
	}
	for _, c := range s.children {
		cs, _ := g.arena.get(c)
		for p := range cs.outs {
			if cs.outs[p].info.Kind == ops.KindControlFlow {
				continue
			}
			for _, ep := range cs.outs[p].links {
				if member[ep.Node] {
					addDep(c, ep.Node)
				}
			}
		}
		for _, succ := range cs.orderSucc {
			if member[succ] {
				addDep(c, succ)
			}
		}
	}

	ready := make([]NodeID, 0, len(s.children))
	for _, c := range s.children {
		if indeg[c] == 0 {
			ready = append(ready, c)
		}
	}
	byIndex := func(i, j int) bool { return ready[i].idx < ready[j].idx }

	out := make([]NodeID, 0, len(s.children))
	for len(ready) > 0 {
		sort.Slice(ready, byIndex)
		n := ready[0]
		ready = ready[1:]
		out = append(out, n)
		for _, succ := range succs[n] {
			indeg[succ]--
			if indeg[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}
	if len(out) != len(s.children) {
		var stuck []string
		for _, c := range s.children {
			if indeg[c] > 0 {
				stuck = append(stuck, c.String())
			}
		}
		sort.Strings(stuck)
		return nil, structuralf("TopoRegion", "dependency cycle among %v", stuck)
	}
	return out, nil
}
