package graph

import (
	"fmt"

	"github.com/hgir-dev/hgir/internal/ops"
)

// NodeID is a stable handle to a node. Handles carry a generation counter so
// that a handle to a removed node is detected as stale even if its arena
// slot has been reused. The zero NodeID is never valid.
type NodeID struct {
	idx uint32
	gen uint32
}

// IsValid reports whether the handle could ever name a node. It does not
// check liveness; use Graph.Alive for that.
func (n NodeID) IsValid() bool { return n.gen != 0 }

// Index returns the arena slot index. Indices are dense over the life of a
// graph and reused after removal, so they are only meaningful together with
// the generation.
func (n NodeID) Index() int { return int(n.idx) }

func (n NodeID) String() string {
	if !n.IsValid() {
		return "Node(invalid)"
	}
	return fmt.Sprintf("Node(%d.%d)", n.idx, n.gen)
}

// Endpoint is one end of an edge: a node and a port index on it.
type Endpoint struct {
	Node NodeID
	Port int
}

// slot is the arena storage for one node. Ports are derived from the
// operation when the node is created or its operation replaced.
type slot struct {
	gen  uint32
	live bool

	op       ops.OpType
	parent   NodeID
	children []NodeID

	ins  []portState
	outs []portState

	orderSucc []NodeID
	orderPred []NodeID
}

type portState struct {
	info  ops.PortInfo
	links []Endpoint
}

func derivePorts(infos []ops.PortInfo) []portState {
	ports := make([]portState, len(infos))
	for i, info := range infos {
		ports[i].info = info
	}
	return ports
}

type arena struct {
	slots []slot
	free  []uint32
}

// alloc creates a live slot for op, reusing a freed slot when one exists.
// Generations start at 1 so the zero NodeID never matches.
func (a *arena) alloc(op ops.OpType) NodeID {
	ins := derivePorts(ops.InputPorts(op))
	outs := derivePorts(ops.OutputPorts(op))
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.live = true
		s.op = op
		s.ins, s.outs = ins, outs
		return NodeID{idx: idx, gen: s.gen}
	}
	a.slots = append(a.slots, slot{gen: 1, live: true, op: op, ins: ins, outs: outs})
	return NodeID{idx: uint32(len(a.slots) - 1), gen: 1}
}

// get resolves a handle to its slot, rejecting stale and dead handles.
func (a *arena) get(n NodeID) (*slot, bool) {
	if int(n.idx) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[n.idx]
	if !s.live || s.gen != n.gen {
		return nil, false
	}
	return s, true
}

// release frees a slot and bumps its generation so outstanding handles go
// stale.
func (a *arena) release(n NodeID) {
	s := &a.slots[n.idx]
	s.live = false
	s.gen++
	s.op = nil
	s.parent = NodeID{}
	s.children = nil
	s.ins, s.outs = nil, nil
	s.orderSucc, s.orderPred = nil, nil
	a.free = append(a.free, n.idx)
}
