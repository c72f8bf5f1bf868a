package graph

import (
	"sort"

	"github.com/hgir-dev/hgir/internal/ops"
	"github.com/hgir-dev/hgir/internal/types"
)

// Graph is a mutable module under construction. Not safe for concurrent
// mutation.
type Graph struct {
	arena arena
	root  NodeID
}

// Edge is a fully resolved edge for enumeration and serialization.
type Edge struct {
	Src     NodeID
	SrcPort int
	Dst     NodeID
	DstPort int
	Kind    ops.EdgeKind
}

// New creates a graph holding only the root Module node.
func New() *Graph {
	g := &Graph{}
	g.root = g.arena.alloc(ops.Module{})
	return g
}

// Root returns the module root. The root is never removable.
func (g *Graph) Root() NodeID { return g.root }

// Alive reports whether the handle names a live node.
func (g *Graph) Alive(n NodeID) bool {
	_, ok := g.arena.get(n)
	return ok
}

// NumNodes returns the number of live nodes.
func (g *Graph) NumNodes() int {
	return len(g.arena.slots) - len(g.arena.free)
}

// Nodes returns all live node handles in arena order. The root is always
// first.
func (g *Graph) Nodes() []NodeID {
	out := make([]NodeID, 0, g.NumNodes())
	for i := range g.arena.slots {
		s := &g.arena.slots[i]
		if s.live {
			out = append(out, NodeID{idx: uint32(i), gen: s.gen})
		}
	}
	return out
}

// Op returns the operation carried by the node.
func (g *Graph) Op(n NodeID) (ops.OpType, error) {
	s, ok := g.arena.get(n)
	if !ok {
		return nil, structuralf("Op", "node %s is not live", n)
	}
	return s.op, nil
}

// AddNode creates a node carrying op as the last child of parent. Ports are
// derived from the operation. Hierarchy shape rules are checked by the
// validator, not here, so invalid shapes can be built and then diagnosed.
func (g *Graph) AddNode(parent NodeID, op ops.OpType) (NodeID, error) {
	if _, ok := g.arena.get(parent); !ok {
		return NodeID{}, structuralf("AddNode", "parent %s is not live", parent)
	}
	n := g.arena.alloc(op)
	// alloc may grow the slot array, so the parent slot is resolved after it.
	s, _ := g.arena.get(n)
	s.parent = parent
	ps, _ := g.arena.get(parent)
	ps.children = append(ps.children, n)
	return n, nil
}

// ReplaceOp swaps the operation on a node, rederiving its ports. Every
// existing edge must remain compatible with the new port layout (same kind,
// equal type at the same index); otherwise nothing changes.
func (g *Graph) ReplaceOp(n NodeID, op ops.OpType) error {
	s, ok := g.arena.get(n)
	if !ok {
		return structuralf("ReplaceOp", "node %s is not live", n)
	}
	newIns := derivePorts(ops.InputPorts(op))
	newOuts := derivePorts(ops.OutputPorts(op))
	if err := checkRelayout("ReplaceOp", s.ins, newIns); err != nil {
		return err
	}
	if err := checkRelayout("ReplaceOp", s.outs, newOuts); err != nil {
		return err
	}
	carryLinks(s.ins, newIns)
	carryLinks(s.outs, newOuts)
	s.op = op
	s.ins, s.outs = newIns, newOuts
	return nil
}

// RetypeOp swaps the operation like ReplaceOp but lets connected ports
// change type, requiring only index and kind stability. The caller must
// retype the opposite endpoints too; the validator re-checks edge types.
func (g *Graph) RetypeOp(n NodeID, op ops.OpType) error {
	s, ok := g.arena.get(n)
	if !ok {
		return structuralf("RetypeOp", "node %s is not live", n)
	}
	newIns := derivePorts(ops.InputPorts(op))
	newOuts := derivePorts(ops.OutputPorts(op))
	if err := checkRekind("RetypeOp", s.ins, newIns); err != nil {
		return err
	}
	if err := checkRekind("RetypeOp", s.outs, newOuts); err != nil {
		return err
	}
	carryLinks(s.ins, newIns)
	carryLinks(s.outs, newOuts)
	s.op = op
	s.ins, s.outs = newIns, newOuts
	return nil
}

// carryLinks moves edge links from an old port layout to a new one by index.
// Old ports past the end of the new layout are unconnected; checkRekind and
// checkRelayout reject connected ones before this runs.
func carryLinks(old, new []portState) {
	for i := range old {
		if i >= len(new) {
			return
		}
		new[i].links = old[i].links
	}
}

// checkRekind verifies that every connected old port still exists in the
// new layout with the same kind.
func checkRekind(op string, old, new []portState) error {
	for i := range old {
		if len(old[i].links) == 0 {
			continue
		}
		if i >= len(new) {
			return structuralf(op, "connected port %d does not exist in the new layout", i)
		}
		if new[i].info.Kind != old[i].info.Kind {
			return structuralf(op, "connected port %d changes kind from %s to %s",
				i, old[i].info.Kind, new[i].info.Kind)
		}
	}
	return nil
}

// checkRelayout verifies that every connected old port still exists in the
// new layout with the same kind and type.
func checkRelayout(op string, old, new []portState) error {
	for i := range old {
		if len(old[i].links) == 0 {
			continue
		}
		if i >= len(new) {
			return structuralf(op, "connected port %d does not exist in the new layout", i)
		}
		if new[i].info.Kind != old[i].info.Kind {
			return structuralf(op, "connected port %d changes kind from %s to %s",
				i, old[i].info.Kind, new[i].info.Kind)
		}
		if old[i].info.Ty != nil && !types.Equal(old[i].info.Ty, new[i].info.Ty) {
			return structuralf(op, "connected port %d changes type from %s to %s",
				i, old[i].info.Ty, new[i].info.Ty)
		}
	}
	return nil
}

// InPorts returns the node's input port layout.
func (g *Graph) InPorts(n NodeID) ([]ops.PortInfo, error) {
	s, ok := g.arena.get(n)
	if !ok {
		return nil, structuralf("InPorts", "node %s is not live", n)
	}
	return portInfos(s.ins), nil
}

// OutPorts returns the node's output port layout.
func (g *Graph) OutPorts(n NodeID) ([]ops.PortInfo, error) {
	s, ok := g.arena.get(n)
	if !ok {
		return nil, structuralf("OutPorts", "node %s is not live", n)
	}
	return portInfos(s.outs), nil
}

func portInfos(ports []portState) []ops.PortInfo {
	infos := make([]ops.PortInfo, len(ports))
	for i := range ports {
		infos[i] = ports[i].info
	}
	return infos
}

// Direction selects a node's input or output port list for port mutations.
type Direction int

const (
	// In addresses input ports.
	In Direction = iota
	// Out addresses output ports.
	Out
)

func (d Direction) String() string {
	if d == In {
		return "input"
	}
	return "output"
}

// SetNumPorts grows or shrinks a node's port lists at the tail. New ports
// are unconnected placeholders with no kind or type; a subsequent ReplaceOp
// or RetypeOp rederives their layout from the operation. Shrinking away a
// connected port fails and nothing changes.
func (g *Graph) SetNumPorts(n NodeID, ins, outs int) error {
	s, ok := g.arena.get(n)
	if !ok {
		return structuralf("SetNumPorts", "node %s is not live", n)
	}
	if ins < 0 || outs < 0 {
		return structuralf("SetNumPorts", "port counts %d/%d are negative", ins, outs)
	}
	for p := ins; p < len(s.ins); p++ {
		if len(s.ins[p].links) > 0 {
			return structuralf("SetNumPorts", "input port %d of %s is still connected", p, n)
		}
	}
	for p := outs; p < len(s.outs); p++ {
		if len(s.outs[p].links) > 0 {
			return structuralf("SetNumPorts", "output port %d of %s is still connected", p, n)
		}
	}
	s.ins = resizePorts(s.ins, ins)
	s.outs = resizePorts(s.outs, outs)
	return nil
}

func resizePorts(ports []portState, n int) []portState {
	if n <= len(ports) {
		return ports[:n]
	}
	grown := make([]portState, n)
	copy(grown, ports)
	return grown
}

// InsertPorts inserts count unconnected placeholder ports at index in the
// chosen port list, shifting higher-numbered ports up by count. Edges on the
// shifted ports follow them: their opposite endpoints are renumbered, so
// port indices are only stable within an edit that does not touch this node.
func (g *Graph) InsertPorts(n NodeID, dir Direction, index, count int) error {
	s, ok := g.arena.get(n)
	if !ok {
		return structuralf("InsertPorts", "node %s is not live", n)
	}
	ports := &s.ins
	if dir == Out {
		ports = &s.outs
	}
	if index < 0 || index > len(*ports) {
		return structuralf("InsertPorts", "index %d out of range for %d %s ports", index, len(*ports), dir)
	}
	if count < 0 {
		return structuralf("InsertPorts", "count %d is negative", count)
	}
	if count == 0 {
		return nil
	}
	g.renumberRemote(n, dir, index, count, *ports)
	grown := make([]portState, len(*ports)+count)
	copy(grown, (*ports)[:index])
	copy(grown[index+count:], (*ports)[index:])
	*ports = grown
	return nil
}

// renumberRemote rewrites the opposite endpoints of every edge on ports
// numbered from or higher, adding delta to the port index they record.
func (g *Graph) renumberRemote(n NodeID, dir Direction, from, delta int, ports []portState) {
	for p := from; p < len(ports); p++ {
		for _, ep := range ports[p].links {
			rs, ok := g.arena.get(ep.Node)
			if !ok {
				continue
			}
			remote := &rs.outs[ep.Port].links
			if dir == Out {
				remote = &rs.ins[ep.Port].links
			}
			// One remote entry per link; parallel edges resolve in turn
			// because a renumbered entry no longer matches.
			for i := range *remote {
				if (*remote)[i] == (Endpoint{Node: n, Port: p}) {
					(*remote)[i].Port = p + delta
					break
				}
			}
		}
	}
}

// LinksOut returns the endpoints connected to an output port.
func (g *Graph) LinksOut(n NodeID, port int) ([]Endpoint, error) {
	s, ok := g.arena.get(n)
	if !ok {
		return nil, structuralf("LinksOut", "node %s is not live", n)
	}
	if port < 0 || port >= len(s.outs) {
		return nil, structuralf("LinksOut", "node %s has no output port %d", n, port)
	}
	return append([]Endpoint(nil), s.outs[port].links...), nil
}

// LinksIn returns the endpoints connected to an input port.
func (g *Graph) LinksIn(n NodeID, port int) ([]Endpoint, error) {
	s, ok := g.arena.get(n)
	if !ok {
		return nil, structuralf("LinksIn", "node %s is not live", n)
	}
	if port < 0 || port >= len(s.ins) {
		return nil, structuralf("LinksIn", "node %s has no input port %d", n, port)
	}
	return append([]Endpoint(nil), s.ins[port].links...), nil
}

// Connect adds an edge from an output port of src to an input port of dst.
// The ports must exist, have the same kind, and for value and static edges
// carry equal types. Value and static input ports accept at most one edge;
// a Linear value output port accepts at most one as well. Order edges go
// through ConnectOrder instead. On any failure the graph is unchanged.
func (g *Graph) Connect(src NodeID, srcPort int, dst NodeID, dstPort int) error {
	ss, ok := g.arena.get(src)
	if !ok {
		return structuralf("Connect", "source %s is not live", src)
	}
	ds, ok := g.arena.get(dst)
	if !ok {
		return structuralf("Connect", "destination %s is not live", dst)
	}
	if srcPort < 0 || srcPort >= len(ss.outs) {
		return structuralf("Connect", "node %s has no output port %d", src, srcPort)
	}
	if dstPort < 0 || dstPort >= len(ds.ins) {
		return structuralf("Connect", "node %s has no input port %d", dst, dstPort)
	}
	out, in := &ss.outs[srcPort], &ds.ins[dstPort]
	if out.info.Kind != in.info.Kind {
		return structuralf("Connect", "port kinds differ: %s output vs %s input",
			out.info.Kind, in.info.Kind)
	}
	switch out.info.Kind {
	case ops.KindOrder:
		return structuralf("Connect", "order edges are added with ConnectOrder")
	case ops.KindValue, ops.KindStatic:
		if !types.Equal(out.info.Ty, in.info.Ty) {
			return &StructuralError{Op: "Connect", Message: (&types.TypeMismatchError{
				Expected: in.info.Ty,
				Actual:   out.info.Ty,
				Context:  "edge endpoint types",
			}).Error()}
		}
		if len(in.links) > 0 {
			return structuralf("Connect", "input port %d of %s is already connected", dstPort, dst)
		}
		if out.info.Kind == ops.KindValue &&
			out.info.Ty.Bound() == types.Linear && len(out.links) > 0 {
			return &StructuralError{Op: "Connect", Message: (&types.LinearityError{
				Ty:      out.info.Ty,
				Message: "linear output already consumed",
			}).Error()}
		}
	case ops.KindControlFlow:
		// Multiple successors per port are representable; the validator
		// reports them as duplicate discriminants.
	}
	out.links = append(out.links, Endpoint{Node: dst, Port: dstPort})
	in.links = append(in.links, Endpoint{Node: src, Port: srcPort})
	return nil
}

// Disconnect removes the edge between the two ports, failing if no such
// edge exists.
func (g *Graph) Disconnect(src NodeID, srcPort int, dst NodeID, dstPort int) error {
	ss, ok := g.arena.get(src)
	if !ok {
		return structuralf("Disconnect", "source %s is not live", src)
	}
	ds, ok := g.arena.get(dst)
	if !ok {
		return structuralf("Disconnect", "destination %s is not live", dst)
	}
	if srcPort < 0 || srcPort >= len(ss.outs) {
		return structuralf("Disconnect", "node %s has no output port %d", src, srcPort)
	}
	if dstPort < 0 || dstPort >= len(ds.ins) {
		return structuralf("Disconnect", "node %s has no input port %d", dst, dstPort)
	}
	if !removeLink(&ss.outs[srcPort].links, Endpoint{Node: dst, Port: dstPort}) {
		return structuralf("Disconnect", "no edge from %s:%d to %s:%d", src, srcPort, dst, dstPort)
	}
	removeLink(&ds.ins[dstPort].links, Endpoint{Node: src, Port: srcPort})
	return nil
}

func removeLink(links *[]Endpoint, ep Endpoint) bool {
	for i, l := range *links {
		if l == ep {
			*links = append((*links)[:i], (*links)[i+1:]...)
			return true
		}
	}
	return false
}

// ConnectOrder records a pure sequencing constraint between two siblings:
// a must be scheduled before b. Order edges have no ports and carry no data.
func (g *Graph) ConnectOrder(a, b NodeID) error {
	as, ok := g.arena.get(a)
	if !ok {
		return structuralf("ConnectOrder", "node %s is not live", a)
	}
	bs, ok := g.arena.get(b)
	if !ok {
		return structuralf("ConnectOrder", "node %s is not live", b)
	}
	if a == b {
		return structuralf("ConnectOrder", "node %s cannot be ordered against itself", a)
	}
	if as.parent != bs.parent {
		return structuralf("ConnectOrder", "%s and %s are not siblings", a, b)
	}
	for _, succ := range as.orderSucc {
		if succ == b {
			return structuralf("ConnectOrder", "%s is already ordered before %s", a, b)
		}
	}
	as.orderSucc = append(as.orderSucc, b)
	bs.orderPred = append(bs.orderPred, a)
	return nil
}

// DisconnectOrder removes an ordering constraint.
func (g *Graph) DisconnectOrder(a, b NodeID) error {
	as, ok := g.arena.get(a)
	if !ok {
		return structuralf("DisconnectOrder", "node %s is not live", a)
	}
	bs, ok := g.arena.get(b)
	if !ok {
		return structuralf("DisconnectOrder", "node %s is not live", b)
	}
	if !removeNode(&as.orderSucc, b) {
		return structuralf("DisconnectOrder", "%s is not ordered before %s", a, b)
	}
	removeNode(&bs.orderPred, a)
	return nil
}

func removeNode(list *[]NodeID, n NodeID) bool {
	for i, m := range *list {
		if m == n {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// OrderSuccessors returns the nodes ordered after n.
func (g *Graph) OrderSuccessors(n NodeID) ([]NodeID, error) {
	s, ok := g.arena.get(n)
	if !ok {
		return nil, structuralf("OrderSuccessors", "node %s is not live", n)
	}
	return append([]NodeID(nil), s.orderSucc...), nil
}

// RemoveNode removes a childless, non-root node, disconnecting all its
// edges and ordering constraints. Outstanding handles to it go stale.
func (g *Graph) RemoveNode(n NodeID) error {
	s, ok := g.arena.get(n)
	if !ok {
		return structuralf("RemoveNode", "node %s is not live", n)
	}
	if n == g.root {
		return structuralf("RemoveNode", "the root cannot be removed")
	}
	if len(s.children) > 0 {
		return structuralf("RemoveNode", "node %s still has %d children", n, len(s.children))
	}
	g.stripEdges(n, s)
	if ps, ok := g.arena.get(s.parent); ok {
		removeNode(&ps.children, n)
	}
	g.arena.release(n)
	return nil
}

// RemoveSubtree removes a non-root node and everything beneath it.
func (g *Graph) RemoveSubtree(n NodeID) error {
	s, ok := g.arena.get(n)
	if !ok {
		return structuralf("RemoveSubtree", "node %s is not live", n)
	}
	if n == g.root {
		return structuralf("RemoveSubtree", "the root cannot be removed")
	}
	for len(s.children) > 0 {
		child := s.children[len(s.children)-1]
		if err := g.RemoveSubtree(child); err != nil {
			return err
		}
	}
	return g.RemoveNode(n)
}

// stripEdges disconnects every edge and order constraint incident to n.
func (g *Graph) stripEdges(n NodeID, s *slot) {
	for p := range s.outs {
		for _, ep := range s.outs[p].links {
			if ds, ok := g.arena.get(ep.Node); ok {
				removeLink(&ds.ins[ep.Port].links, Endpoint{Node: n, Port: p})
			}
		}
		s.outs[p].links = nil
	}
	for p := range s.ins {
		for _, ep := range s.ins[p].links {
			if ss, ok := g.arena.get(ep.Node); ok {
				removeLink(&ss.outs[ep.Port].links, Endpoint{Node: n, Port: p})
			}
		}
		s.ins[p].links = nil
	}
	for _, succ := range s.orderSucc {
		if bs, ok := g.arena.get(succ); ok {
			removeNode(&bs.orderPred, n)
		}
	}
	for _, pred := range s.orderPred {
		if as, ok := g.arena.get(pred); ok {
			removeNode(&as.orderSucc, n)
		}
	}
	s.orderSucc, s.orderPred = nil, nil
}

// Edges enumerates every ported edge once, sorted by source index, source
// port, destination index, destination port. Order constraints are not
// included; see OrderPairs.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for i := range g.arena.slots {
		s := &g.arena.slots[i]
		if !s.live {
			continue
		}
		src := NodeID{idx: uint32(i), gen: s.gen}
		for p := range s.outs {
			for _, ep := range s.outs[p].links {
				edges = append(edges, Edge{
					Src: src, SrcPort: p,
					Dst: ep.Node, DstPort: ep.Port,
					Kind: s.outs[p].info.Kind,
				})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Src.idx != b.Src.idx {
			return a.Src.idx < b.Src.idx
		}
		if a.SrcPort != b.SrcPort {
			return a.SrcPort < b.SrcPort
		}
		if a.Dst.idx != b.Dst.idx {
			return a.Dst.idx < b.Dst.idx
		}
		return a.DstPort < b.DstPort
	})
	return edges
}

// OrderPairs enumerates every ordering constraint once, sorted by the two
// node indices.
func (g *Graph) OrderPairs() [][2]NodeID {
	var pairs [][2]NodeID
	for i := range g.arena.slots {
		s := &g.arena.slots[i]
		if !s.live {
			continue
		}
		a := NodeID{idx: uint32(i), gen: s.gen}
		for _, b := range s.orderSucc {
			pairs = append(pairs, [2]NodeID{a, b})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0].idx != pairs[j][0].idx {
			return pairs[i][0].idx < pairs[j][0].idx
		}
		return pairs[i][1].idx < pairs[j][1].idx
	})
	return pairs
}
