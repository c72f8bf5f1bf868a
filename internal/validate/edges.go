package validate

import (
	"github.com/hgir-dev/hgir/internal/graph"
	"github.com/hgir-dev/hgir/internal/ops"
	"github.com/hgir-dev/hgir/internal/types"
)

// checkEdges re-checks every edge and port of the module. Connect enforces
// these locally, but RetypeOp and reparenting can invalidate them after the
// fact, so the validator trusts nothing.
func (c *checker) checkEdges() {
	for _, n := range c.g.Nodes() {
		c.checkNodePorts(n)
	}
	for _, e := range c.g.Edges() {
		c.checkEdge(e)
	}
	c.checkCycles()
}

// checkNodePorts checks connectivity requirements per port: every value and
// static input fed exactly once, every linear value output consumed exactly
// once, every control-flow branch taken exactly once.
func (c *checker) checkNodePorts(n graph.NodeID) {
	ins, err := c.g.InPorts(n)
	if err != nil {
		return
	}
	for p, info := range ins {
		if info.Kind != ops.KindValue && info.Kind != ops.KindStatic {
			continue
		}
		links, _ := c.g.LinksIn(n, p)
		if len(links) == 0 {
			c.report(ErrPortUnconnected, n, "%s input port %d (%s) has no edge", info.Kind, p, info.Ty)
		}
	}
	outs, _ := c.g.OutPorts(n)
	for p, info := range outs {
		links, _ := c.g.LinksOut(n, p)
		switch info.Kind {
		case ops.KindValue:
			if info.Ty.Bound() == types.Linear && len(links) != 1 {
				c.report(ErrLinearity, n, "linear output port %d (%s) has %d consumers, want exactly 1", p, info.Ty, len(links))
			}
		case ops.KindControlFlow:
			if len(links) == 0 {
				c.report(ErrBranchMissing, n, "branch port %d has no successor", p)
			} else if len(links) > 1 {
				c.report(ErrBranchDuplicate, n, "branch port %d has %d successors", p, len(links))
			}
		}
	}
}

func (c *checker) checkEdge(e graph.Edge) {
	srcOuts, err := c.g.OutPorts(e.Src)
	if err != nil || e.SrcPort >= len(srcOuts) {
		return
	}
	dstIns, err := c.g.InPorts(e.Dst)
	if err != nil || e.DstPort >= len(dstIns) {
		return
	}
	srcInfo, dstInfo := srcOuts[e.SrcPort], dstIns[e.DstPort]

	switch e.Kind {
	case ops.KindValue:
		if !types.Equal(srcInfo.Ty, dstInfo.Ty) {
			c.report(ErrEdgeType, e.Src, "value edge to %s carries %s into a %s port", e.Dst, srcInfo.Ty, dstInfo.Ty)
		}
		sp, _ := c.g.Parent(e.Src)
		dp, _ := c.g.Parent(e.Dst)
		if sp != dp {
			c.report(ErrEdgeNotSiblings, e.Src, "value edge to %s crosses region boundaries", e.Dst)
		}
	case ops.KindStatic:
		if !types.Equal(srcInfo.Ty, dstInfo.Ty) {
			c.report(ErrEdgeType, e.Src, "static edge to %s carries %s into a %s port", e.Dst, srcInfo.Ty, dstInfo.Ty)
		}
		// A static definition is visible to its siblings and to
		// everything nested beneath them.
		sp, ok := c.g.Parent(e.Src)
		if ok && !(func() bool {
			dp, _ := c.g.Parent(e.Dst)
			return dp == sp || c.g.Contains(sp, e.Dst)
		})() {
			c.report(ErrStaticScope, e.Src, "static edge target %s is outside the defining scope", e.Dst)
		}
	case ops.KindControlFlow:
		c.checkControlFlowEdge(e)
	}
}

// checkControlFlowEdge checks that a branch's payload row matches what the
// successor block accepts, and that the edge stays inside one CFG.
func (c *checker) checkControlFlowEdge(e graph.Edge) {
	sp, _ := c.g.Parent(e.Src)
	dp, _ := c.g.Parent(e.Dst)
	if sp != dp {
		c.report(ErrEdgeNotSiblings, e.Src, "control-flow edge to %s leaves the CFG", e.Dst)
		return
	}
	srcOp, _ := c.g.Op(e.Src)
	block, ok := srcOp.(*ops.DataflowBlock)
	if !ok {
		return
	}
	want, err := block.SuccessorInputs(e.SrcPort)
	if err != nil {
		return
	}
	dstOp, _ := c.g.Op(e.Dst)
	got, ok := rowOfSuccessor(dstOp)
	if !ok {
		return
	}
	if !want.Equal(got) {
		c.report(ErrSuccessorType, e.Src, "branch %d yields %s but successor %s accepts %s", e.SrcPort, want, e.Dst, got)
	}
}

// checkCycles runs a topological sort over every dataflow region. CFG
// regions are exempt: loops between basic blocks are the point.
func (c *checker) checkCycles() {
	for _, n := range c.g.Nodes() {
		op, err := c.g.Op(n)
		if err != nil || !ops.IsDataflowContainer(op) {
			continue
		}
		if _, err := c.g.TopoRegion(n); err != nil {
			c.report(ErrDataflowCycle, n, "%v", err)
		}
	}
}
