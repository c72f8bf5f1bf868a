package validate

import (
	"github.com/hgir-dev/hgir/internal/graph"
	"github.com/hgir-dev/hgir/internal/ops"
	"github.com/hgir-dev/hgir/internal/types"
)

// checkHierarchy walks the tree once, checking the root kind, every
// parent/child pairing, and the shape each container imposes on its region.
func (c *checker) checkHierarchy() {
	root := c.g.Root()
	rootOp, _ := c.g.Op(root)
	if _, ok := rootOp.(ops.Module); !ok {
		c.report(ErrRootNotModule, root, "root carries %s, want Module", rootOp.Name())
	}
	c.checkContainer(root)

	// Detached nodes are legal mid-construction but never in a finished
	// module.
	for _, n := range c.g.Nodes() {
		if n == root {
			continue
		}
		if _, ok := c.g.Parent(n); !ok {
			c.report(ErrRootlessNode, n, "node has no parent and is unreachable from the root")
		}
	}
}

func (c *checker) checkContainer(n graph.NodeID) {
	op, err := c.g.Op(n)
	if err != nil {
		return
	}
	children, _ := c.g.Children(n)
	if len(children) > 0 && !ops.IsContainer(op) {
		c.report(ErrLeafChildren, n, "%s cannot own children", op.Name())
	}
	for _, child := range children {
		childOp, err := c.g.Op(child)
		if err != nil {
			continue
		}
		if ops.IsContainer(op) && !ops.AllowedChild(op, childOp) {
			c.report(ErrForbiddenChild, child, "%s cannot live under %s", childOp.Name(), op.Name())
		}
		c.checkContainer(child)
	}

	if ops.IsDataflowContainer(op) {
		c.checkDataflowRegion(n, op, children)
	}
	switch o := op.(type) {
	case *ops.Conditional:
		c.checkConditional(n, o, children)
	case *ops.CFG:
		c.checkCfg(n, o, children)
	}
}

// checkDataflowRegion enforces the Input-first, Output-second convention and
// that their rows agree with the container's inner signature.
func (c *checker) checkDataflowRegion(n graph.NodeID, op ops.OpType, children []graph.NodeID) {
	sig, _ := ops.InnerSignature(op)
	if len(children) < 2 {
		c.report(ErrRegionShape, n, "%s region has %d children, want at least Input and Output", op.Name(), len(children))
		return
	}
	firstOp, _ := c.g.Op(children[0])
	if in, ok := firstOp.(*ops.Input); !ok {
		c.report(ErrRegionShape, children[0], "first child of %s is %s, want Input", op.Name(), firstOp.Name())
	} else if !in.Types.Equal(sig.Input) {
		c.report(ErrBoundaryType, children[0], "Input row %s does not match region input %s", in.Types, sig.Input)
	}
	secondOp, _ := c.g.Op(children[1])
	if out, ok := secondOp.(*ops.Output); !ok {
		c.report(ErrRegionShape, children[1], "second child of %s is %s, want Output", op.Name(), secondOp.Name())
	} else if !out.Types.Equal(sig.Output) {
		c.report(ErrBoundaryType, children[1], "Output row %s does not match region output %s", out.Types, sig.Output)
	}
	for _, child := range children[2:] {
		childOp, _ := c.g.Op(child)
		switch childOp.(type) {
		case *ops.Input, *ops.Output:
			c.report(ErrRegionShape, child, "%s must be the region boundary, not an interior node", childOp.Name())
		}
	}
}

// checkConditional enforces one Case per sum variant, in tag order, each
// implementing the variant's signature.
func (c *checker) checkConditional(n graph.NodeID, cond *ops.Conditional, children []graph.NodeID) {
	if len(children) != len(cond.SumRows) {
		c.report(ErrCaseShape, n, "conditional has %d cases for %d variants", len(children), len(cond.SumRows))
		return
	}
	for tag, child := range children {
		childOp, _ := c.g.Op(child)
		cs, ok := childOp.(*ops.Case)
		if !ok {
			continue // E101 already reported
		}
		want, err := cond.CaseSignature(tag)
		if err != nil {
			c.report(ErrCaseShape, child, "%v", err)
			continue
		}
		if !cs.Signature.Equal(want) {
			c.report(ErrCaseShape, child, "case %d signature %s, want %s", tag, cs.Signature, want)
		}
	}
}

// checkCfg enforces the entry-first, exit-second convention, a unique exit,
// and boundary rows matching the CFG's dataflow signature.
func (c *checker) checkCfg(n graph.NodeID, cfg *ops.CFG, children []graph.NodeID) {
	if len(children) < 2 {
		c.report(ErrCfgShape, n, "CFG has %d children, want at least entry and exit blocks", len(children))
		return
	}
	entryOp, _ := c.g.Op(children[0])
	if entry, ok := entryOp.(*ops.DataflowBlock); !ok {
		c.report(ErrCfgShape, children[0], "first CFG child is %s, want DataflowBlock", entryOp.Name())
	} else if !entry.Inputs.Equal(cfg.Signature.Input) {
		c.report(ErrBoundaryType, children[0], "entry block inputs %s do not match CFG input %s", entry.Inputs, cfg.Signature.Input)
	}
	exitOp, _ := c.g.Op(children[1])
	if exit, ok := exitOp.(*ops.ExitBlock); !ok {
		c.report(ErrCfgShape, children[1], "second CFG child is %s, want ExitBlock", exitOp.Name())
	} else if !exit.CfgOutputs.Equal(cfg.Signature.Output) {
		c.report(ErrBoundaryType, children[1], "exit block outputs %s do not match CFG output %s", exit.CfgOutputs, cfg.Signature.Output)
	}
	for _, child := range children[2:] {
		childOp, _ := c.g.Op(child)
		if _, ok := childOp.(*ops.ExitBlock); ok {
			c.report(ErrCfgShape, child, "CFG has more than one exit block")
		}
	}
}

// rowOfSuccessor returns the input row a control-flow edge target accepts.
func rowOfSuccessor(op ops.OpType) (types.Row, bool) {
	switch o := op.(type) {
	case *ops.DataflowBlock:
		return o.Inputs, true
	case *ops.ExitBlock:
		return o.CfgOutputs, true
	default:
		return nil, false
	}
}
