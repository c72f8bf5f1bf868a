// Package infer computes the extension-requirement sets of a module bottom
// up. A node's requirements are the extensions its own signature mentions
// plus everything required by the region beneath it; a function boundary
// must declare at least what its body computes.
package infer

import (
	"fmt"

	"github.com/hgir-dev/hgir/internal/graph"
	"github.com/hgir-dev/hgir/internal/ops"
	"github.com/hgir-dev/hgir/internal/types"
)

// Error reports a function whose declared requirement set omits extensions
// its body needs.
type Error struct {
	Node    graph.NodeID
	Missing types.ExtensionSet
}

func (e *Error) Error() string {
	return fmt.Sprintf("extension inference: %s declares a requirement set missing %s",
		e.Node, e.Missing)
}

// Result maps every live node to its computed requirement set.
type Result map[graph.NodeID]types.ExtensionSet

// sets is one bottom-up sweep: full is own-plus-below per node, below is the
// union over children only, which is what a function boundary is checked
// against.
type sets struct {
	full  Result
	below Result
}

// Infer walks the hierarchy bottom up and returns each node's computed
// requirement set. Function definitions with a non-empty declared set are
// checked against their body's computation; a declared set that is not a
// superset of it is an *Error. Declared sets containing variables are
// skipped: those are checked at instantiation, not here.
func Infer(g *graph.Graph) (Result, error) {
	s, err := sweep(g)
	if err != nil {
		return nil, err
	}
	for _, n := range g.Nodes() {
		op, err := g.Op(n)
		if err != nil {
			return nil, err
		}
		defn, ok := op.(*ops.FuncDefn)
		if !ok {
			continue
		}
		declared := defn.Signature.Body.Requires
		if declared.HasVars() || declared.IsEmpty() {
			continue
		}
		if !declared.IsSupersetOf(s.below[n]) {
			return nil, &Error{Node: n, Missing: declared.MissingFrom(s.below[n])}
		}
	}
	return s.full, nil
}

func sweep(g *graph.Graph) (sets, error) {
	s := sets{full: make(Result, g.NumNodes()), below: make(Result, g.NumNodes())}
	if _, err := sweepNode(g, g.Root(), &s); err != nil {
		return sets{}, err
	}
	return s, nil
}

func sweepNode(g *graph.Graph, n graph.NodeID, s *sets) (types.ExtensionSet, error) {
	children, err := g.Children(n)
	if err != nil {
		return types.ExtensionSet{}, err
	}
	var below types.ExtensionSet
	for _, c := range children {
		cs, err := sweepNode(g, c, s)
		if err != nil {
			return types.ExtensionSet{}, err
		}
		below = below.Union(cs)
	}
	op, err := g.Op(n)
	if err != nil {
		return types.ExtensionSet{}, err
	}
	full := below.Union(ownRequirements(op))
	s.below[n] = below
	s.full[n] = full
	return full, nil
}

// ownRequirements returns the extensions a node's own signature mentions,
// independent of its children.
func ownRequirements(op ops.OpType) types.ExtensionSet {
	switch o := op.(type) {
	case *ops.Custom:
		return o.Sig.Requires
	case *ops.Call:
		return o.Instantiated().Requires
	case *ops.DFG:
		return o.Signature.Requires
	case *ops.CFG:
		return o.Signature.Requires
	case *ops.Case:
		return o.Signature.Requires
	default:
		return types.ExtensionSet{}
	}
}

// Annotate runs inference to a fixpoint, writing each computed requirement
// set into the function definitions that declared an empty one and growing
// those it wrote on earlier iterations as callee annotations propagate.
// Every Call and LoadFunction reached by a static edge from an annotated
// definition is rebuilt against the new scheme so both edge endpoints stay
// in agreement. Explicitly declared non-empty sets are never modified; one
// that fails the superset check is an *Error. Annotate is idempotent.
func Annotate(g *graph.Graph) error {
	annotated := make(map[graph.NodeID]bool)
	for {
		s, err := sweep(g)
		if err != nil {
			return err
		}
		changed := false
		for _, n := range g.Nodes() {
			op, err := g.Op(n)
			if err != nil {
				return err
			}
			defn, ok := op.(*ops.FuncDefn)
			if !ok {
				continue
			}
			declared := defn.Signature.Body.Requires
			below := s.below[n]
			switch {
			case declared.HasVars():
			case annotated[n] || declared.IsEmpty():
				want := declared.Union(below)
				if want.Equal(declared) {
					continue
				}
				if err := annotateDefn(g, n, defn, want); err != nil {
					return err
				}
				annotated[n] = true
				changed = true
			case !declared.IsSupersetOf(below):
				return &Error{Node: n, Missing: declared.MissingFrom(below)}
			}
		}
		if !changed {
			return nil
		}
	}
}

// annotateDefn rewrites a function definition with the new requirement set
// and rebuilds every user connected to its static output port.
func annotateDefn(g *graph.Graph, n graph.NodeID, defn *ops.FuncDefn, req types.ExtensionSet) error {
	sig := defn.Signature
	sig.Body.Requires = req
	if err := g.RetypeOp(n, &ops.FuncDefn{Func: defn.Func, Signature: sig}); err != nil {
		return err
	}
	// A FuncDefn's only output port is the static one.
	users, err := g.LinksOut(n, 0)
	if err != nil {
		return err
	}
	for _, user := range users {
		uop, err := g.Op(user.Node)
		if err != nil {
			return err
		}
		var rebuilt ops.OpType
		switch u := uop.(type) {
		case *ops.Call:
			rebuilt, err = ops.NewCall(sig, u.Args)
		case *ops.LoadFunction:
			rebuilt, err = ops.NewLoadFunction(sig, u.Args)
		default:
			continue
		}
		if err != nil {
			return err
		}
		if err := g.RetypeOp(user.Node, rebuilt); err != nil {
			return err
		}
	}
	return nil
}
