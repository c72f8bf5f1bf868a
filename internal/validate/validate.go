// Package validate checks a whole module against the structural and typing
// rules the graph's local mutations cannot see: hierarchy shapes, region
// boundaries, edge scoping, linear-value consumption, control-flow
// exhaustiveness, and agreement with an extension registry.
package validate

import (
	"fmt"

	"github.com/hgir-dev/hgir/internal/extension"
	"github.com/hgir-dev/hgir/internal/graph"
	"github.com/hgir-dev/hgir/internal/infer"
)

// Error codes returned by validation.
const (
	// Hierarchy errors (E100-E109)
	ErrRootNotModule  = "E100" // root operation is not Module
	ErrForbiddenChild = "E101" // child kind not allowed under parent kind
	ErrRegionShape    = "E102" // dataflow region lacks leading Input/Output
	ErrBoundaryType   = "E103" // Input/Output rows disagree with the region signature
	ErrCaseShape      = "E104" // conditional branch count or case signature wrong
	ErrCfgShape       = "E105" // CFG entry/exit children malformed
	ErrLeafChildren   = "E106" // non-container operation owns children
	ErrRootlessNode   = "E107" // live node detached from the hierarchy

	// Edge errors (E110-E119)
	ErrEdgeType        = "E110" // endpoint types differ
	ErrEdgeNotSiblings = "E111" // value edge crosses region boundaries
	ErrStaticScope     = "E112" // static edge target outside the source's scope
	ErrPortUnconnected = "E113" // value or static input port has no edge
	ErrLinearity       = "E114" // linear output not consumed exactly once
	ErrDataflowCycle   = "E115" // cycle among value/order dependencies
	ErrBranchMissing   = "E116" // control-flow branch port has no successor
	ErrBranchDuplicate = "E117" // control-flow branch port has several successors
	ErrSuccessorType   = "E118" // successor input row disagrees with the branch

	// Extension errors (E120-E129)
	ErrUnknownExtension = "E120" // extension not in the registry
	ErrUnknownOperation = "E121" // operation not defined by its extension
	ErrCustomSignature  = "E122" // cached custom signature disagrees with the registry
	ErrOpaqueBound      = "E123" // cached opaque bound disagrees with its definition
	ErrInference        = "E124" // declared requirement set misses inferred extensions
)

// ValidationError is one violation found in a module. Validation never
// fails fast: callers get every violation at once.
type ValidationError struct {
	Code    string `json:"code"`
	Node    string `json:"node"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Node, e.Message)
}

type checker struct {
	g    *graph.Graph
	reg  *extension.Registry
	errs []ValidationError
}

func (c *checker) report(code string, n graph.NodeID, format string, args ...any) {
	c.errs = append(c.errs, ValidationError{
		Code:    code,
		Node:    n.String(),
		Message: fmt.Sprintf(format, args...),
	})
}

// Validate checks the module's structural rules. Custom operations and
// opaque types are taken at face value; use ValidateWithRegistry to check
// them against their definitions.
func Validate(g *graph.Graph) []ValidationError {
	return run(g, nil)
}

// ValidateWithRegistry additionally resolves every custom operation and
// opaque type against the registry and re-checks its cached signature and
// bound.
func ValidateWithRegistry(g *graph.Graph, reg *extension.Registry) []ValidationError {
	return run(g, reg)
}

func run(g *graph.Graph, reg *extension.Registry) []ValidationError {
	c := &checker{g: g, reg: reg}
	c.checkHierarchy()
	c.checkEdges()
	if reg != nil {
		c.checkExtensions()
	}
	if _, err := infer.Infer(g); err != nil {
		if ie, ok := err.(*infer.Error); ok {
			c.report(ErrInference, ie.Node, "declared requirement set is missing %s", ie.Missing)
		} else {
			c.report(ErrInference, g.Root(), "%v", err)
		}
	}
	return c.errs
}
