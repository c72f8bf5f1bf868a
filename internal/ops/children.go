package ops

import "github.com/hgir-dev/hgir/internal/types"

// IsContainer reports whether nodes of this kind may own children.
func IsContainer(op OpType) bool {
	switch op.(type) {
	case Module, *FuncDefn, *DFG, *Conditional, *Case, *TailLoop, *CFG, *DataflowBlock:
		return true
	default:
		return false
	}
}

// IsDataflowContainer reports whether the kind contains a dataflow region,
// i.e. its first two children must be Input then Output.
func IsDataflowContainer(op OpType) bool {
	switch op.(type) {
	case *FuncDefn, *DFG, *Case, *TailLoop, *DataflowBlock:
		return true
	default:
		return false
	}
}

// InnerSignature returns the dataflow signature a container's region must
// implement: Input's outputs and Output's inputs must match these rows.
func InnerSignature(op OpType) (types.FuncType, bool) {
	switch o := op.(type) {
	case *FuncDefn:
		return o.Signature.Body, true
	case *DFG:
		return o.Signature, true
	case *Case:
		return o.Signature, true
	case *TailLoop:
		return o.BodySignature(), true
	case *DataflowBlock:
		return o.InnerSignature(), true
	default:
		return types.FuncType{}, false
	}
}

// AllowedChild reports whether a node of kind child may live directly under
// a node of kind parent.
func AllowedChild(parent, child OpType) bool {
	switch parent.(type) {
	case Module:
		switch child.(type) {
		case *FuncDefn, *FuncDecl, *Const:
			return true
		}
		return false
	case *Conditional:
		_, ok := child.(*Case)
		return ok
	case *CFG:
		switch child.(type) {
		case *DataflowBlock, *ExitBlock:
			return true
		}
		return false
	case *FuncDefn, *DFG, *Case, *TailLoop, *DataflowBlock:
		switch child.(type) {
		case *Input, *Output, *DFG, *Call, *LoadConstant, *LoadFunction,
			*Conditional, *TailLoop, *CFG, *Custom, *Const, *FuncDefn, *FuncDecl:
			return true
		}
		return false
	default:
		return false
	}
}
