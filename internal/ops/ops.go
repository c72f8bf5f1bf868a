package ops

import (
	"fmt"

	"github.com/hgir-dev/hgir/internal/types"
)

// OpType is a sealed interface over the structural operation kinds and
// Custom. A node owns exactly one OpType value.
type OpType interface {
	isOp()

	// Name returns the stable kind name used in serialized form.
	Name() string
}

// Module is the root operation. It has no ports and contains function
// definitions, declarations, and constants.
type Module struct{}

func (Module) isOp()        {}
func (Module) Name() string { return "Module" }

// FuncDefn defines a function with a body. It exposes a single static
// output of function type and contains a dataflow region implementing the
// signature's body.
type FuncDefn struct {
	Func      string
	Signature types.PolyFuncType
}

func (*FuncDefn) isOp()        {}
func (*FuncDefn) Name() string { return "FuncDefn" }

// FuncDecl declares an external function: a static function-typed output
// with no body.
type FuncDecl struct {
	Func      string
	Signature types.PolyFuncType
}

func (*FuncDecl) isOp()        {}
func (*FuncDecl) Name() string { return "FuncDecl" }

// Const holds a constant value, exposed on a single static output port of
// the value's type.
type Const struct {
	Value Value
}

func (*Const) isOp()        {}
func (*Const) Name() string { return "Const" }

// Input marks the start of a dataflow region. Its outputs are the region's
// inputs.
type Input struct {
	Types types.Row
}

func (*Input) isOp()        {}
func (*Input) Name() string { return "Input" }

// Output marks the end of a dataflow region. Its inputs are the region's
// outputs.
type Output struct {
	Types types.Row
}

func (*Output) isOp()        {}
func (*Output) Name() string { return "Output" }

// DFG is a nested dataflow region with the given signature.
type DFG struct {
	Signature types.FuncType
}

func (*DFG) isOp()        {}
func (*DFG) Name() string { return "DFG" }

// Call invokes a statically known function. Value inputs are the
// instantiated input row, followed by one static input carrying the
// function; outputs are the instantiated output row.
type Call struct {
	Signature types.PolyFuncType
	Args      []types.TypeArg

	instantiated types.FuncType
}

func (*Call) isOp()        {}
func (*Call) Name() string { return "Call" }

// NewCall instantiates a call to a function of the given scheme with the
// given type arguments. Instantiation substitutes into the scheme's rows and
// its extension-requirement set.
func NewCall(signature types.PolyFuncType, args []types.TypeArg) (*Call, error) {
	inst, err := signature.Instantiate(args)
	if err != nil {
		return nil, err
	}
	return &Call{Signature: signature, Args: args, instantiated: inst}, nil
}

// Instantiated returns the concrete signature of the call site.
func (c *Call) Instantiated() types.FuncType { return c.instantiated }

// LoadConstant turns a static constant into a dataflow value: one static
// input and one value output of the same type.
type LoadConstant struct {
	Ty types.Type
}

func (*LoadConstant) isOp()        {}
func (*LoadConstant) Name() string { return "LoadConstant" }

// LoadFunction turns a statically known function into a first-class
// function value, instantiating its scheme with the given type arguments.
type LoadFunction struct {
	Signature types.PolyFuncType
	Args      []types.TypeArg

	instantiated types.FuncType
}

func (*LoadFunction) isOp()        {}
func (*LoadFunction) Name() string { return "LoadFunction" }

// NewLoadFunction instantiates a function load, substituting the type
// arguments into the scheme like NewCall does.
func NewLoadFunction(signature types.PolyFuncType, args []types.TypeArg) (*LoadFunction, error) {
	inst, err := signature.Instantiate(args)
	if err != nil {
		return nil, err
	}
	return &LoadFunction{Signature: signature, Args: args, instantiated: inst}, nil
}

// Instantiated returns the concrete signature of the loaded function value.
func (l *LoadFunction) Instantiated() types.FuncType { return l.instantiated }

// Conditional branches on a sum-typed input. Port 0 carries the sum; the
// remaining inputs are passed to every branch. It contains one Case child
// per sum variant, in tag order.
type Conditional struct {
	SumRows     []types.Row
	OtherInputs types.Row
	Outputs     types.Row
}

func (*Conditional) isOp()        {}
func (*Conditional) Name() string { return "Conditional" }

// CaseSignature returns the dataflow signature the Case child for the given
// tag must implement: the variant's row concatenated with the shared inputs.
func (c *Conditional) CaseSignature(tag int) (types.FuncType, error) {
	if tag < 0 || tag >= len(c.SumRows) {
		return types.FuncType{}, fmt.Errorf("conditional has %d branches, tag %d out of range", len(c.SumRows), tag)
	}
	return types.NewFuncType(c.SumRows[tag].Concat(c.OtherInputs), c.Outputs), nil
}

// Case is one branch of a Conditional. It has no ports of its own; it is a
// dataflow container implementing Signature.
type Case struct {
	Signature types.FuncType
}

func (*Case) isOp()        {}
func (*Case) Name() string { return "Case" }

// TailLoop iterates its body until it emits the break variant. JustInputs
// feed only the first iteration, JustOutputs leave only on break, Rest is
// loop-invariant and threaded through unchanged.
type TailLoop struct {
	JustInputs  types.Row
	JustOutputs types.Row
	Rest        types.Row
}

func (*TailLoop) isOp()        {}
func (*TailLoop) Name() string { return "TailLoop" }

// ControlVariants returns the body's control sum rows: tag 0 continues with
// JustInputs, tag 1 breaks with JustOutputs.
func (t *TailLoop) ControlVariants() []types.Row {
	return []types.Row{t.JustInputs, t.JustOutputs}
}

// BodySignature returns the dataflow signature of the loop body region.
func (t *TailLoop) BodySignature() types.FuncType {
	control := &types.Sum{Variants: t.ControlVariants()}
	return types.NewFuncType(
		t.JustInputs.Concat(t.Rest),
		types.Row{control}.Concat(t.Rest),
	)
}

// CFG is a control-flow region with dataflow ports per its signature. Its
// first child is the entry DataflowBlock, its second the unique ExitBlock.
type CFG struct {
	Signature types.FuncType
}

func (*CFG) isOp()        {}
func (*CFG) Name() string { return "CFG" }

// DataflowBlock is a basic block inside a CFG: a dataflow container whose
// first output is the branching sum selecting a successor. It has one
// control-flow input port and one control-flow output port per sum variant.
type DataflowBlock struct {
	Inputs       types.Row
	SumRows      []types.Row
	OtherOutputs types.Row
}

func (*DataflowBlock) isOp()        {}
func (*DataflowBlock) Name() string { return "DataflowBlock" }

// InnerSignature returns the dataflow signature of the block's body.
func (b *DataflowBlock) InnerSignature() types.FuncType {
	branch := &types.Sum{Variants: b.SumRows}
	return types.NewFuncType(b.Inputs, types.Row{branch}.Concat(b.OtherOutputs))
}

// SuccessorInputs returns the row a successor reached via the given branch
// must accept: the variant's row concatenated with the other outputs.
func (b *DataflowBlock) SuccessorInputs(branch int) (types.Row, error) {
	if branch < 0 || branch >= len(b.SumRows) {
		return nil, fmt.Errorf("block has %d branches, branch %d out of range", len(b.SumRows), branch)
	}
	return b.SumRows[branch].Concat(b.OtherOutputs), nil
}

// ExitBlock is the unique exit of a CFG. It has one control-flow input and
// no successors; CfgOutputs is the row delivered to the enclosing CFG node.
type ExitBlock struct {
	CfgOutputs types.Row
}

func (*ExitBlock) isOp()        {}
func (*ExitBlock) Name() string { return "ExitBlock" }

// Custom is the open slot: an operation supplied by an extension, referenced
// by (extension, name) plus static arguments. Sig is the concrete signature
// resolved against a registry at construction or decode time; it is never
// serialized.
type Custom struct {
	Extension   string
	Op          string
	Args        []types.TypeArg
	Sig         types.FuncType
	Description string
}

func (*Custom) isOp() {}

func (c *Custom) Name() string { return "Custom" }

// QualifiedName returns "extension.op" for diagnostics.
func (c *Custom) QualifiedName() string { return c.Extension + "." + c.Op }
