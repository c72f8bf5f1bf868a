package ops

import "github.com/hgir-dev/hgir/internal/types"

// EdgeKind discriminates the four edge relations of the graph.
type EdgeKind int

const (
	// KindValue is a typed data dependency between value ports.
	KindValue EdgeKind = iota

	// KindStatic connects a constant- or function-defining node to a user
	// elsewhere in the hierarchy; typed, but not a runtime dependency.
	KindStatic

	// KindOrder is pure sequencing between siblings with no data flowing.
	KindOrder

	// KindControlFlow connects basic blocks inside a CFG; it carries only
	// the branch discriminant, encoded as the source port index.
	KindControlFlow
)

// String returns the serialized edge-kind name.
func (k EdgeKind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindStatic:
		return "static"
	case KindOrder:
		return "order"
	case KindControlFlow:
		return "controlflow"
	default:
		return "invalid"
	}
}

// ParseEdgeKind parses a serialized edge-kind name.
func ParseEdgeKind(s string) (EdgeKind, bool) {
	switch s {
	case "value":
		return KindValue, true
	case "static":
		return KindStatic, true
	case "order":
		return KindOrder, true
	case "controlflow":
		return KindControlFlow, true
	default:
		return 0, false
	}
}

// PortInfo describes one port: its edge kind and, for value and static
// ports, the type it carries.
type PortInfo struct {
	Kind EdgeKind
	Ty   types.Type
}

// Signature returns the value-port signature of the node itself (not of any
// region it contains). Kinds without value ports return the empty signature.
func Signature(op OpType) types.FuncType {
	switch o := op.(type) {
	case *Input:
		return types.FuncType{Output: o.Types}
	case *Output:
		return types.FuncType{Input: o.Types}
	case *DFG:
		return o.Signature
	case *CFG:
		return o.Signature
	case *Call:
		return o.instantiated
	case *LoadConstant:
		return types.FuncType{Output: types.Row{o.Ty}}
	case *LoadFunction:
		return types.FuncType{Output: types.Row{&types.Fn{Signature: types.MonoFuncType(o.instantiated)}}}
	case *Conditional:
		sum := &types.Sum{Variants: o.SumRows}
		return types.FuncType{
			Input:  types.Row{types.Type(sum)}.Concat(o.OtherInputs),
			Output: o.Outputs,
		}
	case *TailLoop:
		return types.FuncType{
			Input:  o.JustInputs.Concat(o.Rest),
			Output: o.JustOutputs.Concat(o.Rest),
		}
	case *Custom:
		return o.Sig
	default:
		return types.FuncType{}
	}
}

// StaticInputType returns the type of the node's static input port, if it
// has one. The static input follows the value inputs in port numbering.
func StaticInputType(op OpType) (types.Type, bool) {
	switch o := op.(type) {
	case *Call:
		return &types.Fn{Signature: o.Signature}, true
	case *LoadConstant:
		return o.Ty, true
	case *LoadFunction:
		return &types.Fn{Signature: o.Signature}, true
	default:
		return nil, false
	}
}

// StaticOutputType returns the type of the node's static output port, if it
// has one.
func StaticOutputType(op OpType) (types.Type, bool) {
	switch o := op.(type) {
	case *FuncDefn:
		return &types.Fn{Signature: o.Signature}, true
	case *FuncDecl:
		return &types.Fn{Signature: o.Signature}, true
	case *Const:
		return o.Value.Type(), true
	default:
		return nil, false
	}
}

// ControlPorts returns the number of control-flow input and output ports of
// the node. Only CFG children have any.
func ControlPorts(op OpType) (in, out int) {
	switch o := op.(type) {
	case *DataflowBlock:
		return 1, len(o.SumRows)
	case *ExitBlock:
		return 1, 0
	default:
		return 0, 0
	}
}

// InputPorts returns the full ordered input port layout of a node: value
// ports, then the static port if any, then control-flow ports.
func InputPorts(op OpType) []PortInfo {
	sig := Signature(op)
	ports := make([]PortInfo, 0, len(sig.Input)+2)
	for _, t := range sig.Input {
		ports = append(ports, PortInfo{Kind: KindValue, Ty: t})
	}
	if t, ok := StaticInputType(op); ok {
		ports = append(ports, PortInfo{Kind: KindStatic, Ty: t})
	}
	cin, _ := ControlPorts(op)
	for i := 0; i < cin; i++ {
		ports = append(ports, PortInfo{Kind: KindControlFlow})
	}
	return ports
}

// OutputPorts returns the full ordered output port layout of a node.
func OutputPorts(op OpType) []PortInfo {
	sig := Signature(op)
	ports := make([]PortInfo, 0, len(sig.Output)+2)
	for _, t := range sig.Output {
		ports = append(ports, PortInfo{Kind: KindValue, Ty: t})
	}
	if t, ok := StaticOutputType(op); ok {
		ports = append(ports, PortInfo{Kind: KindStatic, Ty: t})
	}
	_, cout := ControlPorts(op)
	for i := 0; i < cout; i++ {
		ports = append(ports, PortInfo{Kind: KindControlFlow})
	}
	return ports
}
