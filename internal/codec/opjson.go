package codec

import (
	"encoding/json"
	"fmt"

	"github.com/hgir-dev/hgir/internal/extension"
	"github.com/hgir-dev/hgir/internal/ops"
	"github.com/hgir-dev/hgir/internal/types"
)

// Operation payloads are tagged unions under the "op" key. Computed fields
// never serialize: a Call's instantiated signature is rebuilt from its
// scheme and arguments, and a Custom's signature is re-resolved against the
// registry, so a tampered envelope cannot smuggle a stale signature in.

func marshalOp(op ops.OpType) (json.RawMessage, error) {
	switch o := op.(type) {
	case ops.Module:
		return json.Marshal(struct {
			Op string `json:"op"`
		}{"Module"})
	case *ops.FuncDefn:
		return json.Marshal(struct {
			Op        string             `json:"op"`
			Name      string             `json:"name"`
			Signature types.PolyFuncType `json:"signature"`
		}{"FuncDefn", o.Func, o.Signature})
	case *ops.FuncDecl:
		return json.Marshal(struct {
			Op        string             `json:"op"`
			Name      string             `json:"name"`
			Signature types.PolyFuncType `json:"signature"`
		}{"FuncDecl", o.Func, o.Signature})
	case *ops.Const:
		return json.Marshal(struct {
			Op    string    `json:"op"`
			Value ops.Value `json:"value"`
		}{"Const", o.Value})
	case *ops.Input:
		return json.Marshal(struct {
			Op    string    `json:"op"`
			Types types.Row `json:"types"`
		}{"Input", o.Types})
	case *ops.Output:
		return json.Marshal(struct {
			Op    string    `json:"op"`
			Types types.Row `json:"types"`
		}{"Output", o.Types})
	case *ops.DFG:
		return json.Marshal(struct {
			Op        string         `json:"op"`
			Signature types.FuncType `json:"signature"`
		}{"DFG", o.Signature})
	case *ops.Call:
		return json.Marshal(struct {
			Op        string             `json:"op"`
			Signature types.PolyFuncType `json:"signature"`
			Args      []types.TypeArg    `json:"args"`
		}{"Call", o.Signature, emptyArgs(o.Args)})
	case *ops.LoadConstant:
		return json.Marshal(struct {
			Op   string     `json:"op"`
			Type types.Type `json:"type"`
		}{"LoadConstant", o.Ty})
	case *ops.LoadFunction:
		return json.Marshal(struct {
			Op        string             `json:"op"`
			Signature types.PolyFuncType `json:"signature"`
			Args      []types.TypeArg    `json:"args"`
		}{"LoadFunction", o.Signature, emptyArgs(o.Args)})
	case *ops.Conditional:
		return json.Marshal(struct {
			Op          string      `json:"op"`
			SumRows     []types.Row `json:"sum_rows"`
			OtherInputs types.Row   `json:"other_inputs"`
			Outputs     types.Row   `json:"outputs"`
		}{"Conditional", emptyRows(o.SumRows), emptyRow(o.OtherInputs), emptyRow(o.Outputs)})
	case *ops.Case:
		return json.Marshal(struct {
			Op        string         `json:"op"`
			Signature types.FuncType `json:"signature"`
		}{"Case", o.Signature})
	case *ops.TailLoop:
		return json.Marshal(struct {
			Op          string    `json:"op"`
			JustInputs  types.Row `json:"just_inputs"`
			JustOutputs types.Row `json:"just_outputs"`
			Rest        types.Row `json:"rest"`
		}{"TailLoop", emptyRow(o.JustInputs), emptyRow(o.JustOutputs), emptyRow(o.Rest)})
	case *ops.CFG:
		return json.Marshal(struct {
			Op        string         `json:"op"`
			Signature types.FuncType `json:"signature"`
		}{"CFG", o.Signature})
	case *ops.DataflowBlock:
		return json.Marshal(struct {
			Op           string      `json:"op"`
			Inputs       types.Row   `json:"inputs"`
			SumRows      []types.Row `json:"sum_rows"`
			OtherOutputs types.Row   `json:"other_outputs"`
		}{"DataflowBlock", emptyRow(o.Inputs), emptyRows(o.SumRows), emptyRow(o.OtherOutputs)})
	case *ops.ExitBlock:
		return json.Marshal(struct {
			Op         string    `json:"op"`
			CfgOutputs types.Row `json:"cfg_outputs"`
		}{"ExitBlock", emptyRow(o.CfgOutputs)})
	case *ops.Custom:
		return json.Marshal(struct {
			Op          string          `json:"op"`
			Extension   string          `json:"extension"`
			Name        string          `json:"name"`
			Args        []types.TypeArg `json:"args"`
			Description string          `json:"description"`
		}{"Custom", o.Extension, o.Op, emptyArgs(o.Args), o.Description})
	default:
		return nil, fmt.Errorf("unknown operation kind %T", op)
	}
}

// emptyRow keeps nil rows serializing as [] rather than null; canonical
// JSON forbids null.
func emptyRow(r types.Row) types.Row {
	if r == nil {
		return types.Row{}
	}
	return r
}

func emptyRows(rows []types.Row) []types.Row {
	if rows == nil {
		return []types.Row{}
	}
	return rows
}

func emptyArgs(args []types.TypeArg) []types.TypeArg {
	if args == nil {
		return []types.TypeArg{}
	}
	return args
}

func unmarshalOp(data json.RawMessage, reg *extension.Registry) (ops.OpType, error) {
	var tag struct {
		Op string `json:"op"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.Op {
	case "Module":
		return ops.Module{}, nil
	case "FuncDefn", "FuncDecl":
		var raw struct {
			Name      string             `json:"name"`
			Signature types.PolyFuncType `json:"signature"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if tag.Op == "FuncDefn" {
			return &ops.FuncDefn{Func: raw.Name, Signature: raw.Signature}, nil
		}
		return &ops.FuncDecl{Func: raw.Name, Signature: raw.Signature}, nil
	case "Const":
		var raw struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		val, err := ops.UnmarshalValue(raw.Value)
		if err != nil {
			return nil, err
		}
		return ops.NewConst(val)
	case "Input", "Output":
		var raw struct {
			Types types.Row `json:"types"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if tag.Op == "Input" {
			return &ops.Input{Types: raw.Types}, nil
		}
		return &ops.Output{Types: raw.Types}, nil
	case "DFG":
		var raw struct {
			Signature types.FuncType `json:"signature"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &ops.DFG{Signature: raw.Signature}, nil
	case "Call", "LoadFunction":
		var raw struct {
			Signature types.PolyFuncType `json:"signature"`
			Args      []json.RawMessage  `json:"args"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		args, err := unmarshalArgList(raw.Args)
		if err != nil {
			return nil, err
		}
		if tag.Op == "Call" {
			return ops.NewCall(raw.Signature, args)
		}
		return ops.NewLoadFunction(raw.Signature, args)
	case "LoadConstant":
		var raw struct {
			Type json.RawMessage `json:"type"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		ty, err := types.UnmarshalType(raw.Type)
		if err != nil {
			return nil, err
		}
		return &ops.LoadConstant{Ty: ty}, nil
	case "Conditional":
		var raw struct {
			SumRows     []types.Row `json:"sum_rows"`
			OtherInputs types.Row   `json:"other_inputs"`
			Outputs     types.Row   `json:"outputs"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &ops.Conditional{SumRows: raw.SumRows, OtherInputs: raw.OtherInputs, Outputs: raw.Outputs}, nil
	case "Case":
		var raw struct {
			Signature types.FuncType `json:"signature"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &ops.Case{Signature: raw.Signature}, nil
	case "TailLoop":
		var raw struct {
			JustInputs  types.Row `json:"just_inputs"`
			JustOutputs types.Row `json:"just_outputs"`
			Rest        types.Row `json:"rest"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &ops.TailLoop{JustInputs: raw.JustInputs, JustOutputs: raw.JustOutputs, Rest: raw.Rest}, nil
	case "CFG":
		var raw struct {
			Signature types.FuncType `json:"signature"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &ops.CFG{Signature: raw.Signature}, nil
	case "DataflowBlock":
		var raw struct {
			Inputs       types.Row   `json:"inputs"`
			SumRows      []types.Row `json:"sum_rows"`
			OtherOutputs types.Row   `json:"other_outputs"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &ops.DataflowBlock{Inputs: raw.Inputs, SumRows: raw.SumRows, OtherOutputs: raw.OtherOutputs}, nil
	case "ExitBlock":
		var raw struct {
			CfgOutputs types.Row `json:"cfg_outputs"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &ops.ExitBlock{CfgOutputs: raw.CfgOutputs}, nil
	case "Custom":
		var raw struct {
			Extension   string            `json:"extension"`
			Name        string            `json:"name"`
			Args        []json.RawMessage `json:"args"`
			Description string            `json:"description"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		args, err := unmarshalArgList(raw.Args)
		if err != nil {
			return nil, err
		}
		custom, err := extension.InstantiateOp(reg, raw.Extension, raw.Name, args)
		if err != nil {
			return nil, err
		}
		return custom, nil
	default:
		return nil, fmt.Errorf("unknown operation tag %q", tag.Op)
	}
}

func unmarshalArgList(raw []json.RawMessage) ([]types.TypeArg, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	args := make([]types.TypeArg, len(raw))
	for i, elem := range raw {
		a, err := types.UnmarshalArg(elem)
		if err != nil {
			return nil, fmt.Errorf("arg[%d]: %w", i, err)
		}
		args[i] = a
	}
	return args, nil
}
