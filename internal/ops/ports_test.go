package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgir-dev/hgir/internal/types"
)

func kinds(ports []PortInfo) []EdgeKind {
	out := make([]EdgeKind, len(ports))
	for i, p := range ports {
		out[i] = p.Kind
	}
	return out
}

func TestEdgeKindNames(t *testing.T) {
	for _, k := range []EdgeKind{KindValue, KindStatic, KindOrder, KindControlFlow} {
		parsed, ok := ParseEdgeKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, parsed)
	}
	_, ok := ParseEdgeKind("dataflow")
	assert.False(t, ok)
}

func TestPortLayouts(t *testing.T) {
	sig := types.NewFuncType(types.Row{types.Bool()}, types.Row{types.Unit()})
	scheme := types.MonoFuncType(sig)
	call, err := NewCall(scheme, nil)
	require.NoError(t, err)
	load, err := NewLoadFunction(scheme, nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		op      OpType
		wantIn  []EdgeKind
		wantOut []EdgeKind
	}{
		{"module has no ports", Module{}, []EdgeKind{}, []EdgeKind{}},
		{
			"funcdefn exposes one static output",
			&FuncDefn{Func: "f", Signature: scheme},
			[]EdgeKind{},
			[]EdgeKind{KindStatic},
		},
		{
			"const exposes one static output",
			&Const{Value: UnitSum(0, 2)},
			[]EdgeKind{},
			[]EdgeKind{KindStatic},
		},
		{
			"input has only outputs",
			&Input{Types: types.Row{types.Bool(), types.Bool()}},
			[]EdgeKind{},
			[]EdgeKind{KindValue, KindValue},
		},
		{
			"output has only inputs",
			&Output{Types: types.Row{types.Bool()}},
			[]EdgeKind{KindValue},
			[]EdgeKind{},
		},
		{
			"call has value inputs then the static function port",
			call,
			[]EdgeKind{KindValue, KindStatic},
			[]EdgeKind{KindValue},
		},
		{
			"load function has a static input and a value output",
			load,
			[]EdgeKind{KindStatic},
			[]EdgeKind{KindValue},
		},
		{
			"load constant has a static input and a value output",
			&LoadConstant{Ty: types.Bool()},
			[]EdgeKind{KindStatic},
			[]EdgeKind{KindValue},
		},
		{
			"dataflow block has control ports per branch",
			&DataflowBlock{Inputs: types.Row{types.Bool()}, SumRows: []types.Row{{}, {}}},
			[]EdgeKind{KindControlFlow},
			[]EdgeKind{KindControlFlow, KindControlFlow},
		},
		{
			"exit block has one control input and no outputs",
			&ExitBlock{CfgOutputs: types.Row{types.Bool()}},
			[]EdgeKind{KindControlFlow},
			[]EdgeKind{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantIn, kinds(InputPorts(tt.op)))
			assert.Equal(t, tt.wantOut, kinds(OutputPorts(tt.op)))
		})
	}
}

func TestConditionalSignature(t *testing.T) {
	cond := &Conditional{
		SumRows:     []types.Row{{}, {types.Bool()}},
		OtherInputs: types.Row{types.Unit()},
		Outputs:     types.Row{types.Bool()},
	}

	// Port 0 carries the sum, the shared inputs follow.
	in := InputPorts(cond)
	require.Len(t, in, 2)
	assert.True(t, types.Equal(in[0].Ty, &types.Sum{Variants: cond.SumRows}))
	assert.True(t, types.Equal(in[1].Ty, types.Unit()))

	sig, err := cond.CaseSignature(1)
	require.NoError(t, err)
	assert.True(t, sig.Input.Equal(types.Row{types.Bool(), types.Unit()}))
	assert.True(t, sig.Output.Equal(types.Row{types.Bool()}))

	_, err = cond.CaseSignature(2)
	assert.Error(t, err)
}

func TestTailLoopBodySignature(t *testing.T) {
	loop := &TailLoop{
		JustInputs:  types.Row{types.Bool()},
		JustOutputs: types.Row{types.Unit()},
		Rest:        types.Row{types.Bool()},
	}

	body := loop.BodySignature()
	assert.True(t, body.Input.Equal(types.Row{types.Bool(), types.Bool()}))

	control := &types.Sum{Variants: []types.Row{{types.Bool()}, {types.Unit()}}}
	assert.True(t, body.Output.Equal(types.Row{control, types.Bool()}))

	// The loop node itself threads Rest through both rows.
	sig := Signature(loop)
	assert.True(t, sig.Input.Equal(types.Row{types.Bool(), types.Bool()}))
	assert.True(t, sig.Output.Equal(types.Row{types.Unit(), types.Bool()}))
}

func TestDataflowBlockSuccessors(t *testing.T) {
	block := &DataflowBlock{
		Inputs:       types.Row{types.Bool()},
		SumRows:      []types.Row{{}, {types.Bool()}},
		OtherOutputs: types.Row{types.Unit()},
	}

	inner := block.InnerSignature()
	assert.True(t, inner.Input.Equal(types.Row{types.Bool()}))
	branch := &types.Sum{Variants: block.SumRows}
	assert.True(t, inner.Output.Equal(types.Row{branch, types.Unit()}))

	row, err := block.SuccessorInputs(0)
	require.NoError(t, err)
	assert.True(t, row.Equal(types.Row{types.Unit()}))

	row, err = block.SuccessorInputs(1)
	require.NoError(t, err)
	assert.True(t, row.Equal(types.Row{types.Bool(), types.Unit()}))

	_, err = block.SuccessorInputs(2)
	assert.Error(t, err)
}

func TestAllowedChild(t *testing.T) {
	sig := types.MonoFuncType(types.EndoFuncType(types.Row{types.Bool()}))

	tests := []struct {
		name          string
		parent, child OpType
		want          bool
	}{
		{"module holds funcdefn", Module{}, &FuncDefn{Func: "f", Signature: sig}, true},
		{"module holds const", Module{}, &Const{Value: UnitSum(0, 2)}, true},
		{"module rejects dfg", Module{}, &DFG{}, false},
		{"conditional holds only cases", &Conditional{}, &Case{}, true},
		{"conditional rejects dfg", &Conditional{}, &DFG{}, false},
		{"cfg holds blocks", &CFG{}, &DataflowBlock{}, true},
		{"cfg holds the exit", &CFG{}, &ExitBlock{}, true},
		{"cfg rejects cases", &CFG{}, &Case{}, false},
		{"dfg holds nested funcdefn", &DFG{}, &FuncDefn{Func: "g", Signature: sig}, true},
		{"dfg rejects blocks", &DFG{}, &DataflowBlock{}, false},
		{"leaves hold nothing", &Input{}, &Output{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedChild(tt.parent, tt.child))
		})
	}
}

func TestContainerPredicates(t *testing.T) {
	assert.True(t, IsContainer(Module{}))
	assert.True(t, IsContainer(&TailLoop{}))
	assert.False(t, IsContainer(&Input{}))
	assert.False(t, IsContainer(&ExitBlock{}))

	assert.True(t, IsDataflowContainer(&DFG{}))
	assert.True(t, IsDataflowContainer(&DataflowBlock{}))
	assert.False(t, IsDataflowContainer(Module{}))
	assert.False(t, IsDataflowContainer(&CFG{}))
	assert.False(t, IsDataflowContainer(&Conditional{}))
}
