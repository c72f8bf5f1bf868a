package codec

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgir-dev/hgir/internal/extension"
	"github.com/hgir-dev/hgir/internal/graph"
	"github.com/hgir-dev/hgir/internal/ops"
	"github.com/hgir-dev/hgir/internal/stdext"
	"github.com/hgir-dev/hgir/internal/types"
	"github.com/hgir-dev/hgir/internal/validate"
)

// buildIdentity builds a module holding one identity function over row.
func buildIdentity(t *testing.T, row types.Row) *graph.Graph {
	t.Helper()
	g := graph.New()
	sig := types.MonoFuncType(types.EndoFuncType(row))
	defn, err := g.AddNode(g.Root(), &ops.FuncDefn{Func: "id", Signature: sig})
	require.NoError(t, err)
	in, err := g.AddNode(defn, &ops.Input{Types: row})
	require.NoError(t, err)
	out, err := g.AddNode(defn, &ops.Output{Types: row})
	require.NoError(t, err)
	for i := range row {
		require.NoError(t, g.Connect(in, i, out, i))
	}
	return g
}

// buildLogicModule builds a module exercising constants, loads, custom
// operations, ordering, and a conditional.
func buildLogicModule(t *testing.T, reg *extension.Registry) *graph.Graph {
	t.Helper()
	g := graph.New()
	row := types.Row{types.Bool()}
	sig := types.MonoFuncType(types.EndoFuncType(row))

	defn, err := g.AddNode(g.Root(), &ops.FuncDefn{Func: "negate_twice", Signature: sig})
	require.NoError(t, err)
	in, err := g.AddNode(defn, &ops.Input{Types: row})
	require.NoError(t, err)
	out, err := g.AddNode(defn, &ops.Output{Types: row})
	require.NoError(t, err)

	not1, err := extension.InstantiateOp(reg, stdext.LogicName, "Not", nil)
	require.NoError(t, err)
	n1, err := g.AddNode(defn, not1)
	require.NoError(t, err)
	not2, err := extension.InstantiateOp(reg, stdext.LogicName, "Not", nil)
	require.NoError(t, err)
	n2, err := g.AddNode(defn, not2)
	require.NoError(t, err)

	require.NoError(t, g.Connect(in, 0, n1, 0))
	require.NoError(t, g.Connect(n1, 0, n2, 0))
	require.NoError(t, g.Connect(n2, 0, out, 0))
	require.NoError(t, g.ConnectOrder(n1, n2))

	_, err = g.AddNode(g.Root(), &ops.Const{Value: ops.UnitSum(1, 2)})
	require.NoError(t, err)
	return g
}

func TestJSONRoundTrip(t *testing.T) {
	reg, err := extension.NewRegistry(stdext.Logic())
	require.NoError(t, err)
	g := buildLogicModule(t, reg)

	data, err := EncodeJSON(g)
	require.NoError(t, err)

	back, err := DecodeJSON(data, reg)
	require.NoError(t, err)
	assert.Equal(t, g.NumNodes(), back.NumNodes())

	// Re-encoding the decoded module reproduces the envelope byte for byte.
	again, err := EncodeJSON(back)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestRoundTripPreservesViolations(t *testing.T) {
	// Encode and decode change nothing about what the validator reports,
	// for broken modules as much as for clean ones.
	g := graph.New()
	row := types.Row{types.Bool()}
	sig := types.MonoFuncType(types.EndoFuncType(row))
	defn, err := g.AddNode(g.Root(), &ops.FuncDefn{Func: "id", Signature: sig})
	require.NoError(t, err)
	_, err = g.AddNode(defn, &ops.Input{Types: row})
	require.NoError(t, err)
	_, err = g.AddNode(defn, &ops.Output{Types: row})
	require.NoError(t, err)
	// No value edge: the Output port stays unconnected. A DFG directly
	// under the module is a second, unrelated violation.
	_, err = g.AddNode(g.Root(), &ops.DFG{Signature: types.FuncType{}})
	require.NoError(t, err)

	before := validate.Validate(g)
	require.NotEmpty(t, before)

	data, err := EncodeJSON(g)
	require.NoError(t, err)
	back, err := DecodeJSON(data, nil)
	require.NoError(t, err)
	assert.Equal(t, before, validate.Validate(back))

	// And a clean module stays clean.
	good := buildIdentity(t, row)
	require.Empty(t, validate.Validate(good))
	data, err = EncodeJSON(good)
	require.NoError(t, err)
	back, err = DecodeJSON(data, nil)
	require.NoError(t, err)
	assert.Empty(t, validate.Validate(back))
}

func TestEncodeDeterminism(t *testing.T) {
	// Two graphs with the same shape but different construction histories
	// (slot reuse in the second) encode identically.
	g1 := buildIdentity(t, types.Row{types.Bool()})

	g2 := graph.New()
	scratch, err := g2.AddNode(g2.Root(), &ops.FuncDefn{
		Func: "scratch", Signature: types.MonoFuncType(types.FuncType{}),
	})
	require.NoError(t, err)
	require.NoError(t, g2.RemoveNode(scratch))
	row := types.Row{types.Bool()}
	sig := types.MonoFuncType(types.EndoFuncType(row))
	defn, err := g2.AddNode(g2.Root(), &ops.FuncDefn{Func: "id", Signature: sig})
	require.NoError(t, err)
	in, err := g2.AddNode(defn, &ops.Input{Types: row})
	require.NoError(t, err)
	out, err := g2.AddNode(defn, &ops.Output{Types: row})
	require.NoError(t, err)
	require.NoError(t, g2.Connect(in, 0, out, 0))

	d1, err := EncodeJSON(g1)
	require.NoError(t, err)
	d2, err := EncodeJSON(g2)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestGoldenEnvelope(t *testing.T) {
	g := buildIdentity(t, types.Row{types.Bool()})
	data, err := EncodeJSON(g)
	require.NoError(t, err)

	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, "identity_envelope", data)
}

func TestDecodeVersionCheck(t *testing.T) {
	g := buildIdentity(t, types.Row{types.Bool()})
	data, err := EncodeJSON(g)
	require.NoError(t, err)

	bumped := bytes.Replace(data, []byte(`"version":1`), []byte(`"version":2`), 1)
	_, err = DecodeJSON(bumped, nil)
	var vErr *UnsupportedVersionError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 2, vErr.Version)

	env := &Envelope{Version: 99}
	_, err = Decode(env, nil)
	assert.ErrorAs(t, err, &vErr)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	g := buildIdentity(t, types.Row{types.Bool()})
	data, err := EncodeJSON(g)
	require.NoError(t, err)

	tampered := bytes.Replace(data, []byte(`"version":1`), []byte(`"version":1,"extra":true`), 1)
	_, err = DecodeJSON(tampered, nil)
	var dErr *DecodeError
	assert.ErrorAs(t, err, &dErr)
}

func TestDecodeMalformedEnvelopes(t *testing.T) {
	boolJSON := `{"t":"sum","variants":[[],[]]}`
	inputOp := json.RawMessage(`{"op":"Input","types":[` + boolJSON + `]}`)
	moduleOp := json.RawMessage(`{"op":"Module"}`)

	tests := []struct {
		name string
		env  *Envelope
	}{
		{"no nodes", &Envelope{Version: Version}},
		{
			"root with a parent",
			&Envelope{Version: Version, Nodes: []NodeEnvelope{{Parent: 0, Op: moduleOp}}},
		},
		{
			"root is not a module",
			&Envelope{Version: Version, Nodes: []NodeEnvelope{{Parent: -1, Op: inputOp}}},
		},
		{
			"module below the root",
			&Envelope{Version: Version, Nodes: []NodeEnvelope{
				{Parent: -1, Op: moduleOp},
				{Parent: 0, Op: moduleOp},
			}},
		},
		{
			"forward parent reference",
			&Envelope{Version: Version, Nodes: []NodeEnvelope{
				{Parent: -1, Op: moduleOp},
				{Parent: 2, Op: inputOp},
				{Parent: 0, Op: inputOp},
			}},
		},
		{
			"edge index out of range",
			&Envelope{
				Version: Version,
				Nodes:   []NodeEnvelope{{Parent: -1, Op: moduleOp}},
				Edges:   []EdgeEnvelope{{Src: 5, Dst: 0, Kind: "value"}},
			},
		},
		{
			"unknown edge kind",
			&Envelope{
				Version: Version,
				Nodes:   []NodeEnvelope{{Parent: -1, Op: moduleOp}},
				Edges:   []EdgeEnvelope{{Src: 0, Dst: 0, Kind: "mystery"}},
			},
		},
		{
			"order constraint in the edge list",
			&Envelope{
				Version: Version,
				Nodes:   []NodeEnvelope{{Parent: -1, Op: moduleOp}},
				Edges:   []EdgeEnvelope{{Src: 0, Dst: 0, Kind: "order"}},
			},
		},
		{
			"order index out of range",
			&Envelope{
				Version: Version,
				Nodes:   []NodeEnvelope{{Parent: -1, Op: moduleOp}},
				Order:   [][2]int{{0, 7}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.env, nil)
			var dErr *DecodeError
			assert.ErrorAs(t, err, &dErr)
		})
	}
}

func TestDecodeCustomResolvesThroughRegistry(t *testing.T) {
	reg, err := extension.NewRegistry(stdext.Logic())
	require.NoError(t, err)
	g := buildLogicModule(t, reg)
	data, err := EncodeJSON(g)
	require.NoError(t, err)

	// Without the registry the custom ops cannot be resolved.
	_, err = DecodeJSON(data, nil)
	var dErr *DecodeError
	assert.ErrorAs(t, err, &dErr)

	back, err := DecodeJSON(data, reg)
	require.NoError(t, err)

	// Signatures are recomputed, not read from the envelope.
	var custom *ops.Custom
	for _, n := range back.Nodes() {
		op, oerr := back.Op(n)
		require.NoError(t, oerr)
		if c, ok := op.(*ops.Custom); ok {
			custom = c
			break
		}
	}
	require.NotNil(t, custom)
	assert.True(t, custom.Sig.Requires.Contains(stdext.LogicName))
	assert.Equal(t, "logical negation", custom.Description)
}

func TestYAMLRoundTrip(t *testing.T) {
	reg, err := extension.NewRegistry(stdext.Logic())
	require.NoError(t, err)
	g := buildLogicModule(t, reg)

	data, err := EncodeYAML(g)
	require.NoError(t, err)

	back, err := DecodeYAML(data, reg)
	require.NoError(t, err)

	// The YAML transport changes nothing about identity.
	jsonOrig, err := EncodeJSON(g)
	require.NoError(t, err)
	jsonBack, err := EncodeJSON(back)
	require.NoError(t, err)
	assert.Equal(t, jsonOrig, jsonBack)
}

func TestYAMLRejectsBadDocuments(t *testing.T) {
	_, err := DecodeYAML([]byte(":\n  - ["), nil)
	var dErr *DecodeError
	assert.ErrorAs(t, err, &dErr)

	_, err = DecodeYAML([]byte("version: 7\nnodes: []\nedges: []\norder: []\n"), nil)
	var vErr *UnsupportedVersionError
	assert.ErrorAs(t, err, &vErr)
}
