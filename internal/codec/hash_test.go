package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgir-dev/hgir/internal/graph"
	"github.com/hgir-dev/hgir/internal/ops"
	"github.com/hgir-dev/hgir/internal/types"
)

func TestModuleHashStability(t *testing.T) {
	g1 := buildIdentity(t, types.Row{types.Bool()})
	h1, err := ModuleHash(g1)
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	// Same shape, different construction history: identical hash.
	g2 := graph.New()
	scratch, err := g2.AddNode(g2.Root(), &ops.Const{Value: ops.UnitSum(0, 2)})
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

	h2, err := ModuleHash(g2)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	// A different module hashes differently.
	g3 := buildIdentity(t, types.Row{types.Unit()})
	h3, err := ModuleHash(g3)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestEnvelopeHashMatchesModuleHash(t *testing.T) {
	g := buildIdentity(t, types.Row{types.Bool()})

	want, err := ModuleHash(g)
	require.NoError(t, err)

	data, err := EncodeJSON(g)
	require.NoError(t, err)
	got, err := EnvelopeHash(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Hashing survives cosmetic reserialization: key order and spacing do
	// not matter, only canonical content.
	spaced := []byte("{\n  \"order\": [],\n  \"edges\": " + extract(t, data, "edges") +
		",\n  \"nodes\": " + extract(t, data, "nodes") + ",\n  \"version\": 1\n}")
	reordered, err := EnvelopeHash(spaced)
	require.NoError(t, err)
	assert.Equal(t, want, reordered)
}

// extract pulls one top-level field's raw JSON out of an envelope document.
func extract(t *testing.T, data []byte, field string) string {
	t.Helper()
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &env))
	return string(env[field])
}
