package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundJoin(t *testing.T) {
	assert.Equal(t, Copyable, Copyable.Join(Copyable))
	assert.Equal(t, Linear, Copyable.Join(Linear))
	assert.Equal(t, Linear, Linear.Join(Copyable))
	assert.Equal(t, Linear, Linear.Join(Linear))
}

func TestParseBound(t *testing.T) {
	b, err := ParseBound("copyable")
	require.NoError(t, err)
	assert.Equal(t, Copyable, b)

	b, err = ParseBound("linear")
	require.NoError(t, err)
	assert.Equal(t, Linear, b)

	_, err = ParseBound("affine")
	assert.Error(t, err)
}

func TestSumBound(t *testing.T) {
	qubit := &Opaque{Extension: "quantum", Name: "qubit", TypeBound: Linear}

	tests := []struct {
		name string
		ty   Type
		want Bound
	}{
		{"bool is copyable", Bool(), Copyable},
		{"unit is copyable", Unit(), Copyable},
		{"linear opaque", qubit, Linear},
		{"sum is linear if any variant element is", &Sum{Variants: []Row{{Bool()}, {qubit}}}, Linear},
		{"tuple of copyables", Tuple(Bool(), Bool()), Copyable},
		{"tuple with linear element", Tuple(Bool(), qubit), Linear},
		{"function values are copyable", &Fn{Signature: MonoFuncType(EndoFuncType(Row{qubit}))}, Copyable},
		{"variable carries its declared bound", &Variable{Idx: 0, TypeBound: Linear}, Linear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ty.Bound())
		})
	}
}

func TestEqual(t *testing.T) {
	qubit := &Opaque{Extension: "quantum", Name: "qubit", TypeBound: Linear}

	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"bool equals bool", Bool(), Bool(), true},
		{"bool is not unit", Bool(), Unit(), false},
		{"same opaque", qubit, &Opaque{Extension: "quantum", Name: "qubit", TypeBound: Linear}, true},
		{"opaque bound matters", qubit, &Opaque{Extension: "quantum", Name: "qubit", TypeBound: Copyable}, false},
		{"opaque name matters", qubit, &Opaque{Extension: "quantum", Name: "qutrit", TypeBound: Linear}, false},
		{
			"opaque args matter",
			&Opaque{Extension: "collections", Name: "array", Args: []TypeArg{ArgNat{N: 3}}, TypeBound: Copyable},
			&Opaque{Extension: "collections", Name: "array", Args: []TypeArg{ArgNat{N: 4}}, TypeBound: Copyable},
			false,
		},
		{"variables equal by index and bound", &Variable{Idx: 1, TypeBound: Copyable}, &Variable{Idx: 1, TypeBound: Copyable}, true},
		{"variables differ by index", &Variable{Idx: 0, TypeBound: Copyable}, &Variable{Idx: 1, TypeBound: Copyable}, false},
		{
			"fn equality is structural",
			&Fn{Signature: MonoFuncType(EndoFuncType(Row{Bool()}))},
			&Fn{Signature: MonoFuncType(EndoFuncType(Row{Bool()}))},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}

func TestRowOperations(t *testing.T) {
	qubit := &Opaque{Extension: "quantum", Name: "qubit", TypeBound: Linear}

	r := Row{Bool(), qubit}
	assert.Equal(t, Linear, r.Bound())
	assert.False(t, r.PurelyCopyable())
	assert.True(t, Row{Bool()}.PurelyCopyable())

	joined := Row{Bool()}.Concat(Row{qubit})
	assert.True(t, joined.Equal(r))
	assert.False(t, joined.Equal(Row{Bool()}))

	// Concat must not alias its receiver.
	base := make(Row, 1, 4)
	base[0] = Bool()
	left := base.Concat(Row{qubit})
	right := base.Concat(Row{Bool()})
	assert.True(t, Equal(left[1], qubit))
	assert.True(t, Equal(right[1], Bool()))
}
