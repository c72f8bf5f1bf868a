package ops

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgir-dev/hgir/internal/types"
)

func TestCheckValue(t *testing.T) {
	qubit := &types.Opaque{Extension: "quantum", Name: "qubit", TypeBound: types.Linear}

	tests := []struct {
		name     string
		value    Value
		expected types.Type
		wantErr  bool
	}{
		{"unit sum tag in range", UnitSum(1, 2), types.Bool(), false},
		{"unit sum tag out of range", UnitSum(2, 2), types.Bool(), true},
		{
			"sum payload matches variant row",
			&SumValue{
				Tag:     1,
				Payload: []Value{UnitSum(0, 2)},
				SumType: &types.Sum{Variants: []types.Row{{}, {types.Bool()}}},
			},
			&types.Sum{Variants: []types.Row{{}, {types.Bool()}}},
			false,
		},
		{
			"sum payload arity mismatch",
			&SumValue{
				Tag:     1,
				SumType: &types.Sum{Variants: []types.Row{{}, {types.Bool()}}},
			},
			&types.Sum{Variants: []types.Row{{}, {types.Bool()}}},
			true,
		},
		{"sum against non-sum type", UnitSum(0, 1), qubit, true},
		{
			"tuple matches",
			&TupleValue{Items: []Value{UnitSum(0, 2), UnitSum(1, 2)}},
			types.Tuple(types.Bool(), types.Bool()),
			false,
		},
		{
			"tuple arity mismatch",
			&TupleValue{Items: []Value{UnitSum(0, 2)}},
			types.Tuple(types.Bool(), types.Bool()),
			true,
		},
		{
			"opaque matches declared type",
			&OpaqueValue{Ty: qubit, Data: json.RawMessage(`{"state":"zero"}`)},
			qubit,
			false,
		},
		{
			"opaque against wrong type",
			&OpaqueValue{Ty: qubit},
			types.Bool(),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckValue(tt.value, tt.expected)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewConst(t *testing.T) {
	c, err := NewConst(UnitSum(1, 2))
	require.NoError(t, err)
	ty, ok := StaticOutputType(c)
	require.True(t, ok)
	assert.True(t, types.Equal(ty, types.Bool()))

	_, err = NewConst(UnitSum(3, 2))
	assert.Error(t, err)
}

func TestValueJSONRoundTrip(t *testing.T) {
	qubit := &types.Opaque{Extension: "quantum", Name: "qubit", TypeBound: types.Linear}

	values := []Value{
		UnitSum(1, 2),
		&SumValue{
			Tag:     1,
			Payload: []Value{UnitSum(0, 2)},
			SumType: &types.Sum{Variants: []types.Row{{}, {types.Bool()}}},
		},
		&TupleValue{Items: []Value{UnitSum(0, 2), UnitSum(1, 3)}},
		&OpaqueValue{Ty: qubit, Data: json.RawMessage(`{"state":"plus"}`)},
	}
	for _, v := range values {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		back, err := UnmarshalValue(data)
		require.NoError(t, err)
		assert.True(t, types.Equal(v.Type(), back.Type()))
		assert.NoError(t, CheckValue(back, v.Type()))
	}
}

func TestUnmarshalValueErrors(t *testing.T) {
	_, err := UnmarshalValue([]byte(`{"v":"mystery"}`))
	assert.Error(t, err)

	// A sum whose declared type is not a sum.
	_, err = UnmarshalValue([]byte(`{"v":"sum","tag":0,"sum_type":{"t":"opaque","extension":"x","name":"y","bound":"copyable"}}`))
	assert.Error(t, err)
}
