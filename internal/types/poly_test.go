package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamAdmits(t *testing.T) {
	qubit := &Opaque{Extension: "quantum", Name: "qubit", TypeBound: Linear}

	tests := []struct {
		name  string
		param TypeParam
		arg   TypeArg
		want  bool
	}{
		{"copyable param admits copyable type", ParamType{B: Copyable}, ArgType{Ty: Bool()}, true},
		{"copyable param rejects linear type", ParamType{B: Copyable}, ArgType{Ty: qubit}, false},
		{"linear param admits linear type", ParamType{B: Linear}, ArgType{Ty: qubit}, true},
		{"type param rejects nat", ParamType{B: Linear}, ArgNat{N: 1}, false},
		{"nat param admits value in range", ParamNat{Max: 8}, ArgNat{N: 8}, true},
		{"nat param rejects value over max", ParamNat{Max: 8}, ArgNat{N: 9}, false},
		{"max nat admits anything", MaxNat(), ArgNat{N: 1 << 60}, true},
		{"extensions param admits a set", ParamExtensions{}, ArgExtensions{Set: NewExtensionSet("logic")}, true},
		{"extensions param rejects a string", ParamExtensions{}, ArgString{S: "logic"}, false},
		{"string param admits a string", ParamString{}, ArgString{S: "label"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.param.Admits(tt.arg))
		})
	}
}

func TestCheckArgs(t *testing.T) {
	params := []TypeParam{ParamType{B: Copyable}, ParamNat{Max: 4}}

	err := CheckArgs([]TypeArg{ArgType{Ty: Bool()}, ArgNat{N: 2}}, params)
	assert.NoError(t, err)

	err = CheckArgs([]TypeArg{ArgType{Ty: Bool()}}, params)
	var mismatch *ArgMismatchError
	require.ErrorAs(t, err, &mismatch)

	err = CheckArgs([]TypeArg{ArgType{Ty: Bool()}, ArgNat{N: 5}}, params)
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 1, mismatch.Index)
}

func TestFuncTypeEqual(t *testing.T) {
	f := NewFuncType(Row{Bool()}, Row{Unit()})
	assert.True(t, f.Equal(NewFuncType(Row{Bool()}, Row{Unit()})))
	assert.False(t, f.Equal(NewFuncType(Row{Bool()}, Row{Bool()})))
	assert.False(t, f.Equal(f.WithRequires(NewExtensionSet("logic"))))
	assert.True(t, f.WithRequires(NewExtensionSet("logic")).
		Equal(f.WithRequires(NewExtensionSet("logic"))))
}

func TestPolyFuncTypeInstantiate(t *testing.T) {
	// forall T:copyable, E. [T] -> [T] requiring E
	scheme := PolyFuncType{
		Params: []TypeParam{ParamType{B: Copyable}, ParamExtensions{}},
		Body: FuncType{
			Input:    Row{&Variable{Idx: 0, TypeBound: Copyable}},
			Output:   Row{&Variable{Idx: 0, TypeBound: Copyable}},
			Requires: ExtensionSetVar(1),
		},
	}
	assert.False(t, scheme.IsMono())

	got, err := scheme.Instantiate([]TypeArg{
		ArgType{Ty: Bool()},
		ArgExtensions{Set: NewExtensionSet("logic")},
	})
	require.NoError(t, err)
	assert.True(t, got.Input.Equal(Row{Bool()}))
	assert.True(t, got.Output.Equal(Row{Bool()}))
	assert.True(t, got.Requires.Equal(NewExtensionSet("logic")))

	_, err = scheme.Instantiate([]TypeArg{ArgType{Ty: Bool()}})
	assert.Error(t, err)

	qubit := &Opaque{Extension: "quantum", Name: "qubit", TypeBound: Linear}
	_, err = scheme.Instantiate([]TypeArg{
		ArgType{Ty: qubit},
		ArgExtensions{Set: ExtensionSet{}},
	})
	assert.Error(t, err)
}

func TestPolyFuncTypeEqual(t *testing.T) {
	a := MonoFuncType(EndoFuncType(Row{Bool()}))
	b := MonoFuncType(EndoFuncType(Row{Bool()}))
	assert.True(t, a.Equal(&b))

	c := PolyFuncType{
		Params: []TypeParam{ParamType{B: Linear}},
		Body:   EndoFuncType(Row{&Variable{Idx: 0, TypeBound: Linear}}),
	}
	assert.False(t, a.Equal(&c))
	assert.True(t, c.Equal(&PolyFuncType{
		Params: []TypeParam{ParamType{B: Linear}},
		Body:   EndoFuncType(Row{&Variable{Idx: 0, TypeBound: Linear}}),
	}))
}

func TestSubstitutionApply(t *testing.T) {
	sub := Substitution{ArgType{Ty: Bool()}, ArgNat{N: 3}}

	got := sub.Apply(&Variable{Idx: 0, TypeBound: Copyable})
	assert.True(t, Equal(got, Bool()))

	// A variable bound to a non-type argument is rebuilt, not replaced.
	got = sub.Apply(&Variable{Idx: 1, TypeBound: Copyable})
	assert.True(t, Equal(got, &Variable{Idx: 1, TypeBound: Copyable}))

	arr := &Opaque{
		Extension: "collections",
		Name:      "array",
		Args:      []TypeArg{ArgNat{N: 7}, ArgType{Ty: &Variable{Idx: 0, TypeBound: Copyable}}},
		TypeBound: Copyable,
	}
	got = sub.Apply(arr)
	want := &Opaque{
		Extension: "collections",
		Name:      "array",
		Args:      []TypeArg{ArgNat{N: 7}, ArgType{Ty: Bool()}},
		TypeBound: Copyable,
	}
	assert.True(t, Equal(got, want))

	sum := &Sum{Variants: []Row{{&Variable{Idx: 0, TypeBound: Copyable}}, {}}}
	got = sub.Apply(sum)
	assert.True(t, Equal(got, &Sum{Variants: []Row{{Bool()}, {}}}))
}

func TestSubstitutionFnShadowing(t *testing.T) {
	sub := Substitution{ArgType{Ty: Bool()}}

	// A mono function value has no binders of its own; its body is open to
	// the outer substitution.
	mono := &Fn{Signature: MonoFuncType(EndoFuncType(Row{&Variable{Idx: 0, TypeBound: Copyable}}))}
	got := sub.Apply(mono).(*Fn)
	assert.True(t, got.Signature.Body.Input.Equal(Row{Bool()}))

	// A nested scheme's binders shadow the outer substitution.
	poly := &Fn{Signature: PolyFuncType{
		Params: []TypeParam{ParamType{B: Copyable}},
		Body:   EndoFuncType(Row{&Variable{Idx: 0, TypeBound: Copyable}}),
	}}
	got = sub.Apply(poly).(*Fn)
	assert.True(t, got.Signature.Equal(&poly.Signature))
}
