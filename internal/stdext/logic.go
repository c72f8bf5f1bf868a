// Package stdext holds the extensions shipped with the core: small,
// self-contained bundles exercising the extension machinery end to end.
package stdext

import (
	"fmt"

	"github.com/hgir-dev/hgir/internal/extension"
	"github.com/hgir-dev/hgir/internal/ops"
	"github.com/hgir-dev/hgir/internal/types"
)

// LogicName is the name of the boolean logic extension.
const LogicName = "logic"

// LogicVersion tracks the logic extension's declaration format.
const LogicVersion = "0.1.0"

// Logic builds the boolean logic extension: variadic And/Or taking a
// natural-number arity argument, unary Not, and the TRUE/FALSE constants.
// Booleans are the two-variant unit sum with FALSE as tag 0.
func Logic() *extension.Extension {
	e := extension.New(LogicName, LogicVersion)

	for _, name := range []string{"And", "Or"} {
		def := &extension.OpDef{
			Name:        name,
			Description: fmt.Sprintf("logical %q over n booleans", name),
			Signature: extension.SignatureFromArgs{
				StaticParams: []types.TypeParam{types.MaxNat()},
				ComputeFunc:  variadicBool,
			},
		}
		if err := e.AddOp(def); err != nil {
			panic(err)
		}
	}

	not := &extension.OpDef{
		Name:        "Not",
		Description: "logical negation",
		Signature: extension.FixedSignature{
			Scheme: types.MonoFuncType(types.EndoFuncType(types.Row{types.Bool()})),
		},
	}
	if err := e.AddOp(not); err != nil {
		panic(err)
	}

	// Tag 0 is falsy to match the convention used by conditional
	// discriminants everywhere else.
	if err := e.AddValue("FALSE", ops.UnitSum(0, 2)); err != nil {
		panic(err)
	}
	if err := e.AddValue("TRUE", ops.UnitSum(1, 2)); err != nil {
		panic(err)
	}
	return e
}

// variadicBool maps arity n to the signature bool^n -> bool.
func variadicBool(args []types.TypeArg) (types.PolyFuncType, error) {
	n := args[0].(types.ArgNat).N
	in := make(types.Row, n)
	for i := range in {
		in[i] = types.Bool()
	}
	return types.MonoFuncType(types.NewFuncType(in, types.Row{types.Bool()})), nil
}
