package extension

import (
	"github.com/hgir-dev/hgir/internal/types"
)

// TypeDefBound is the rule computing the linearity bound of an instantiated
// custom type.
type TypeDefBound interface {
	// BoundFor returns the bound given the concrete type arguments.
	BoundFor(args []types.TypeArg) types.Bound
}

// ExplicitBound always returns a fixed bound.
type ExplicitBound struct {
	B types.Bound
}

func (b ExplicitBound) BoundFor([]types.TypeArg) types.Bound { return b.B }

// FromArgsBound is the join of the bounds of the type arguments at the
// given parameter indices; a custom container is Linear iff any of its
// element types is.
type FromArgsBound struct {
	Indices []int
}

func (b FromArgsBound) BoundFor(args []types.TypeArg) types.Bound {
	out := types.Copyable
	for _, i := range b.Indices {
		if i < len(args) {
			if ta, ok := args[i].(types.ArgType); ok {
				out = out.Join(ta.Ty.Bound())
			}
		}
	}
	return out
}

// TypeDef is a custom type definition: a name unique within its extension,
// static parameters, and a bound rule.
type TypeDef struct {
	Extension   string
	Name        string
	Description string
	Params      []types.TypeParam
	Bound       TypeDefBound
}

// Instantiate checks the arguments and builds the concrete opaque type with
// its computed bound.
func (d *TypeDef) Instantiate(args []types.TypeArg) (*types.Opaque, error) {
	if err := types.CheckArgs(args, d.Params); err != nil {
		return nil, &SignatureError{Extension: d.Extension, Op: d.Name, Err: err}
	}
	return &types.Opaque{
		Extension: d.Extension,
		Name:      d.Name,
		Args:      args,
		TypeBound: d.Bound.BoundFor(args),
	}, nil
}

// CheckOpaque verifies that an opaque type's cached bound and arguments
// agree with its defining TypeDef in the registry. Decoders call this so a
// tampered or stale bound is caught rather than trusted.
func CheckOpaque(reg *Registry, t *types.Opaque) error {
	def, err := reg.LookupType(t.Extension, t.Name)
	if err != nil {
		return err
	}
	if err := types.CheckArgs(t.Args, def.Params); err != nil {
		return &SignatureError{Extension: t.Extension, Op: t.Name, Err: err}
	}
	if want := def.Bound.BoundFor(t.Args); want != t.TypeBound {
		return &SignatureError{
			Extension: t.Extension,
			Op:        t.Name,
			Err:       &types.TypeMismatchError{Expected: t, Actual: t, Context: "cached bound " + t.TypeBound.String() + " does not match definition " + want.String()},
		}
	}
	return nil
}
