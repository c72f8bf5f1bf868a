package extension

import (
	"github.com/hgir-dev/hgir/internal/ops"
	"github.com/hgir-dev/hgir/internal/types"
)

// SignatureFunc computes a custom operation's signature from its static
// arguments. This is the open extensibility point: the core never hard-codes
// any domain operation's semantics, only its computed ports.
type SignatureFunc interface {
	// Params declares the static parameters the arguments must bind.
	Params() []types.TypeParam

	// Compute returns the scheme for the given arguments. Arguments have
	// already been checked against Params.
	Compute(args []types.TypeArg) (types.PolyFuncType, error)
}

// FixedSignature is a SignatureFunc for operations whose scheme does not
// depend on static arguments.
type FixedSignature struct {
	Scheme types.PolyFuncType
}

// Params returns no parameters: fixed signatures take no static arguments.
func (FixedSignature) Params() []types.TypeParam { return nil }

// Compute returns the fixed scheme.
func (f FixedSignature) Compute([]types.TypeArg) (types.PolyFuncType, error) {
	return f.Scheme, nil
}

// SignatureFromArgs adapts a plain function into a SignatureFunc.
type SignatureFromArgs struct {
	StaticParams []types.TypeParam
	ComputeFunc  func(args []types.TypeArg) (types.PolyFuncType, error)
}

func (s SignatureFromArgs) Params() []types.TypeParam { return s.StaticParams }

func (s SignatureFromArgs) Compute(args []types.TypeArg) (types.PolyFuncType, error) {
	return s.ComputeFunc(args)
}

// OpDef is a custom operation definition: a name unique within its
// extension, a description, and a signature-computation rule.
type OpDef struct {
	Extension   string
	Name        string
	Description string
	Signature   SignatureFunc
}

// ComputeSignature checks args against the definition's parameters and runs
// the signature rule, returning a SignatureError on any failure.
func (d *OpDef) ComputeSignature(args []types.TypeArg) (types.PolyFuncType, error) {
	if err := types.CheckArgs(args, d.Signature.Params()); err != nil {
		return types.PolyFuncType{}, &SignatureError{Extension: d.Extension, Op: d.Name, Err: err}
	}
	scheme, err := d.Signature.Compute(args)
	if err != nil {
		return types.PolyFuncType{}, &SignatureError{Extension: d.Extension, Op: d.Name, Err: err}
	}
	return scheme, nil
}

// validate resolves every opaque type mentioned by a fixed scheme against
// the registry. Compute-from-args rules can only be checked per call site.
func (d *OpDef) validate(reg *Registry) error {
	fixed, ok := d.Signature.(FixedSignature)
	if !ok {
		return nil
	}
	check := func(t types.Type) error {
		if op, ok := t.(*types.Opaque); ok {
			return CheckOpaque(reg, op)
		}
		return nil
	}
	for _, row := range []types.Row{fixed.Scheme.Body.Input, fixed.Scheme.Body.Output} {
		for _, t := range row {
			if err := walkType(t, check); err != nil {
				return &SignatureError{Extension: d.Extension, Op: d.Name, Err: err}
			}
		}
	}
	return nil
}

// walkType applies fn to t and every type nested within it.
func walkType(t types.Type, fn func(types.Type) error) error {
	if err := fn(t); err != nil {
		return err
	}
	switch ty := t.(type) {
	case *types.Sum:
		for _, row := range ty.Variants {
			for _, elem := range row {
				if err := walkType(elem, fn); err != nil {
					return err
				}
			}
		}
	case *types.Opaque:
		for _, arg := range ty.Args {
			if ta, ok := arg.(types.ArgType); ok {
				if err := walkType(ta.Ty, fn); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// InstantiateOp resolves (extension, op, args) through the registry into a
// concrete Custom operation. The resulting signature's requirement set
// always includes the defining extension. Polymorphic schemes must be fully
// instantiated by the static arguments; a scheme with leftover binders is a
// SignatureError.
func InstantiateOp(reg *Registry, ext, op string, args []types.TypeArg) (*ops.Custom, error) {
	def, err := reg.LookupOp(ext, op)
	if err != nil {
		return nil, err
	}
	scheme, err := def.ComputeSignature(args)
	if err != nil {
		return nil, err
	}
	sig, err := scheme.Instantiate(nil)
	if err != nil {
		return nil, &SignatureError{Extension: ext, Op: op, Err: err}
	}
	sig.Requires = sig.Requires.Union(types.NewExtensionSet(ext))
	return &ops.Custom{
		Extension:   ext,
		Op:          op,
		Args:        args,
		Sig:         sig,
		Description: def.Description,
	}, nil
}
