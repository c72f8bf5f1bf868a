package types

// Substitution maps de Bruijn indices to the type arguments binding them.
// Applying a substitution never mutates its input; every result is a fresh
// value.
type Substitution []TypeArg

// Apply substitutes into a type. A Variable whose index is covered by the
// substitution and bound to a type argument is replaced; anything else is
// rebuilt structurally.
func (s Substitution) Apply(t Type) Type {
	switch ty := t.(type) {
	case *Variable:
		if ty.Idx < len(s) {
			if ta, ok := s[ty.Idx].(ArgType); ok {
				return ta.Ty
			}
		}
		return &Variable{Idx: ty.Idx, TypeBound: ty.TypeBound}
	case *Opaque:
		args := make([]TypeArg, len(ty.Args))
		for i, a := range ty.Args {
			args[i] = s.ApplyArg(a)
		}
		return &Opaque{Extension: ty.Extension, Name: ty.Name, Args: args, TypeBound: ty.TypeBound}
	case *Sum:
		variants := make([]Row, len(ty.Variants))
		for i, v := range ty.Variants {
			variants[i] = s.ApplyRow(v)
		}
		return &Sum{Variants: variants}
	case *Fn:
		// Binders inside the nested scheme shadow ours; substitution
		// only touches the scheme's free structure, which a well-formed
		// mono wrapper has none of. Nested polymorphism is rebuilt as-is.
		body := s.ApplyFunc(ty.Signature.Body)
		if len(ty.Signature.Params) > 0 {
			body = ty.Signature.Body
		}
		return &Fn{Signature: PolyFuncType{Params: ty.Signature.Params, Body: body}}
	default:
		return t
	}
}

// ApplyRow substitutes into every member of a row.
func (s Substitution) ApplyRow(r Row) Row {
	out := make(Row, len(r))
	for i, t := range r {
		out[i] = s.Apply(t)
	}
	return out
}

// ApplyArg substitutes into a type argument.
func (s Substitution) ApplyArg(a TypeArg) TypeArg {
	switch arg := a.(type) {
	case ArgType:
		return ArgType{Ty: s.Apply(arg.Ty)}
	case ArgExtensions:
		return ArgExtensions{Set: arg.Set.Substitute(s)}
	default:
		return a
	}
}

// ApplyFunc substitutes into a concrete signature, including its
// extension-requirement set.
func (s Substitution) ApplyFunc(f FuncType) FuncType {
	return FuncType{
		Input:    s.ApplyRow(f.Input),
		Output:   s.ApplyRow(f.Output),
		Requires: f.Requires.Substitute(s),
	}
}
