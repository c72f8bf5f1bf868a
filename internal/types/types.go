package types

import (
	"fmt"
	"strings"
)

// Bound is the linearity bound carried by every type.
type Bound int

const (
	// Copyable values may be implicitly duplicated or discarded.
	Copyable Bound = iota

	// Linear values must be consumed exactly once along exactly one
	// outgoing value edge.
	Linear
)

// String returns the bound name used in serialized form.
func (b Bound) String() string {
	if b == Linear {
		return "linear"
	}
	return "copyable"
}

// Join returns the least upper bound of two bounds: Linear dominates.
func (b Bound) Join(other Bound) Bound {
	if b == Linear || other == Linear {
		return Linear
	}
	return Copyable
}

// ParseBound parses a serialized bound name.
func ParseBound(s string) (Bound, error) {
	switch s {
	case "copyable":
		return Copyable, nil
	case "linear":
		return Linear, nil
	default:
		return Copyable, fmt.Errorf("unknown linearity bound %q", s)
	}
}

// Type is a sealed interface over the value type variants.
// Only Opaque, Sum, Fn, and Variable implement it.
type Type interface {
	isType()

	// Bound reports the linearity bound of the type.
	Bound() Bound

	// String renders the type for diagnostics.
	String() string
}

// Opaque is an extension-defined type: a reference to a TypeDef by
// (extension, name) plus the static arguments binding its parameters.
// The bound is cached from the defining TypeDef.
type Opaque struct {
	Extension string    `json:"extension"`
	Name      string    `json:"name"`
	Args      []TypeArg `json:"args,omitempty"`
	TypeBound Bound     `json:"-"`
}

func (*Opaque) isType() {}

// Bound returns the bound declared by the defining TypeDef.
func (t *Opaque) Bound() Bound { return t.TypeBound }

func (t *Opaque) String() string {
	if len(t.Args) == 0 {
		return fmt.Sprintf("%s.%s", t.Extension, t.Name)
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s.%s<%s>", t.Extension, t.Name, strings.Join(args, ", "))
}

// Sum is a tagged union over an ordered sequence of rows. A tuple is a sum
// with a single variant; the unit type is a tuple of the empty row.
type Sum struct {
	Variants []Row `json:"variants"`
}

func (*Sum) isType() {}

// Bound is the join of the bounds of all member types. A sum containing any
// Linear member is Linear.
func (t *Sum) Bound() Bound {
	b := Copyable
	for _, v := range t.Variants {
		b = b.Join(v.Bound())
	}
	return b
}

func (t *Sum) String() string {
	if len(t.Variants) == 1 {
		return fmt.Sprintf("Tuple(%s)", t.Variants[0])
	}
	vs := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		vs[i] = v.String()
	}
	return fmt.Sprintf("Sum(%s)", strings.Join(vs, " | "))
}

// IsUnitSum reports whether every variant is the empty row.
func (t *Sum) IsUnitSum() bool {
	for _, v := range t.Variants {
		if len(v) != 0 {
			return false
		}
	}
	return true
}

// Tuple builds a single-variant sum over the given types.
func Tuple(tys ...Type) *Sum {
	return &Sum{Variants: []Row{Row(tys)}}
}

// Unit is the empty tuple.
func Unit() *Sum { return Tuple() }

// UnitSum builds a sum of size empty rows: the type of a bare discriminant
// with size branches.
func UnitSum(size int) *Sum {
	variants := make([]Row, size)
	for i := range variants {
		variants[i] = Row{}
	}
	return &Sum{Variants: variants}
}

// Bool is the two-variant unit sum, with tag 1 conventionally true.
func Bool() *Sum { return UnitSum(2) }

// Fn is a function value type. Function values are always Copyable.
type Fn struct {
	Signature PolyFuncType `json:"signature"`
}

func (*Fn) isType() {}

// Bound is Copyable: function values may be freely duplicated.
func (t *Fn) Bound() Bound { return Copyable }

func (t *Fn) String() string { return t.Signature.String() }

// Variable is a de Bruijn index into the binders of an enclosing
// PolyFuncType, caching the bound its declaration admits.
type Variable struct {
	Idx       int   `json:"idx"`
	TypeBound Bound `json:"-"`
}

func (*Variable) isType() {}

// Bound returns the bound declared for the variable.
func (t *Variable) Bound() Bound { return t.TypeBound }

func (t *Variable) String() string { return fmt.Sprintf("$%d", t.Idx) }

// Equal reports structural equality of two types. This is the one and only
// compatibility relation for value edges.
func Equal(a, b Type) bool {
	switch at := a.(type) {
	case *Opaque:
		bt, ok := b.(*Opaque)
		if !ok || at.Extension != bt.Extension || at.Name != bt.Name {
			return false
		}
		return argsEqual(at.Args, bt.Args)
	case *Sum:
		bt, ok := b.(*Sum)
		if !ok || len(at.Variants) != len(bt.Variants) {
			return false
		}
		for i := range at.Variants {
			if !at.Variants[i].Equal(bt.Variants[i]) {
				return false
			}
		}
		return true
	case *Fn:
		bt, ok := b.(*Fn)
		return ok && at.Signature.Equal(&bt.Signature)
	case *Variable:
		bt, ok := b.(*Variable)
		return ok && at.Idx == bt.Idx
	default:
		return false
	}
}

func argsEqual(a, b []TypeArg) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ArgEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
