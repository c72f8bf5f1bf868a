package types

import (
	"fmt"
	"math"
	"strings"
)

// TypeParam declares the kind of a binder on a PolyFuncType or on an
// extension TypeDef/OpDef. It is a sealed interface over ParamType,
// ParamNat, ParamExtensions, and ParamString.
type TypeParam interface {
	isParam()

	// Admits reports whether the given argument can bind this parameter.
	Admits(arg TypeArg) bool

	String() string
}

// ParamType binds a type whose bound is at most B: a Copyable parameter
// only admits Copyable types, a Linear parameter admits anything.
type ParamType struct {
	B Bound `json:"bound"`
}

func (ParamType) isParam() {}

func (p ParamType) Admits(arg TypeArg) bool {
	ta, ok := arg.(ArgType)
	if !ok {
		return false
	}
	return p.B == Linear || ta.Ty.Bound() == Copyable
}

func (p ParamType) String() string { return fmt.Sprintf("Type(%s)", p.B) }

// ParamNat binds a natural number up to Max inclusive.
type ParamNat struct {
	Max uint64 `json:"max"`
}

// MaxNat is a ParamNat admitting any uint64.
func MaxNat() ParamNat { return ParamNat{Max: math.MaxUint64} }

func (ParamNat) isParam() {}

func (p ParamNat) Admits(arg TypeArg) bool {
	na, ok := arg.(ArgNat)
	return ok && na.N <= p.Max
}

func (p ParamNat) String() string { return fmt.Sprintf("Nat(<=%d)", p.Max) }

// ParamExtensions binds an extension set.
type ParamExtensions struct{}

func (ParamExtensions) isParam() {}

func (ParamExtensions) Admits(arg TypeArg) bool {
	_, ok := arg.(ArgExtensions)
	return ok
}

func (ParamExtensions) String() string { return "Extensions" }

// ParamString binds an arbitrary string.
type ParamString struct{}

func (ParamString) isParam() {}

func (ParamString) Admits(arg TypeArg) bool {
	_, ok := arg.(ArgString)
	return ok
}

func (ParamString) String() string { return "String" }

// TypeArg is a static argument binding a TypeParam. Sealed over ArgType,
// ArgNat, ArgExtensions, and ArgString.
type TypeArg interface {
	isArg()
	String() string
}

// ArgType carries a type argument.
type ArgType struct {
	Ty Type `json:"ty"`
}

func (ArgType) isArg() {}

func (a ArgType) String() string { return a.Ty.String() }

// ArgNat carries a natural-number argument.
type ArgNat struct {
	N uint64 `json:"n"`
}

func (ArgNat) isArg() {}

func (a ArgNat) String() string { return fmt.Sprintf("%d", a.N) }

// ArgExtensions carries an extension-set argument.
type ArgExtensions struct {
	Set ExtensionSet `json:"set"`
}

func (ArgExtensions) isArg() {}

func (a ArgExtensions) String() string { return a.Set.String() }

// ArgString carries a string argument.
type ArgString struct {
	S string `json:"s"`
}

func (ArgString) isArg() {}

func (a ArgString) String() string { return fmt.Sprintf("%q", a.S) }

// ArgEqual reports structural equality of two type arguments.
func ArgEqual(a, b TypeArg) bool {
	switch at := a.(type) {
	case ArgType:
		bt, ok := b.(ArgType)
		return ok && Equal(at.Ty, bt.Ty)
	case ArgNat:
		bt, ok := b.(ArgNat)
		return ok && at.N == bt.N
	case ArgExtensions:
		bt, ok := b.(ArgExtensions)
		return ok && at.Set.Equal(bt.Set)
	case ArgString:
		bt, ok := b.(ArgString)
		return ok && at.S == bt.S
	default:
		return false
	}
}

// CheckArgs validates type arguments against declared parameters: the arity
// must match and each argument must be admitted by its parameter.
func CheckArgs(args []TypeArg, params []TypeParam) error {
	if len(args) != len(params) {
		return &ArgMismatchError{
			Message: fmt.Sprintf("expected %d type arguments, got %d", len(params), len(args)),
		}
	}
	for i, p := range params {
		if !p.Admits(args[i]) {
			return &ArgMismatchError{
				Index:   i,
				Message: fmt.Sprintf("argument %s does not satisfy parameter %s", args[i], p),
			}
		}
	}
	return nil
}

// FuncType is a concrete (monomorphic) operation signature: an input row, an
// output row, and the extension-requirement set of the operation.
type FuncType struct {
	Input    Row          `json:"input"`
	Output   Row          `json:"output"`
	Requires ExtensionSet `json:"requires,omitempty"`
}

// NewFuncType builds a signature with an empty requirement set.
func NewFuncType(input, output Row) FuncType {
	return FuncType{Input: input, Output: output}
}

// EndoFuncType builds a signature whose input and output rows are the same.
func EndoFuncType(row Row) FuncType {
	return FuncType{Input: row, Output: row}
}

// WithRequires returns a copy with the given requirement set.
func (f FuncType) WithRequires(set ExtensionSet) FuncType {
	f.Requires = set
	return f
}

// Equal reports structural equality including the requirement set.
func (f FuncType) Equal(other FuncType) bool {
	return f.Input.Equal(other.Input) &&
		f.Output.Equal(other.Output) &&
		f.Requires.Equal(other.Requires)
}

func (f FuncType) String() string {
	if f.Requires.IsEmpty() {
		return fmt.Sprintf("%s -> %s", f.Input, f.Output)
	}
	return fmt.Sprintf("%s -%s-> %s", f.Input, f.Requires, f.Output)
}

// PolyFuncType is a polymorphic function type: an ordered list of binders
// and a body signature that may mention them by de Bruijn index.
type PolyFuncType struct {
	Params []TypeParam `json:"params,omitempty"`
	Body   FuncType    `json:"body"`
}

// MonoFuncType wraps a concrete signature as a scheme with no binders.
func MonoFuncType(body FuncType) PolyFuncType {
	return PolyFuncType{Body: body}
}

// IsMono reports whether the scheme has no binders.
func (p *PolyFuncType) IsMono() bool { return len(p.Params) == 0 }

// Equal reports structural equality of two schemes.
func (p *PolyFuncType) Equal(other *PolyFuncType) bool {
	if len(p.Params) != len(other.Params) {
		return false
	}
	for i := range p.Params {
		if p.Params[i].String() != other.Params[i].String() {
			return false
		}
	}
	return p.Body.Equal(other.Body)
}

func (p *PolyFuncType) String() string {
	if p.IsMono() {
		return p.Body.String()
	}
	params := make([]string, len(p.Params))
	for i, pr := range p.Params {
		params[i] = pr.String()
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(params, ", "), p.Body.String())
}

// Instantiate binds the scheme's parameters with concrete arguments,
// substituting into the body rows and into the extension-requirement set.
func (p *PolyFuncType) Instantiate(args []TypeArg) (FuncType, error) {
	if err := CheckArgs(args, p.Params); err != nil {
		return FuncType{}, err
	}
	return Substitution(args).ApplyFunc(p.Body), nil
}
