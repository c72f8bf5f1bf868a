package extension

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/hgir-dev/hgir/internal/ops"
	"github.com/hgir-dev/hgir/internal/types"
)

// Declarative extension loading. An extension whose operations all have
// fixed signatures can be declared as a CUE document instead of Go code:
//
//	name:    "quantum.gates"
//	version: "0.1.0"
//	types: qubit: bound: "linear"
//	operations: H: {
//		description: "Hadamard"
//		signature: {
//			inputs:  [{kind: "opaque", name: "qubit"}]
//			outputs: [{kind: "opaque", name: "qubit"}]
//		}
//	}
//	values: SOMETHING: {tag: 1, size: 2}
//
// Type references support kind "opaque" (same-document types by bare name,
// foreign types with explicit extension and bound), "unit_sum" with a size,
// and "bool".

// DeclError is a declaration parse failure with source position.
type DeclError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *DeclError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadDecl parses a CUE extension declaration into an Extension.
func LoadDecl(src string) (*Extension, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return loadDecl(v)
}

func loadDecl(v cue.Value) (*Extension, error) {
	name, err := lookupString(v, "name")
	if err != nil {
		return nil, err
	}
	version, err := lookupString(v, "version")
	if err != nil {
		return nil, err
	}
	ext := New(name, version)

	if err := parseDeclTypes(v, ext); err != nil {
		return nil, err
	}
	if err := parseDeclOps(v, ext); err != nil {
		return nil, err
	}
	if err := parseDeclValues(v, ext); err != nil {
		return nil, err
	}
	return ext, nil
}

func parseDeclTypes(v cue.Value, ext *Extension) error {
	typesVal := v.LookupPath(cue.ParsePath("types"))
	if !typesVal.Exists() {
		return nil
	}
	iter, err := typesVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		typeName := iter.Selector().Unquoted()
		boundStr, err := lookupString(iter.Value(), "bound")
		if err != nil {
			return err
		}
		bound, perr := types.ParseBound(boundStr)
		if perr != nil {
			return &DeclError{Field: "types." + typeName + ".bound", Message: perr.Error(), Pos: iter.Value().Pos()}
		}
		def := &TypeDef{Name: typeName, Bound: ExplicitBound{B: bound}}
		if desc := iter.Value().LookupPath(cue.ParsePath("description")); desc.Exists() {
			if def.Description, err = desc.String(); err != nil {
				return formatCUEError(err)
			}
		}
		if err := ext.AddType(def); err != nil {
			return err
		}
	}
	return nil
}

func parseDeclOps(v cue.Value, ext *Extension) error {
	opsVal := v.LookupPath(cue.ParsePath("operations"))
	if !opsVal.Exists() {
		return nil
	}
	iter, err := opsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		opName := iter.Selector().Unquoted()
		opVal := iter.Value()

		sigVal := opVal.LookupPath(cue.ParsePath("signature"))
		if !sigVal.Exists() {
			return &DeclError{
				Field:   "operations." + opName,
				Message: "signature is required",
				Pos:     opVal.Pos(),
			}
		}
		input, err := parseDeclRow(sigVal, "inputs", ext)
		if err != nil {
			return err
		}
		output, err := parseDeclRow(sigVal, "outputs", ext)
		if err != nil {
			return err
		}
		def := &OpDef{
			Name:      opName,
			Signature: FixedSignature{Scheme: types.MonoFuncType(types.NewFuncType(input, output))},
		}
		if desc := opVal.LookupPath(cue.ParsePath("description")); desc.Exists() {
			if def.Description, err = desc.String(); err != nil {
				return formatCUEError(err)
			}
		}
		if err := ext.AddOp(def); err != nil {
			return err
		}
	}
	return nil
}

func parseDeclValues(v cue.Value, ext *Extension) error {
	valsVal := v.LookupPath(cue.ParsePath("values"))
	if !valsVal.Exists() {
		return nil
	}
	iter, err := valsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		valName := iter.Selector().Unquoted()
		tag, err := lookupInt(iter.Value(), "tag")
		if err != nil {
			return err
		}
		size, err := lookupInt(iter.Value(), "size")
		if err != nil {
			return err
		}
		if tag < 0 || tag >= size {
			return &DeclError{
				Field:   "values." + valName,
				Message: fmt.Sprintf("tag %d out of range for unit sum of size %d", tag, size),
				Pos:     iter.Value().Pos(),
			}
		}
		if err := ext.AddValue(valName, ops.UnitSum(int(tag), int(size))); err != nil {
			return err
		}
	}
	return nil
}

func parseDeclRow(sigVal cue.Value, field string, ext *Extension) (types.Row, error) {
	rowVal := sigVal.LookupPath(cue.ParsePath(field))
	if !rowVal.Exists() {
		return types.Row{}, nil
	}
	iter, err := rowVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var row types.Row
	for iter.Next() {
		t, err := parseDeclType(iter.Value(), ext)
		if err != nil {
			return nil, err
		}
		row = append(row, t)
	}
	return row, nil
}

func parseDeclType(v cue.Value, ext *Extension) (types.Type, error) {
	kind, err := lookupString(v, "kind")
	if err != nil {
		return nil, err
	}
	switch kind {
	case "bool":
		return types.Bool(), nil
	case "unit_sum":
		size, err := lookupInt(v, "size")
		if err != nil {
			return nil, err
		}
		return types.UnitSum(int(size)), nil
	case "opaque":
		name, err := lookupString(v, "name")
		if err != nil {
			return nil, err
		}
		extName := ext.Name
		if ev := v.LookupPath(cue.ParsePath("extension")); ev.Exists() {
			if extName, err = ev.String(); err != nil {
				return nil, formatCUEError(err)
			}
		}
		if extName == ext.Name {
			def, ok := ext.TypeDef(name)
			if !ok {
				return nil, &DeclError{
					Field:   "signature",
					Message: fmt.Sprintf("type %q is not declared in this extension", name),
					Pos:     v.Pos(),
				}
			}
			return def.Instantiate(nil)
		}
		// Foreign types must state their bound; the decoder re-checks
		// it against the defining extension when one is registered.
		boundStr, err := lookupString(v, "bound")
		if err != nil {
			return nil, err
		}
		bound, perr := types.ParseBound(boundStr)
		if perr != nil {
			return nil, &DeclError{Field: "signature", Message: perr.Error(), Pos: v.Pos()}
		}
		return &types.Opaque{Extension: extName, Name: name, TypeBound: bound}, nil
	default:
		return nil, &DeclError{
			Field:   "signature",
			Message: fmt.Sprintf("unknown type kind %q", kind),
			Pos:     v.Pos(),
		}
	}
}

func lookupString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &DeclError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func lookupInt(v cue.Value, field string) (int64, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, &DeclError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return n, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &DeclError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
