package types

import (
	"encoding/json"
	"fmt"
)

// Serialized forms are tagged unions: types under the "t" key, arguments
// under "a", parameters under "p". Tags and field names are stable; the
// envelope version in the codec package governs compatibility.

const (
	tagOpaque = "opaque"
	tagSum    = "sum"
	tagFn     = "fn"
	tagVar    = "var"
)

// MarshalJSON implements json.Marshaler for Opaque.
func (t *Opaque) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		T         string    `json:"t"`
		Extension string    `json:"extension"`
		Name      string    `json:"name"`
		Args      []TypeArg `json:"args,omitempty"`
		Bound     string    `json:"bound"`
	}{tagOpaque, t.Extension, t.Name, t.Args, t.TypeBound.String()})
}

// MarshalJSON implements json.Marshaler for Sum.
func (t *Sum) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		T        string `json:"t"`
		Variants []Row  `json:"variants"`
	}{tagSum, t.Variants})
}

// MarshalJSON implements json.Marshaler for Fn.
func (t *Fn) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		T         string        `json:"t"`
		Signature *PolyFuncType `json:"signature"`
	}{tagFn, &t.Signature})
}

// MarshalJSON implements json.Marshaler for Variable.
func (t *Variable) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		T     string `json:"t"`
		Idx   int    `json:"idx"`
		Bound string `json:"bound"`
	}{tagVar, t.Idx, t.TypeBound.String()})
}

// UnmarshalType decodes a serialized type by its "t" tag.
func UnmarshalType(data []byte) (Type, error) {
	var tag struct {
		T string `json:"t"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.T {
	case tagOpaque:
		var raw struct {
			Extension string            `json:"extension"`
			Name      string            `json:"name"`
			Args      []json.RawMessage `json:"args"`
			Bound     string            `json:"bound"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		bound, err := ParseBound(raw.Bound)
		if err != nil {
			return nil, err
		}
		args, err := unmarshalArgs(raw.Args)
		if err != nil {
			return nil, err
		}
		return &Opaque{Extension: raw.Extension, Name: raw.Name, Args: args, TypeBound: bound}, nil
	case tagSum:
		var raw struct {
			Variants []Row `json:"variants"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if raw.Variants == nil {
			raw.Variants = []Row{}
		}
		return &Sum{Variants: raw.Variants}, nil
	case tagFn:
		var raw struct {
			Signature PolyFuncType `json:"signature"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &Fn{Signature: raw.Signature}, nil
	case tagVar:
		var raw struct {
			Idx   int    `json:"idx"`
			Bound string `json:"bound"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		bound, err := ParseBound(raw.Bound)
		if err != nil {
			return nil, err
		}
		return &Variable{Idx: raw.Idx, TypeBound: bound}, nil
	default:
		return nil, fmt.Errorf("unknown type tag %q", tag.T)
	}
}

// MarshalJSON implements json.Marshaler for Row. Nil rows serialize as [];
// canonical JSON forbids null.
func (r Row) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Type(r))
}

// UnmarshalJSON implements json.Unmarshaler for Row.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Row, len(raw))
	for i, elem := range raw {
		t, err := UnmarshalType(elem)
		if err != nil {
			return fmt.Errorf("row[%d]: %w", i, err)
		}
		out[i] = t
	}
	*r = out
	return nil
}

const (
	argTagType = "type"
	argTagNat  = "nat"
	argTagExts = "exts"
	argTagStr  = "str"
)

// MarshalJSON implements json.Marshaler for ArgType.
func (a ArgType) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		A  string `json:"a"`
		Ty Type   `json:"ty"`
	}{argTagType, a.Ty})
}

// MarshalJSON implements json.Marshaler for ArgNat.
func (a ArgNat) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		A string `json:"a"`
		N uint64 `json:"n"`
	}{argTagNat, a.N})
}

// MarshalJSON implements json.Marshaler for ArgExtensions.
func (a ArgExtensions) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		A   string       `json:"a"`
		Set ExtensionSet `json:"set"`
	}{argTagExts, a.Set})
}

// MarshalJSON implements json.Marshaler for ArgString.
func (a ArgString) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		A string `json:"a"`
		S string `json:"s"`
	}{argTagStr, a.S})
}

// UnmarshalArg decodes a serialized type argument by its "a" tag.
func UnmarshalArg(data []byte) (TypeArg, error) {
	var tag struct {
		A string `json:"a"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.A {
	case argTagType:
		var raw struct {
			Ty json.RawMessage `json:"ty"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		t, err := UnmarshalType(raw.Ty)
		if err != nil {
			return nil, err
		}
		return ArgType{Ty: t}, nil
	case argTagNat:
		var raw struct {
			N uint64 `json:"n"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return ArgNat{N: raw.N}, nil
	case argTagExts:
		var raw struct {
			Set ExtensionSet `json:"set"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return ArgExtensions{Set: raw.Set}, nil
	case argTagStr:
		var raw struct {
			S string `json:"s"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return ArgString{S: raw.S}, nil
	default:
		return nil, fmt.Errorf("unknown type argument tag %q", tag.A)
	}
}

func unmarshalArgs(raw []json.RawMessage) ([]TypeArg, error) {
	if raw == nil {
		return nil, nil
	}
	args := make([]TypeArg, len(raw))
	for i, elem := range raw {
		a, err := UnmarshalArg(elem)
		if err != nil {
			return nil, fmt.Errorf("arg[%d]: %w", i, err)
		}
		args[i] = a
	}
	return args, nil
}

const (
	paramTagType = "type"
	paramTagNat  = "nat"
	paramTagExts = "exts"
	paramTagStr  = "str"
)

// MarshalJSON implements json.Marshaler for ParamType.
func (p ParamType) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		P     string `json:"p"`
		Bound string `json:"bound"`
	}{paramTagType, p.B.String()})
}

// MarshalJSON implements json.Marshaler for ParamNat.
func (p ParamNat) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		P   string `json:"p"`
		Max uint64 `json:"max"`
	}{paramTagNat, p.Max})
}

// MarshalJSON implements json.Marshaler for ParamExtensions.
func (p ParamExtensions) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		P string `json:"p"`
	}{paramTagExts})
}

// MarshalJSON implements json.Marshaler for ParamString.
func (p ParamString) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		P string `json:"p"`
	}{paramTagStr})
}

// UnmarshalParam decodes a serialized type parameter by its "p" tag.
func UnmarshalParam(data []byte) (TypeParam, error) {
	var tag struct {
		P string `json:"p"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.P {
	case paramTagType:
		var raw struct {
			Bound string `json:"bound"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		bound, err := ParseBound(raw.Bound)
		if err != nil {
			return nil, err
		}
		return ParamType{B: bound}, nil
	case paramTagNat:
		var raw struct {
			Max uint64 `json:"max"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return ParamNat{Max: raw.Max}, nil
	case paramTagExts:
		return ParamExtensions{}, nil
	case paramTagStr:
		return ParamString{}, nil
	default:
		return nil, fmt.Errorf("unknown type parameter tag %q", tag.P)
	}
}

// MarshalJSON implements json.Marshaler for ExtensionSet: a sorted array of
// names.
func (s ExtensionSet) MarshalJSON() ([]byte, error) {
	if s.elems == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.elems)
}

// UnmarshalJSON implements json.Unmarshaler for ExtensionSet.
func (s *ExtensionSet) UnmarshalJSON(data []byte) error {
	var elems []string
	if err := json.Unmarshal(data, &elems); err != nil {
		return err
	}
	*s = NewExtensionSet(elems...)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for PolyFuncType.
func (p *PolyFuncType) UnmarshalJSON(data []byte) error {
	var raw struct {
		Params []json.RawMessage `json:"params"`
		Body   json.RawMessage   `json:"body"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	params := make([]TypeParam, len(raw.Params))
	for i, elem := range raw.Params {
		prm, err := UnmarshalParam(elem)
		if err != nil {
			return fmt.Errorf("param[%d]: %w", i, err)
		}
		params[i] = prm
	}
	if len(params) == 0 {
		params = nil
	}
	var body FuncType
	if raw.Body != nil {
		if err := json.Unmarshal(raw.Body, &body); err != nil {
			return err
		}
	}
	p.Params = params
	p.Body = body
	return nil
}
