package ops

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hgir-dev/hgir/internal/types"
)

// Value is a sealed interface over constant values held by Const nodes and
// extension-exported constants. Only SumValue, TupleValue, and OpaqueValue
// implement it.
type Value interface {
	isValue()

	// Type returns the declared type of the value.
	Type() types.Type
}

// SumValue is a tagged value of a sum type: the chosen variant's row is
// populated by Payload.
type SumValue struct {
	Tag     int
	Payload []Value
	SumType *types.Sum
}

func (*SumValue) isValue() {}

func (v *SumValue) Type() types.Type { return v.SumType }

// UnitSum builds a bare discriminant: tag out of size, no payload.
func UnitSum(tag, size int) *SumValue {
	return &SumValue{Tag: tag, SumType: types.UnitSum(size)}
}

// TupleValue is an ordered sequence of values; its type is the tuple of the
// item types.
type TupleValue struct {
	Items []Value
}

func (*TupleValue) isValue() {}

func (v *TupleValue) Type() types.Type {
	row := make(types.Row, len(v.Items))
	for i, item := range v.Items {
		row[i] = item.Type()
	}
	return types.Tuple(row...)
}

// OpaqueValue is an extension-defined constant: an opaque type plus the
// extension's own encoding of the payload.
type OpaqueValue struct {
	Ty   *types.Opaque
	Data json.RawMessage
}

func (*OpaqueValue) isValue() {}

func (v *OpaqueValue) Type() types.Type { return v.Ty }

// CheckValue typechecks a constant value against an expected type: sum tags
// must be in range with payloads matching the variant row, tuples must have
// the right arity, and every element is checked recursively.
func CheckValue(v Value, expected types.Type) error {
	switch val := v.(type) {
	case *SumValue:
		sum, ok := expected.(*types.Sum)
		if !ok {
			return &types.TypeMismatchError{Expected: expected, Actual: v.Type(), Context: "sum constant"}
		}
		if val.Tag < 0 || val.Tag >= len(sum.Variants) {
			return fmt.Errorf("sum constant tag %d out of range for %d variants", val.Tag, len(sum.Variants))
		}
		row := sum.Variants[val.Tag]
		if len(val.Payload) != len(row) {
			return fmt.Errorf("sum constant payload has %d values, variant %d expects %d", len(val.Payload), val.Tag, len(row))
		}
		for i, item := range val.Payload {
			if err := CheckValue(item, row[i]); err != nil {
				return fmt.Errorf("sum payload[%d]: %w", i, err)
			}
		}
		if !types.Equal(val.SumType, sum) {
			return &types.TypeMismatchError{Expected: expected, Actual: val.SumType, Context: "sum constant"}
		}
		return nil
	case *TupleValue:
		sum, ok := expected.(*types.Sum)
		if !ok || len(sum.Variants) != 1 {
			return &types.TypeMismatchError{Expected: expected, Actual: v.Type(), Context: "tuple constant"}
		}
		row := sum.Variants[0]
		if len(val.Items) != len(row) {
			return fmt.Errorf("tuple constant has %d items, type expects %d", len(val.Items), len(row))
		}
		for i, item := range val.Items {
			if err := CheckValue(item, row[i]); err != nil {
				return fmt.Errorf("tuple[%d]: %w", i, err)
			}
		}
		return nil
	case *OpaqueValue:
		op, ok := expected.(*types.Opaque)
		if !ok || !types.Equal(val.Ty, op) {
			return &types.TypeMismatchError{Expected: expected, Actual: v.Type(), Context: "opaque constant"}
		}
		return nil
	default:
		return fmt.Errorf("unknown constant value %T", v)
	}
}

// NewConst builds a Const op, typechecking the value against its own
// declared type.
func NewConst(v Value) (*Const, error) {
	if err := CheckValue(v, v.Type()); err != nil {
		return nil, err
	}
	return &Const{Value: v}, nil
}

const (
	valueTagSum    = "sum"
	valueTagTuple  = "tuple"
	valueTagOpaque = "opaque"
)

// MarshalJSON implements json.Marshaler for SumValue.
func (v *SumValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		V       string     `json:"v"`
		Tag     int        `json:"tag"`
		Payload []Value    `json:"payload,omitempty"`
		SumType *types.Sum `json:"sum_type"`
	}{valueTagSum, v.Tag, v.Payload, v.SumType})
}

// MarshalJSON implements json.Marshaler for TupleValue.
func (v *TupleValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		V     string  `json:"v"`
		Items []Value `json:"items,omitempty"`
	}{valueTagTuple, v.Items})
}

// MarshalJSON implements json.Marshaler for OpaqueValue.
func (v *OpaqueValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		V    string          `json:"v"`
		Ty   *types.Opaque   `json:"ty"`
		Data json.RawMessage `json:"data,omitempty"`
	}{valueTagOpaque, v.Ty, v.Data})
}

// UnmarshalValue decodes a serialized constant value by its "v" tag.
func UnmarshalValue(data []byte) (Value, error) {
	var tag struct {
		V string `json:"v"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.V {
	case valueTagSum:
		var raw struct {
			Tag     int               `json:"tag"`
			Payload []json.RawMessage `json:"payload"`
			SumType json.RawMessage   `json:"sum_type"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		st, err := types.UnmarshalType(raw.SumType)
		if err != nil {
			return nil, err
		}
		sum, ok := st.(*types.Sum)
		if !ok {
			return nil, fmt.Errorf("sum constant type is %s, not a sum", st)
		}
		payload, err := unmarshalValues(raw.Payload)
		if err != nil {
			return nil, err
		}
		return &SumValue{Tag: raw.Tag, Payload: payload, SumType: sum}, nil
	case valueTagTuple:
		var raw struct {
			Items []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		items, err := unmarshalValues(raw.Items)
		if err != nil {
			return nil, err
		}
		return &TupleValue{Items: items}, nil
	case valueTagOpaque:
		var raw struct {
			Ty   json.RawMessage `json:"ty"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		ty, err := types.UnmarshalType(raw.Ty)
		if err != nil {
			return nil, err
		}
		op, ok := ty.(*types.Opaque)
		if !ok {
			return nil, fmt.Errorf("opaque constant type is %s, not opaque", ty)
		}
		return &OpaqueValue{Ty: op, Data: bytes.Clone(raw.Data)}, nil
	default:
		return nil, fmt.Errorf("unknown constant value tag %q", tag.V)
	}
}

func unmarshalValues(raw []json.RawMessage) ([]Value, error) {
	if raw == nil {
		return nil, nil
	}
	out := make([]Value, len(raw))
	for i, elem := range raw {
		v, err := UnmarshalValue(elem)
		if err != nil {
			return nil, fmt.Errorf("value[%d]: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
