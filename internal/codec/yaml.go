package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hgir-dev/hgir/internal/extension"
	"github.com/hgir-dev/hgir/internal/graph"
)

// YAML is a convenience transport over the same envelope: the YAML document
// is the envelope JSON, value for value. JSON stays the canonical form;
// hashes are only ever computed over it.

// EncodeYAML serializes a module to envelope YAML.
func EncodeYAML(g *graph.Graph) ([]byte, error) {
	data, err := EncodeJSON(g)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	v, err = jsonNumbersToInts(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(v)
}

// DecodeYAML decodes envelope YAML with the same strictness as DecodeJSON.
func DecodeYAML(data []byte, reg *extension.Registry) (*graph.Graph, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, &DecodeError{Node: -1, Message: "parsing YAML", Err: err}
	}
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, &DecodeError{Node: -1, Message: "converting YAML to envelope JSON", Err: err}
	}
	return DecodeJSON(jsonData, reg)
}

// jsonNumbersToInts rewrites json.Number leaves as int64 so the YAML
// encoder emits plain integers. The envelope never contains floats.
func jsonNumbersToInts(v any) (any, error) {
	switch val := v.(type) {
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integer number %s in envelope", val)
		}
		return n, nil
	case []any:
		for i, elem := range val {
			conv, err := jsonNumbersToInts(elem)
			if err != nil {
				return nil, err
			}
			val[i] = conv
		}
		return val, nil
	case map[string]any:
		for k, elem := range val {
			conv, err := jsonNumbersToInts(elem)
			if err != nil {
				return nil, err
			}
			val[k] = conv
		}
		return val, nil
	default:
		return v, nil
	}
}
