package codec

import (
	"bytes"
	"encoding/json"

	"github.com/hgir-dev/hgir/internal/extension"
	"github.com/hgir-dev/hgir/internal/graph"
	"github.com/hgir-dev/hgir/internal/ops"
)

// Decode rebuilds a module from an envelope. Custom operations are resolved
// through the registry; pass extension.EmptyRegistry() for modules known to
// use none. Any malformed entry fails the whole decode.
func Decode(env *Envelope, reg *extension.Registry) (*graph.Graph, error) {
	if env.Version != Version {
		return nil, &UnsupportedVersionError{Version: env.Version}
	}
	if reg == nil {
		reg = extension.EmptyRegistry()
	}
	if len(env.Nodes) == 0 {
		return nil, decodeErrf(-1, "envelope has no nodes")
	}
	if env.Nodes[0].Parent != -1 {
		return nil, decodeErrf(0, "first node has parent %d, the root must have -1", env.Nodes[0].Parent)
	}

	g := graph.New()
	ids := make([]graph.NodeID, len(env.Nodes))
	for i, ne := range env.Nodes {
		op, err := unmarshalOp(ne.Op, reg)
		if err != nil {
			return nil, &DecodeError{Node: i, Message: "operation payload", Err: err}
		}
		if i == 0 {
			if _, ok := op.(ops.Module); !ok {
				return nil, decodeErrf(0, "root carries %s, want Module", op.Name())
			}
			ids[0] = g.Root()
			continue
		}
		if _, ok := op.(ops.Module); ok {
			return nil, decodeErrf(i, "Module below the root")
		}
		if ne.Parent < 0 || ne.Parent >= i {
			return nil, decodeErrf(i, "parent index %d out of range, parents must precede children", ne.Parent)
		}
		n, err := g.AddNode(ids[ne.Parent], op)
		if err != nil {
			return nil, &DecodeError{Node: i, Message: "adding node", Err: err}
		}
		ids[i] = n
	}

	for i, e := range env.Edges {
		kind, ok := ops.ParseEdgeKind(e.Kind)
		if !ok {
			return nil, decodeErrf(e.Src, "edge %d has unknown kind %q", i, e.Kind)
		}
		if kind == ops.KindOrder {
			return nil, decodeErrf(e.Src, "edge %d: order constraints belong in the order list", i)
		}
		if err := checkIndex(e.Src, len(ids)); err != nil {
			return nil, err
		}
		if err := checkIndex(e.Dst, len(ids)); err != nil {
			return nil, err
		}
		if err := g.Connect(ids[e.Src], e.SrcPort, ids[e.Dst], e.DstPort); err != nil {
			return nil, &DecodeError{Node: e.Src, Message: "connecting edge", Err: err}
		}
	}

	for _, pair := range env.Order {
		if err := checkIndex(pair[0], len(ids)); err != nil {
			return nil, err
		}
		if err := checkIndex(pair[1], len(ids)); err != nil {
			return nil, err
		}
		if err := g.ConnectOrder(ids[pair[0]], ids[pair[1]]); err != nil {
			return nil, &DecodeError{Node: pair[0], Message: "order constraint", Err: err}
		}
	}
	return g, nil
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return decodeErrf(i, "node index out of range (envelope has %d nodes)", n)
	}
	return nil
}

// DecodeJSON decodes envelope JSON strictly: unknown fields anywhere in the
// envelope structure are rejected.
func DecodeJSON(data []byte, reg *extension.Registry) (*graph.Graph, error) {
	// Read the version before the strict pass so a newer envelope reports
	// UnsupportedVersion rather than an unknown-field error.
	var version struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &version); err != nil {
		return nil, &DecodeError{Node: -1, Message: "parsing envelope", Err: err}
	}
	if version.Version != Version {
		return nil, &UnsupportedVersionError{Version: version.Version}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var env Envelope
	if err := dec.Decode(&env); err != nil {
		return nil, &DecodeError{Node: -1, Message: "parsing envelope", Err: err}
	}
	return Decode(&env, reg)
}
