package codec

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hgir-dev/hgir/internal/graph"
)

// Encode serializes a module into an envelope. Nodes are emitted in
// preorder so that encoding the same module twice yields byte-identical
// envelopes and a parent always precedes its children.
func Encode(g *graph.Graph) (*Envelope, error) {
	index := make(map[graph.NodeID]int, g.NumNodes())
	env := &Envelope{
		Version: Version,
		Nodes:   make([]NodeEnvelope, 0, g.NumNodes()),
		Edges:   []EdgeEnvelope{},
		Order:   [][2]int{},
	}
	if err := encodeSubtree(g, g.Root(), -1, index, env); err != nil {
		return nil, err
	}

	for _, e := range g.Edges() {
		env.Edges = append(env.Edges, EdgeEnvelope{
			Src:     index[e.Src],
			SrcPort: e.SrcPort,
			Dst:     index[e.Dst],
			DstPort: e.DstPort,
			Kind:    e.Kind.String(),
		})
	}
	sortEdges(env.Edges)

	for _, pair := range g.OrderPairs() {
		env.Order = append(env.Order, [2]int{index[pair[0]], index[pair[1]]})
	}
	sortPairs(env.Order)
	return env, nil
}

func encodeSubtree(g *graph.Graph, n graph.NodeID, parent int, index map[graph.NodeID]int, env *Envelope) error {
	op, err := g.Op(n)
	if err != nil {
		return err
	}
	payload, err := marshalOp(op)
	if err != nil {
		return fmt.Errorf("node %s: %w", n, err)
	}
	index[n] = len(env.Nodes)
	env.Nodes = append(env.Nodes, NodeEnvelope{Parent: parent, Op: payload})

	children, err := g.Children(n)
	if err != nil {
		return err
	}
	self := index[n]
	for _, c := range children {
		if err := encodeSubtree(g, c, self, index, env); err != nil {
			return err
		}
	}
	return nil
}

// sortEdges re-sorts by envelope index: Graph.Edges is ordered by arena
// index, which depends on slot reuse, and the envelope must not.
func sortEdges(edges []EdgeEnvelope) {
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Src != b.Src {
			return a.Src < b.Src
		}
		if a.SrcPort != b.SrcPort {
			return a.SrcPort < b.SrcPort
		}
		if a.Dst != b.Dst {
			return a.Dst < b.Dst
		}
		return a.DstPort < b.DstPort
	})
}

func sortPairs(pairs [][2]int) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
}

// EncodeJSON serializes a module to envelope JSON.
func EncodeJSON(g *graph.Graph) ([]byte, error) {
	env, err := Encode(g)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}
