package codec

import "encoding/json"

// Version is the envelope format this build writes and the only one it
// reads.
const Version = 1

// Envelope is the serialized form of a module.
type Envelope struct {
	Version int            `json:"version"`
	Nodes   []NodeEnvelope `json:"nodes"`
	Edges   []EdgeEnvelope `json:"edges"`
	Order   [][2]int       `json:"order"`
}

// NodeEnvelope is one node: its parent's index in the node list (-1 for the
// root) and its operation payload. Nodes are listed in preorder, so a
// parent always precedes its children and child order is preserved.
type NodeEnvelope struct {
	Parent int             `json:"parent"`
	Op     json.RawMessage `json:"op"`
}

// EdgeEnvelope is one ported edge between node-list indices.
type EdgeEnvelope struct {
	Src     int    `json:"src"`
	SrcPort int    `json:"src_port"`
	Dst     int    `json:"dst"`
	DstPort int    `json:"dst_port"`
	Kind    string `json:"kind"`
}
