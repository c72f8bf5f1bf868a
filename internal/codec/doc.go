// Package codec serializes modules to a versioned JSON envelope and back.
//
// Encoding is deterministic: nodes appear in preorder over the hierarchy,
// edges and ordering constraints are sorted, and node references are dense
// indices into the node list. Decoding is strict: an unsupported version,
// an unknown field, a dangling index, or an unresolvable custom operation
// fails the whole decode; no partial module is ever returned.
//
// Content identity is computed over the RFC 8785 canonical form of the
// envelope with a domain-separated SHA-256. Canonical JSON forbids floats
// and nulls, which the envelope never produces.
package codec
