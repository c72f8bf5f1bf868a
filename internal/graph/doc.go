// Package graph is the mutable hierarchical multigraph underlying a module:
// an arena of nodes carrying operations, typed ports derived from each
// operation, edges in four kinds, and a parent/child hierarchy with a single
// root. Mutations validate their immediate preconditions and leave the graph
// untouched on failure; whole-module invariants are the validator's job.
package graph
