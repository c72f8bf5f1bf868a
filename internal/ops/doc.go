// Package ops defines the operation taxonomy: the closed set of structural
// node kinds plus the single Custom kind that indirects into an extension
// registry. Each kind computes its port signature from its own parameters;
// Custom carries a signature resolved at construction or decode time.
//
// The fixed kinds give exhaustive-switch safety; Custom is the one open
// extensibility point.
package ops
