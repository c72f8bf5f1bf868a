// Package extension defines pluggable extension descriptors: named,
// versioned bundles of custom types, custom operations, and exported
// constants, looked up through an explicit Registry.
//
// The registry is always passed as a parameter to signature computation and
// decoding, never consulted through a process-wide global, so independent IR
// instances with different extension sets can coexist.
package extension
