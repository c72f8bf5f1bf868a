// Package types defines the value types carried on dataflow ports: opaque
// extension types, sum types over rows, polymorphic function types, and type
// variables, together with linearity bounds, type parameters/arguments,
// substitution, and extension-requirement sets.
//
// This package contains type definitions only. All other internal packages
// import types; types imports nothing internal. This keeps it the
// foundational layer with no circular dependencies.
//
// Compatibility across a value edge is structural equality. There is no
// subtyping and no implicit coercion.
package types
