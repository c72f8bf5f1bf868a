package extension

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hgir-dev/hgir/internal/ops"
	"github.com/hgir-dev/hgir/internal/types"
)

// Extension is a named, versioned bundle of custom type definitions, custom
// operation definitions, and exported constant values.
type Extension struct {
	// Name uniquely identifies the extension, e.g. "logic" or
	// "quantum.gates".
	Name string

	// Version is an informational semantic version string.
	Version string

	// Requires is an upper bound on the extensions that signatures
	// computed by this extension's operations may mention.
	Requires types.ExtensionSet

	types  map[string]*TypeDef
	ops    map[string]*OpDef
	values map[string]*Value
}

// Value is a named constant exported by an extension.
type Value struct {
	Extension string
	Name      string
	Val       ops.Value
}

// New creates an empty extension with the given name and version.
func New(name, version string) *Extension {
	return &Extension{
		Name:    name,
		Version: version,
		types:   make(map[string]*TypeDef),
		ops:     make(map[string]*OpDef),
		values:  make(map[string]*Value),
	}
}

// AddType registers a type definition, failing on a duplicate name.
func (e *Extension) AddType(def *TypeDef) error {
	if _, exists := e.types[def.Name]; exists {
		return fmt.Errorf("extension %q already has a type %q", e.Name, def.Name)
	}
	def.Extension = e.Name
	e.types[def.Name] = def
	return nil
}

// AddOp registers an operation definition, failing on a duplicate name.
func (e *Extension) AddOp(def *OpDef) error {
	if _, exists := e.ops[def.Name]; exists {
		return fmt.Errorf("extension %q already has an operation %q", e.Name, def.Name)
	}
	def.Extension = e.Name
	e.ops[def.Name] = def
	return nil
}

// AddValue registers an exported constant, typechecking it and failing on a
// duplicate name.
func (e *Extension) AddValue(name string, val ops.Value) error {
	if _, exists := e.values[name]; exists {
		return fmt.Errorf("extension %q already has a value %q", e.Name, name)
	}
	if err := ops.CheckValue(val, val.Type()); err != nil {
		return fmt.Errorf("extension %q value %q: %w", e.Name, name, err)
	}
	e.values[name] = &Value{Extension: e.Name, Name: name, Val: val}
	return nil
}

// TypeDef returns the named type definition, if present.
func (e *Extension) TypeDef(name string) (*TypeDef, bool) {
	d, ok := e.types[name]
	return d, ok
}

// OpDef returns the named operation definition, if present.
func (e *Extension) OpDef(name string) (*OpDef, bool) {
	d, ok := e.ops[name]
	return d, ok
}

// Value returns the named exported constant, if present.
func (e *Extension) Value(name string) (*Value, bool) {
	v, ok := e.values[name]
	return v, ok
}

// OpNames returns the defined operation names in sorted order.
func (e *Extension) OpNames() []string {
	names := make([]string, 0, len(e.ops))
	for n := range e.ops {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TypeNames returns the defined type names in sorted order.
func (e *Extension) TypeNames() []string {
	names := make([]string, 0, len(e.types))
	for n := range e.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// validate resolves every op def's signature scheme against the registry,
// which is assumed to include this extension itself.
func (e *Extension) validate(reg *Registry) error {
	for _, def := range e.ops {
		if err := def.validate(reg); err != nil {
			return err
		}
	}
	return nil
}

// Registry holds a set of extensions keyed by name. Lookups are safe for
// concurrent readers once population is complete; registration is not safe
// concurrently with lookups on the same registry.
type Registry struct {
	mu   sync.RWMutex
	exts map[string]*Extension
}

// NewRegistry builds a registry from the given extensions, rejecting
// duplicate names and validating every extension's operation definitions
// against the whole set.
func NewRegistry(exts ...*Extension) (*Registry, error) {
	r := &Registry{exts: make(map[string]*Extension, len(exts))}
	for _, e := range exts {
		if _, dup := r.exts[e.Name]; dup {
			return nil, fmt.Errorf("duplicate extension %q", e.Name)
		}
		r.exts[e.Name] = e
	}
	for _, e := range r.exts {
		if err := e.validate(r); err != nil {
			return nil, fmt.Errorf("extension %q: %w", e.Name, err)
		}
	}
	return r, nil
}

// EmptyRegistry returns a registry containing no extensions.
func EmptyRegistry() *Registry {
	return &Registry{exts: make(map[string]*Extension)}
}

// Register adds an extension to the registry, rejecting duplicates.
func (r *Registry) Register(e *Extension) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.exts[e.Name]; dup {
		return fmt.Errorf("duplicate extension %q", e.Name)
	}
	r.exts[e.Name] = e
	return nil
}

// Get returns the named extension or a NotFoundError.
func (r *Registry) Get(name string) (*Extension, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.exts[name]
	if !ok {
		return nil, &NotFoundError{Extension: name}
	}
	return e, nil
}

// Has reports whether the registry holds the named extension.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.exts[name]
	return ok
}

// Names returns the registered extension names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.exts))
	for n := range r.exts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupOp resolves (extension, op) to an operation definition, failing
// typed on either missing level.
func (r *Registry) LookupOp(ext, op string) (*OpDef, error) {
	e, err := r.Get(ext)
	if err != nil {
		return nil, err
	}
	def, ok := e.OpDef(op)
	if !ok {
		return nil, &OpNotFoundError{Extension: ext, Op: op}
	}
	return def, nil
}

// LookupType resolves (extension, type name) to a type definition.
func (r *Registry) LookupType(ext, name string) (*TypeDef, error) {
	e, err := r.Get(ext)
	if err != nil {
		return nil, err
	}
	def, ok := e.TypeDef(name)
	if !ok {
		return nil, &TypeNotFoundError{Extension: ext, TypeName: name}
	}
	return def, nil
}
