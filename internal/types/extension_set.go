package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ExtensionSet is a set of extension names required by a region or function
// type. The zero value is the empty set.
//
// A member whose first character is an ASCII digit is not a legal extension
// name; such members encode extension-set variables by their de Bruijn index,
// resolved during substitution.
type ExtensionSet struct {
	elems []string // sorted, unique
}

// NewExtensionSet builds a set from the given extension names.
func NewExtensionSet(names ...string) ExtensionSet {
	var s ExtensionSet
	for _, n := range names {
		s.Insert(n)
	}
	return s
}

// ExtensionSetVar builds a set containing a single extension-set variable,
// which must have been declared as a ParamExtensions binder.
func ExtensionSetVar(idx int) ExtensionSet {
	var s ExtensionSet
	s.InsertVar(idx)
	return s
}

// Insert adds an extension name to the set.
func (s *ExtensionSet) Insert(name string) {
	i := sort.SearchStrings(s.elems, name)
	if i < len(s.elems) && s.elems[i] == name {
		return
	}
	s.elems = append(s.elems, "")
	copy(s.elems[i+1:], s.elems[i:])
	s.elems[i] = name
}

// InsertVar adds an extension-set variable by de Bruijn index.
func (s *ExtensionSet) InsertVar(idx int) {
	s.Insert(strconv.Itoa(idx))
}

// Contains reports whether the set holds the given name.
func (s ExtensionSet) Contains(name string) bool {
	i := sort.SearchStrings(s.elems, name)
	return i < len(s.elems) && s.elems[i] == name
}

// IsEmpty reports whether the set has no members.
func (s ExtensionSet) IsEmpty() bool { return len(s.elems) == 0 }

// Len returns the number of members.
func (s ExtensionSet) Len() int { return len(s.elems) }

// Elems returns the members in sorted order. The caller must not mutate the
// returned slice.
func (s ExtensionSet) Elems() []string { return s.elems }

// Union returns the union of s and other.
func (s ExtensionSet) Union(other ExtensionSet) ExtensionSet {
	out := NewExtensionSet(s.elems...)
	for _, e := range other.elems {
		out.Insert(e)
	}
	return out
}

// UnionOver returns the union of an arbitrary collection of sets.
func UnionOver(sets ...ExtensionSet) ExtensionSet {
	var out ExtensionSet
	for _, s := range sets {
		for _, e := range s.elems {
			out.Insert(e)
		}
	}
	return out
}

// IsSupersetOf reports whether every member of other is in s.
func (s ExtensionSet) IsSupersetOf(other ExtensionSet) bool {
	for _, e := range other.elems {
		if !s.Contains(e) {
			return false
		}
	}
	return true
}

// MissingFrom returns the members of other that are not in s.
func (s ExtensionSet) MissingFrom(other ExtensionSet) ExtensionSet {
	var out ExtensionSet
	for _, e := range other.elems {
		if !s.Contains(e) {
			out.Insert(e)
		}
	}
	return out
}

// Equal reports whether two sets have identical members.
func (s ExtensionSet) Equal(other ExtensionSet) bool {
	if len(s.elems) != len(other.elems) {
		return false
	}
	for i := range s.elems {
		if s.elems[i] != other.elems[i] {
			return false
		}
	}
	return true
}

// HasVars reports whether the set contains any extension-set variables.
func (s ExtensionSet) HasVars() bool {
	for _, e := range s.elems {
		if _, ok := asSetVar(e); ok {
			return true
		}
	}
	return false
}

// Substitute replaces extension-set variables with the extension sets bound
// by sub. Variables must have been declared as ParamExtensions binders; a
// non-Extensions argument for a variable is a caller error surfaced as a
// TypeMismatchError by Instantiate before substitution runs.
func (s ExtensionSet) Substitute(sub Substitution) ExtensionSet {
	var out ExtensionSet
	for _, e := range s.elems {
		idx, ok := asSetVar(e)
		if !ok {
			out.Insert(e)
			continue
		}
		if idx < len(sub) {
			if ea, ok := sub[idx].(ArgExtensions); ok {
				out = out.Union(ea.Set)
				continue
			}
		}
		out.Insert(e)
	}
	return out
}

func asSetVar(e string) (int, bool) {
	if e == "" || e[0] < '0' || e[0] > '9' {
		return 0, false
	}
	idx, err := strconv.Atoi(e)
	if err != nil {
		return 0, false
	}
	return idx, true
}

func (s ExtensionSet) String() string {
	return fmt.Sprintf("{%s}", strings.Join(s.elems, ", "))
}
