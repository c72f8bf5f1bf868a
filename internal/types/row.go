package types

import "strings"

// Row is an ordered sequence of types, used for multi-valued ports and
// operation signatures.
type Row []Type

// Bound is the join of the bounds of all members.
func (r Row) Bound() Bound {
	b := Copyable
	for _, t := range r {
		b = b.Join(t.Bound())
	}
	return b
}

// PurelyCopyable reports whether no member is Linear.
func (r Row) PurelyCopyable() bool { return r.Bound() == Copyable }

// Equal reports element-wise structural equality.
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if !Equal(r[i], other[i]) {
			return false
		}
	}
	return true
}

// Concat returns a new row with other appended after r.
func (r Row) Concat(other Row) Row {
	out := make(Row, 0, len(r)+len(other))
	out = append(out, r...)
	out = append(out, other...)
	return out
}

func (r Row) String() string {
	parts := make([]string, len(r))
	for i, t := range r {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
