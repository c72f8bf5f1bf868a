package graph

import "fmt"

// StructuralError reports a graph mutation or query whose preconditions do
// not hold: a stale node ID, an out-of-range port, a kind mismatch, or a
// hierarchy violation.
type StructuralError struct {
	// Op is the operation that failed, e.g. "Connect".
	Op      string
	Message string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func structuralf(op, format string, args ...any) *StructuralError {
	return &StructuralError{Op: op, Message: fmt.Sprintf(format, args...)}
}
