package types

import "fmt"

// TypeMismatchError reports that two types which must be structurally equal
// are not, e.g. the endpoints of a value edge.
type TypeMismatchError struct {
	Expected Type
	Actual   Type
	Context  string
}

func (e *TypeMismatchError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("type mismatch (%s): expected %s, found %s", e.Context, e.Expected, e.Actual)
	}
	return fmt.Sprintf("type mismatch: expected %s, found %s", e.Expected, e.Actual)
}

// LinearityError reports a violation of the Linear bound: a Linear output
// port driving more than one value edge, or a Linear value never consumed.
type LinearityError struct {
	Ty      Type
	Message string
}

func (e *LinearityError) Error() string {
	return fmt.Sprintf("linearity violation on %s: %s", e.Ty, e.Message)
}

// ArgMismatchError reports type arguments that do not fit the declared
// parameters of a scheme or extension definition.
type ArgMismatchError struct {
	Index   int
	Message string
}

func (e *ArgMismatchError) Error() string {
	return "type argument mismatch: " + e.Message
}
