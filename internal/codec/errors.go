package codec

import "fmt"

// UnsupportedVersionError reports an envelope whose version this build does
// not read.
type UnsupportedVersionError struct {
	Version int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported envelope version %d, this build reads version %d", e.Version, Version)
}

// DecodeError reports a malformed envelope. Node is the index of the
// offending node entry, or -1 when the failure is not node-specific.
type DecodeError struct {
	Node    int
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	where := "envelope"
	if e.Node >= 0 {
		where = fmt.Sprintf("node %d", e.Node)
	}
	if e.Err != nil {
		return fmt.Sprintf("decode %s: %s: %v", where, e.Message, e.Err)
	}
	return fmt.Sprintf("decode %s: %s", where, e.Message)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErrf(node int, format string, args ...any) *DecodeError {
	return &DecodeError{Node: node, Message: fmt.Sprintf(format, args...)}
}
