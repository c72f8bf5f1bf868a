package extension

import (
	"fmt"
	"strings"
)

// NotFoundError reports a lookup of an extension name the registry does not
// hold.
type NotFoundError struct {
	Extension string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("extension %q not found", e.Extension)
}

// OpNotFoundError reports a lookup of an operation name an extension does
// not define.
type OpNotFoundError struct {
	Extension string
	Op        string
}

func (e *OpNotFoundError) Error() string {
	return fmt.Sprintf("extension %q has no operation %q", e.Extension, e.Op)
}

// TypeNotFoundError reports a lookup of a type name an extension does not
// define.
type TypeNotFoundError struct {
	Extension string
	TypeName  string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("extension %q has no type %q", e.Extension, e.TypeName)
}

// SignatureError reports a failure computing the signature of a custom
// operation or type: malformed static arguments, or a cached bound that
// disagrees with the defining TypeDef.
type SignatureError struct {
	Extension string
	Op        string
	Err       error
}

func (e *SignatureError) Error() string {
	var b strings.Builder
	b.WriteString("signature error")
	if e.Extension != "" {
		fmt.Fprintf(&b, " for %s", e.Extension)
		if e.Op != "" {
			fmt.Fprintf(&b, ".%s", e.Op)
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *SignatureError) Unwrap() error { return e.Err }
