// Package sheeterr defines the domain error family raised while compiling,
// wiring and evaluating sheet cells.
//
// Every recoverable, user-input failure is an *Error carrying one of three
// kinds. Anything that is not an *Error is an unexpected failure and must be
// propagated instead of being turned into a cell result.
package sheeterr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error.
type Kind int

const (
	// KindReference covers cyclic dependencies, unresolvable addresses and
	// failures in referenced cells.
	KindReference Kind = iota + 1
	// KindSyntax covers formula text that is not exactly one supported expression.
	KindSyntax
	// KindValueType covers operands an operation cannot handle.
	KindValueType
)

// String returns the tag shown next to a failed cell.
func (k Kind) String() string {
	switch k {
	case KindReference:
		return "ReferenceError"
	case KindSyntax:
		return "SyntaxError"
	case KindValueType:
		return "ValueTypeError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a domain error.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Msg
}

// Is reports whether target is a domain error of the same kind. A target
// with an empty message matches any message, so callers can test with
// errors.Is(err, &sheeterr.Error{Kind: sheeterr.KindSyntax}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// Referencef creates a reference error.
func Referencef(format string, args ...any) error {
	return &Error{Kind: KindReference, Msg: fmt.Sprintf(format, args...)}
}

// Syntaxf creates a syntax error.
func Syntaxf(format string, args ...any) error {
	return &Error{Kind: KindSyntax, Msg: fmt.Sprintf(format, args...)}
}

// ValueTypef creates a value type error.
func ValueTypef(format string, args ...any) error {
	return &Error{Kind: KindValueType, Msg: fmt.Sprintf(format, args...)}
}

// As returns the domain error wrapped in err, if any.
func As(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsSheetError reports whether err is, or wraps, a domain error.
func IsSheetError(err error) bool {
	_, ok := As(err)
	return ok
}

// Messages shared by the graph and the grid evaluator.
const (
	MsgCyclicDependency = "cyclic dependency"
	MsgReferencedError  = "error in referenced cells"
)
