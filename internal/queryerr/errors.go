// Package queryerr defines the failure taxonomy shared by the expression
// translator, the function registry and the query chain.
//
// Every failure is a *Error carrying a Kind. Translation failures are
// returned from Build/Run; chain-construction failures are raised as panics
// at the offending call (see package query). Either way callers match on the
// kind with errors.Is against the sentinel values below, or with IsKind.
package queryerr

import (
	"errors"
	"fmt"
)

// Kind categorizes a failure.
type Kind string

const (
	// KindUnsupportedOperator: binary or unary node kind outside the mapping table.
	KindUnsupportedOperator Kind = "UNSUPPORTED_OPERATOR"

	// KindUnsupportedCast: cast target has no dialect cast function.
	KindUnsupportedCast Kind = "UNSUPPORTED_CAST"

	// KindUnsupportedConstant: constant value the translator cannot render.
	KindUnsupportedConstant Kind = "UNSUPPORTED_CONSTANT"

	// KindUnknownFunction: call symbol absent from the function registry.
	KindUnknownFunction Kind = "UNKNOWN_FUNCTION"

	// KindInvalidArgument: contract violation at a chain operation or call site.
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
)

// Error codes (E201-E209), reported by the CLI.
var codes = map[Kind]string{
	KindUnsupportedOperator: "E201",
	KindUnsupportedCast:     "E202",
	KindUnsupportedConstant: "E203",
	KindUnknownFunction:     "E204",
	KindInvalidArgument:     "E205",
}

// Sentinels for errors.Is. A *Error matches the sentinel of its kind.
var (
	ErrUnsupportedOperator = &Error{Kind: KindUnsupportedOperator}
	ErrUnsupportedCast     = &Error{Kind: KindUnsupportedCast}
	ErrUnsupportedConstant = &Error{Kind: KindUnsupportedConstant}
	ErrUnknownFunction     = &Error{Kind: KindUnknownFunction}
	ErrInvalidArgument     = &Error{Kind: KindInvalidArgument}
)

// ErrNoRunner is returned when a chain is executed on a client without a Runner.
var ErrNoRunner = errors.New("no runner configured")

// Error is a translation or construction failure.
type Error struct {
	// Kind identifies the failure category.
	Kind Kind

	// Construct names the offending operator, type, value or symbol.
	Construct string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Construct != "" && e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Construct)
	case e.Construct != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Construct)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return string(e.Kind)
	}
}

// Is reports whether target is a *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Code returns the short code for the error's kind ("E201" etc).
func (e *Error) Code() string {
	if c, ok := codes[e.Kind]; ok {
		return c
	}
	return "E200"
}

// New creates an Error of the given kind.
func New(kind Kind, construct, format string, args ...any) *Error {
	return &Error{
		Kind:      kind,
		Construct: construct,
		Message:   fmt.Sprintf(format, args...),
	}
}

// UnsupportedOperator reports an operator outside the mapping table.
func UnsupportedOperator(construct string) *Error {
	return &Error{Kind: KindUnsupportedOperator, Construct: construct, Message: "operator not supported"}
}

// UnsupportedCast reports a cast target without a cast function.
func UnsupportedCast(construct string) *Error {
	return &Error{Kind: KindUnsupportedCast, Construct: construct, Message: "cast target not supported"}
}

// UnsupportedConstant reports a constant the translator cannot render.
func UnsupportedConstant(construct string) *Error {
	return &Error{Kind: KindUnsupportedConstant, Construct: construct, Message: "constant not supported"}
}

// UnknownFunction reports a call symbol missing from the registry.
func UnknownFunction(symbol string) *Error {
	return &Error{Kind: KindUnknownFunction, Construct: symbol, Message: "function not registered"}
}

// InvalidArgument reports a violated call contract.
func InvalidArgument(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err (or anything it wraps) is a *Error of kind.
// Uses errors.As to handle wrapped errors.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
