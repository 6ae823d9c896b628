// Package lcaderr implements the structured error taxonomy OpenSDraw
// raises out of parsing and evaluation. The shape is carried over from
// sentra/internal/errors (SentraError / StackFrame / WithStack), field
// for field, against the error kinds spec.md section 7 names.
package lcaderr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind enumerates the structured error kinds spec.md section 7 names.
type Kind string

const (
	SyntaxError              Kind = "SyntaxError"
	SymbolNotDefined         Kind = "SymbolNotDefined"
	SymbolAlreadyExists      Kind = "SymbolAlreadyExists"
	CannotOverrideBuiltin    Kind = "CannotOverrideBuiltin"
	NotAFunction             Kind = "NotAFunction"
	WrongType                Kind = "WrongType"
	WrongNumberOfArguments   Kind = "WrongNumberOfArguments"
	UnknownKeyword           Kind = "UnknownKeyword"
	KeywordValueMissing      Kind = "KeywordValueMissing"
	IndexOutOfRange          Kind = "IndexOutOfRange"
	GroupExists              Kind = "GroupExists"
	ControlPoint             Kind = "ControlPoint"
	Tangent                  Kind = "Tangent"
	NumberControlPoints      Kind = "NumberControlPoints"
	FileNotFound             Kind = "FileNotFound"
	IOError                  Kind = "IOError"

	// ForeignFunctionError wraps a returned error from a
	// host-registered native function (spec.md section 4.8: "errors
	// raised by the handler are wrapped ... with the current call-site
	// line"). It is additive to spec.md section 7's enumerated kinds,
	// needed because a host handler's own error has no kind from that
	// closed set to begin with.
	ForeignFunctionError Kind = "ForeignFunctionError"
)

// Location pinpoints a position in a source file.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("line %d", l.Line)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Frame records one link of the call-site chain an error accumulates
// as it bubbles out of nested evaluation.
type Frame struct {
	Function string
	Location Location
}

// Error is a structured error carrying a Kind, a message, the source
// location it originated at, and the chain of call sites it passed
// through on the way out of Eval.
type Error struct {
	Kind     Kind
	Message  string
	Location Location
	Chain    []Frame
	cause    error
}

// New creates a fresh Error of the given kind at the given location.
func New(kind Kind, location Location, format string, args ...interface{}) *Error {
	return &Error{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Location: location,
	}
}

// Wrap attaches lcaderr semantics to an arbitrary error from a
// collaborator (e.g. os.Open failing inside import resolution),
// preserving it as the Cause via github.com/pkg/errors.
func Wrap(err error, kind Kind, location Location, message string) *Error {
	return &Error{
		Kind:     kind,
		Message:  message,
		Location: location,
		cause:    errors.Wrap(err, message),
	}
}

// Cause returns the root error pkg/errors unwrapped, or e itself.
func (e *Error) Cause() error {
	if e.cause != nil {
		return errors.Cause(e.cause)
	}
	return e
}

// Unwrap supports errors.Is/As against the wrapped cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// AddFrame appends one call-site frame to the chain, innermost first.
func (e *Error) AddFrame(function string, location Location) *Error {
	e.Chain = append(e.Chain, Frame{Function: function, Location: location})
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n  at %s\n", e.Kind, e.Message, e.Location)
	for _, f := range e.Chain {
		if f.Function != "" {
			fmt.Fprintf(&sb, "  called from %s (%s)\n", f.Function, f.Location)
		} else {
			fmt.Fprintf(&sb, "  called from %s\n", f.Location)
		}
	}
	return sb.String()
}

// WrongTypeError is a convenience constructor for the most common
// validation failure: an argument predicate rejected a value.
func WrongTypeError(location Location, expected, actual string) *Error {
	return New(WrongType, location, "expected %s, got %s", expected, actual)
}

// ArityError is a convenience constructor for arity mismatches.
func ArityError(location Location, fn string, expected string, actual int) *Error {
	return New(WrongNumberOfArguments, location, "%s expects %s argument(s), got %d", fn, expected, actual)
}
