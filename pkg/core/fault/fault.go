// Package fault defines the failures an nscript run can end with.
//
// Every failure is a *Error whose Kind is one of the sentinel errors below, so
// callers match them with errors.Is:
//
//	if errors.Is(err, fault.ErrDivisionByZero) { ... }
package fault

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingOperand = errors.New("missing operand")
	ErrParseLiteral   = errors.New("invalid literal")
	ErrUndefinedName  = errors.New("undefined name")
	ErrArityMismatch  = errors.New("arity mismatch")
	ErrDivisionByZero = errors.New("division by zero")
	ErrInvalidOperand = errors.New("invalid operand")
	ErrIO             = errors.New("output failure")
	ErrGasExhausted   = errors.New("gas exhausted")
	ErrStackOverflow  = errors.New("call stack overflow")
)

// Error carries the kind of a failure together with the token that caused it.
type Error struct {
	Kind   error
	Token  string
	Line   uint32
	Detail string
	Err    error // underlying cause, set for ErrIO
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	} else if e.Token != "" {
		msg += fmt.Sprintf(": %q", e.Token)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

// Is matches the sentinel kind.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an error of the given kind at tok.
func New(kind error, tok string, line uint32, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Token:  tok,
		Line:   line,
		Detail: fmt.Sprintf(format, args...),
	}
}

// IO wraps a sink failure without reinterpreting it.
func IO(err error) *Error {
	return &Error{Kind: ErrIO, Err: err}
}

// IsIncomplete reports whether err means the source ended in the middle of a
// statement or block, i.e. more input could still make it valid.
func IsIncomplete(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == ErrMissingOperand && fe.Token == ""
}
