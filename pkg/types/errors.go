package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an evaluation failed.
type ErrorKind string

// Error kinds, one per stage of evaluation.
const (
	KindLex        ErrorKind = "LexError"
	KindSyntax     ErrorKind = "SyntaxError"
	KindArithmetic ErrorKind = "ArithmeticError"
	KindDomain     ErrorKind = "DomainError"
)

// EvalError is returned by every failing stage of expression evaluation.
type EvalError struct {
	Kind    ErrorKind
	Message string
	Pos     int // byte offset in the normalized input, -1 when unknown
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s at position %d", e.Kind, e.Message, e.Pos)
}

// Is reports whether target is an EvalError of the same kind, so the
// sentinels below can be used with errors.Is.
func (e *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrLex        = &EvalError{Kind: KindLex, Message: "lex error", Pos: -1}
	ErrSyntax     = &EvalError{Kind: KindSyntax, Message: "syntax error", Pos: -1}
	ErrArithmetic = &EvalError{Kind: KindArithmetic, Message: "arithmetic error", Pos: -1}
	ErrDomain     = &EvalError{Kind: KindDomain, Message: "domain error", Pos: -1}
)

// KindOf returns the kind of err, or "" when err is not an EvalError.
func KindOf(err error) ErrorKind {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}

// NewLexError creates a LexError.
func NewLexError(pos int, format string, args ...any) *EvalError {
	return &EvalError{Kind: KindLex, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// NewSyntaxError creates a SyntaxError.
func NewSyntaxError(pos int, msg string) *EvalError {
	return &EvalError{Kind: KindSyntax, Message: msg, Pos: pos}
}

// NewArithmeticError creates an ArithmeticError.
func NewArithmeticError(pos int, msg string) *EvalError {
	return &EvalError{Kind: KindArithmetic, Message: msg, Pos: pos}
}

// NewDomainError creates a DomainError.
func NewDomainError(pos int, format string, args ...any) *EvalError {
	return &EvalError{Kind: KindDomain, Message: fmt.Sprintf(format, args...), Pos: pos}
}
