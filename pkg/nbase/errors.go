package nbase

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package is an *Error whose Kind
// is one of these sentinels, so callers can test with errors.Is.
var (
	// ErrInvalidArgument reports malformed input: an empty string, a bad
	// sign request, a digit out of range, or a nil operand.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidCharset reports an alphabet that breaks the charset rules or
	// is too short for the requested base.
	ErrInvalidCharset = errors.New("invalid charset")
	// ErrInvalidBase reports a base outside [2, MaxBase].
	ErrInvalidBase = errors.New("invalid base")
	// ErrMismatchedRepresentation reports a binary operation over integers
	// with different bases or charsets.
	ErrMismatchedRepresentation = errors.New("mismatched representation")
	// ErrDivisionByZero reports a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNegativeExponent reports a negative exponent passed to Pow.
	ErrNegativeExponent = errors.New("negative exponent")
	// ErrUnknownSymbol reports a symbol that is not a digit of the base.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrOverflow reports a value that does not fit a native integer type.
	ErrOverflow = errors.New("overflow")
)

// Error describes a failed operation.
type Error struct {
	// Op is the operation that failed, such as "parse" or "div".
	Op string
	// Kind is one of the package sentinels.
	Kind error
	// Msg is a human readable explanation.
	Msg string
	// Symbol is the offending symbol, set for ErrUnknownSymbol and charset
	// violations.
	Symbol string
	// Position is the 0-based grapheme index of Symbol in the input, or -1.
	Position int
}

func (e *Error) Error() string {
	if e.Op == "" {
		return "nbase: " + e.Msg
	}
	return "nbase: " + e.Op + ": " + e.Msg
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error { return e.Kind }

func newError(op string, kind error, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Msg: fmt.Sprintf(format, args...), Position: -1}
}

func symbolError(op string, kind error, sym string, pos int, format string, args ...any) *Error {
	e := newError(op, kind, format, args...)
	e.Symbol = sym
	e.Position = pos
	return e
}
