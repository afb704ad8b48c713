package service

import (
	"errors"
	"time"

	"github.com/agbru/nbase/pkg/models"
	"github.com/agbru/nbase/pkg/nbase"
)

// ToResponse renders res as an API document. Values are written with their
// own charset, or as comma separated digit values when they are raw.
//
// Parameters:
//   - res: The evaluation result.
//   - duration: The time the evaluation took.
//
// Returns:
//   - models.EvalResponse: The rendered result.
func ToResponse(res Result, duration time.Duration) models.EvalResponse {
	out := models.EvalResponse{
		Op:         res.Op,
		Compare:    res.Ordering,
		DurationMS: float64(duration.Microseconds()) / 1000,
	}
	if res.Value != nil {
		out.Base = res.Value.Base()
		out.Result = Render(res.Value)
		out.Digits = len(res.Value.Digits())
		out.Raw = res.Value.Charset() == nil
	}
	if res.Remainder != nil {
		out.Remainder = Render(res.Remainder)
	}
	return out
}

// Render writes x with its own charset, or in comma form when x is raw.
func Render(x *nbase.Integer) string {
	if x.Charset() == nil {
		return x.RawText()
	}
	return x.OwnText()
}

// ErrorKind returns a stable machine readable class for err.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrUnknownOp):
		return "unknown_op"
	case errors.Is(err, ErrArity):
		return "arity"
	case errors.Is(err, ErrInputTooLarge):
		return "input_too_large"
	case errors.Is(err, ErrExponentTooLarge):
		return "exponent_too_large"
	case errors.Is(err, nbase.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, nbase.ErrInvalidBase):
		return "invalid_base"
	case errors.Is(err, nbase.ErrInvalidCharset):
		return "invalid_charset"
	case errors.Is(err, nbase.ErrUnknownSymbol):
		return "unknown_symbol"
	case errors.Is(err, nbase.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, nbase.ErrNegativeExponent):
		return "negative_exponent"
	case errors.Is(err, nbase.ErrMismatchedRepresentation):
		return "mismatched_representation"
	case errors.Is(err, nbase.ErrOverflow):
		return "overflow"
	default:
		return "internal"
	}
}
