package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/agbru/nbase/pkg/nbase"
)

func TestEvalErrorWrapping(t *testing.T) {
	t.Parallel()

	err := NewEvalError("div", nbase.ErrDivisionByZero)
	if !errors.Is(err, nbase.ErrDivisionByZero) {
		t.Error("EvalError does not unwrap to its cause")
	}
	if err.Error() != "div: division by zero" {
		t.Errorf("Error() = %q", err.Error())
	}
	if NewEvalError("div", nil) != nil {
		t.Error("NewEvalError(nil) should be nil")
	}
	var ee EvalError
	if !errors.As(WrapError(err, "request %d", 7), &ee) || ee.Op != "div" {
		t.Error("errors.As through WrapError failed")
	}
}

func TestErrorTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config", NewConfigError("bad flag %q", "--x"), `bad flag "--x"`},
		{"server with cause", NewServerError("listen", errors.New("in use")), "listen: in use"},
		{"server without cause", NewServerError("listen", nil), "listen"},
		{"validation with field", NewValidationError("base", "must be >= 2", 1), "validation error for 'base': must be >= 2"},
		{"validation without field", NewValidationError("", "empty body", nil), "validation error: empty body"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("%s: Error() = %q, want %q", tt.name, got, tt.want)
		}
	}
	if WrapError(nil, "x") != nil {
		t.Error("WrapError(nil) should be nil")
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	_, parseErr := nbase.Default().Parse("12z", 10, "")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"timeout", fmt.Errorf("eval: %w", context.DeadlineExceeded), ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"config", NewConfigError("bad"), ExitErrorConfig},
		{"validation", NewValidationError("op", "unknown", "foo"), ExitErrorInput},
		{"unknown symbol", parseErr, ExitErrorInput},
		{"division by zero", NewEvalError("div", nbase.ErrDivisionByZero), ExitErrorArithmetic},
		{"overflow", nbase.ErrOverflow, ExitErrorArithmetic},
		{"generic", errors.New("boom"), ExitErrorGeneric},
	}
	for _, tt := range tests {
		if got := ExitCodeFor(tt.err); got != tt.want {
			t.Errorf("%s: ExitCodeFor = %d, want %d", tt.name, got, tt.want)
		}
	}
	if !IsInputError(parseErr) || IsInputError(errors.New("boom")) {
		t.Error("IsInputError misclassified")
	}
	if !IsContextError(context.Canceled) || IsContextError(parseErr) {
		t.Error("IsContextError misclassified")
	}
}
