package apperrors

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/agbru/nbase/pkg/nbase"
)

type MockColorProvider struct{}

func (m MockColorProvider) Warn(s string) string { return "[YELLOW]" + s + "[RESET]" }
func (m MockColorProvider) Fail(s string) string { return "[RED]" + s + "[RESET]" }

func TestHandleEvalError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		err          error
		duration     time.Duration
		colors       ColorProvider
		expectedCode int
		expectedMsg  string
	}{
		{
			name:         "No Error",
			err:          nil,
			expectedCode: ExitSuccess,
			expectedMsg:  "",
		},
		{
			name:         "Timeout Error",
			err:          context.DeadlineExceeded,
			duration:     1 * time.Second,
			colors:       MockColorProvider{},
			expectedCode: ExitErrorTimeout,
			expectedMsg:  "Status: Failure (Timeout). The execution limit was reached after [YELLOW]1s[RESET].",
		},
		{
			name:         "Canceled Error",
			err:          context.Canceled,
			duration:     500 * time.Millisecond,
			colors:       MockColorProvider{},
			expectedCode: ExitErrorCanceled,
			expectedMsg:  "[YELLOW]Status: Canceled after [YELLOW]500ms[RESET].[RESET]",
		},
		{
			name:         "Arithmetic Error",
			err:          NewEvalError("div", nbase.ErrDivisionByZero),
			colors:       MockColorProvider{},
			expectedCode: ExitErrorArithmetic,
			expectedMsg:  "[RED]Status: Arithmetic error.[RESET] div: division by zero",
		},
		{
			name:         "Input Error",
			err:          NewValidationError("op", "unknown operation", "foo"),
			expectedCode: ExitErrorInput,
			expectedMsg:  "Status: Invalid input. validation error for 'op': unknown operation",
		},
		{
			name:         "Generic Error",
			err:          fmt.Errorf("random error"),
			expectedCode: ExitErrorGeneric,
			expectedMsg:  "Status: Failure. An unexpected error occurred: random error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := HandleEvalError(tt.err, tt.duration, &buf, tt.colors)
			if code != tt.expectedCode {
				t.Errorf("exit code = %d, want %d", code, tt.expectedCode)
			}
			if got := strings.TrimSpace(buf.String()); got != tt.expectedMsg {
				t.Errorf("message = %q, want %q", got, tt.expectedMsg)
			}
		})
	}
}
