package apperrors

import (
	"fmt"
	"io"
	"time"
)

// ColorProvider paints status text for the terminal. This abstraction keeps
// the package free of any dependency on the presentation layer.
type ColorProvider interface {
	// Warn paints s as a warning.
	Warn(s string) string
	// Fail paints s as a failure.
	Fail(s string) string
}

// DefaultColorProvider leaves text unpainted (for non-terminal output).
type DefaultColorProvider struct{}

func (d DefaultColorProvider) Warn(s string) string { return s }
func (d DefaultColorProvider) Fail(s string) string { return s }

// HandleEvalError prints a one-line status for a failed evaluation and
// returns the matching exit code. Timeouts, cancellations, input errors and
// arithmetic errors each get their own wording.
//
// Parameters:
//   - err: The error that occurred.
//   - duration: The time spent before the failure (0 to omit it).
//   - out: The io.Writer to which the message is written.
//   - colors: Provider for terminal color codes (can be nil for no colors).
//
// Returns:
//   - int: The appropriate exit code for the error type.
func HandleEvalError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	msgSuffix := ""
	if duration > 0 {
		msgSuffix = " after " + colors.Warn(duration.String())
	}

	code := ExitCodeFor(err)
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", msgSuffix)
	case ExitErrorCanceled:
		fmt.Fprintln(out, colors.Warn("Status: Canceled"+msgSuffix+"."))
	case ExitErrorInput:
		fmt.Fprintf(out, "%s %v\n", colors.Fail("Status: Invalid input."), err)
	case ExitErrorArithmetic:
		fmt.Fprintf(out, "%s %v\n", colors.Fail("Status: Arithmetic error."), err)
	case ExitErrorConfig:
		fmt.Fprintf(out, "Status: Configuration error. %v\n", err)
	default:
		fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	}
	return code
}
