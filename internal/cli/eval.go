package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/nbase/internal/errors"
	"github.com/agbru/nbase/internal/service"
	"github.com/agbru/nbase/internal/ui"
	"github.com/agbru/nbase/pkg/models"
)

// spinnerDelay is how long an evaluation runs before a spinner appears.
const spinnerDelay = 300 * time.Millisecond

// EvalOptions configures RunEval.
type EvalOptions struct {
	OutputConfig
	// Timeout bounds the evaluation (0 for no limit).
	Timeout time.Duration
	// Spinner draws a spinner on Err while the evaluation runs.
	Spinner bool
}

// RunEval evaluates req, prints the result on out and returns the process
// exit code. Failures are reported on errOut, or on out as a
// models.ErrorResponse in JSON mode.
//
// Parameters:
//   - ctx: The context for cancellation.
//   - svc: The evaluation service.
//   - req: The request to evaluate.
//   - opts: Output and timeout options.
//   - out: The writer for results.
//   - errOut: The writer for statuses and the spinner.
//
// Returns:
//   - int: An exit code from the apperrors package.
func RunEval(ctx context.Context, svc service.Service, req service.Request, opts EvalOptions, out, errOut io.Writer) int {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var stop func()
	if opts.Spinner {
		stop = StartSpinner(errOut, spinnerDelay, fmt.Sprintf("Evaluating %s...", req.Op))
	}
	start := time.Now()
	res, err := svc.Evaluate(ctx, req)
	duration := time.Since(start)
	if stop != nil {
		stop()
	}

	if err != nil {
		if opts.JSON {
			_ = DisplayJSON(out, models.ErrorResponse{Error: err.Error(), Kind: service.ErrorKind(err)})
			return apperrors.ExitCodeFor(err)
		}
		return apperrors.HandleEvalError(err, duration, errOut, ui.StatusColors{})
	}
	if err := DisplayResult(out, res, duration, opts.OutputConfig); err != nil {
		fmt.Fprintf(errOut, "Error writing result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
