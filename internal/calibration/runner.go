package calibration

import (
	"context"
	"time"

	"github.com/agbru/nbase/internal/digits"
)

const (
	// CalibrationBase is the digit base operands are built in. Decimal is the
	// default representation of the command line tool.
	CalibrationBase = 10
	// CalibrationDigits is the operand length of a full calibration trial.
	CalibrationDigits = 2048
)

// calibrationRunner encapsulates the trial run logic for calibration.
type calibrationRunner struct {
	ctx      context.Context
	perTrial time.Duration
	rounds   int
	x, y     digits.Vector
	base     uint32
}

// newCalibrationRunner creates a runner multiplying two operands of n
// digits. Each trial is bounded by a share of timeout.
func newCalibrationRunner(ctx context.Context, timeout time.Duration, n int) *calibrationRunner {
	perTrial := timeout / 6
	if perTrial < 2*time.Second {
		perTrial = 2 * time.Second
	}
	return &calibrationRunner{
		ctx:      ctx,
		perTrial: perTrial,
		rounds:   3,
		x:        testOperand(n, CalibrationBase, 1),
		y:        testOperand(n, CalibrationBase, 2),
		base:     CalibrationBase,
	}
}

// runTrial multiplies the operands with the given cutoff and returns the
// fastest of several rounds. A zero cutoff times the schoolbook method.
//
// Returns:
//   - time.Duration: The best duration observed.
//   - error: The context error if the trial was interrupted.
func (r *calibrationRunner) runTrial(cutoff int) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.perTrial)
	defer cancel()

	best := time.Duration(1<<63 - 1)
	for range r.rounds {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		start := time.Now()
		if cutoff == 0 {
			_ = digits.MulSchoolbook(r.x, r.y, r.base)
		} else {
			_ = digits.MulWithCutoff(r.x, r.y, r.base, cutoff)
		}
		best = min(best, time.Since(start))
	}
	return best, nil
}

// findBestThreshold returns the fastest candidate, or def with the maximal
// duration if every trial failed.
func (r *calibrationRunner) findBestThreshold(candidates []int, def int) (threshold int, duration time.Duration) {
	best := def
	bestDur := time.Duration(1<<63 - 1)
	for _, cand := range candidates {
		dur, err := r.runTrial(cand)
		if err != nil {
			continue
		}
		if dur < bestDur {
			bestDur, best = dur, cand
		}
	}
	return best, bestDur
}

// testOperand builds a deterministic n digit vector in base whose top digit
// is non-zero.
func testOperand(n int, base uint32, seed uint32) digits.Vector {
	n = max(n, 1)
	v := make(digits.Vector, n)
	x := seed*0x9E3779B9 + 1
	for i := range v {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		v[i] = x % base
	}
	if v[n-1] == 0 {
		v[n-1] = 1
	}
	return v
}
