package calibration

// This file implements fast micro-benchmarks for quick threshold estimation.

import (
	"context"
	"time"

	"github.com/agbru/nbase/internal/digits"
)

const (
	// MicroBenchIterations is the number of rounds per size. The fastest
	// round is kept.
	MicroBenchIterations = 3

	// MicroBenchTimeout is the maximum time for the entire micro-benchmark suite.
	MicroBenchTimeout = 150 * time.Millisecond
)

// MicroBenchTestSizes are the operand lengths, in digits, compared between a
// single Karatsuba split and the schoolbook method.
var MicroBenchTestSizes = []int{16, 24, 32, 48, 64, 96, 128, 192}

// MicroBenchmark performs fast tests to estimate the Karatsuba cutoff.
type MicroBenchmark struct {
	// TestSizes are the operand lengths to test (default: MicroBenchTestSizes)
	TestSizes []int
	// Iterations is the number of rounds per test (default: MicroBenchIterations)
	Iterations int
	// Timeout is the maximum duration for the entire benchmark
	Timeout time.Duration
	// Base is the digit base of the operands (default: CalibrationBase)
	Base uint32
}

// ThresholdResults contains the estimated cutoff from micro-benchmarks.
type ThresholdResults struct {
	// KaratsubaThreshold is the estimated cutoff in digits
	KaratsubaThreshold int
	// Confidence is a score from 0-1 indicating result reliability
	Confidence float64
	// Duration is how long the micro-benchmark took
	Duration time.Duration
}

// sizeResult holds the timings of one operand length.
type sizeResult struct {
	size       int
	schoolbook time.Duration
	karatsuba  time.Duration
}

// NewMicroBenchmark creates a new MicroBenchmark with default settings.
func NewMicroBenchmark() *MicroBenchmark {
	return &MicroBenchmark{
		TestSizes:  MicroBenchTestSizes,
		Iterations: MicroBenchIterations,
		Timeout:    MicroBenchTimeout,
		Base:       CalibrationBase,
	}
}

// RunQuick times both multiplication methods at each test size and returns
// the smallest size from which Karatsuba stays ahead. Sizes are measured
// one after the other so that they do not compete for the CPU.
//
// Returns:
//   - ThresholdResults: The estimated cutoff.
//   - error: The context error if the caller canceled it. Running out of the
//     benchmark's own time budget is not an error; it lowers the confidence.
func (mb *MicroBenchmark) RunQuick(ctx context.Context) (ThresholdResults, error) {
	start := time.Now()
	benchCtx, cancel := context.WithTimeout(ctx, mb.Timeout)
	defer cancel()

	sizes := sortedUnique(mb.TestSizes)
	var results []sizeResult
	for _, size := range sizes {
		if benchCtx.Err() != nil {
			break
		}
		results = append(results, mb.runSingleTest(benchCtx, size))
	}
	if err := ctx.Err(); err != nil {
		return ThresholdResults{}, err
	}

	tr := mb.analyzeResults(results, len(sizes))
	tr.Duration = time.Since(start)
	return tr, nil
}

// runSingleTest measures one operand length. A split at exactly size digits
// recurses into schoolbook halves, so the comparison isolates one level.
func (mb *MicroBenchmark) runSingleTest(ctx context.Context, size int) sizeResult {
	x := testOperand(size, mb.Base, 3)
	y := testOperand(size, mb.Base, 4)
	res := sizeResult{size: size, schoolbook: 1<<63 - 1, karatsuba: 1<<63 - 1}

	_ = digits.MulSchoolbook(x, y, mb.Base)
	for range max(mb.Iterations, 1) {
		if ctx.Err() != nil {
			break
		}
		start := time.Now()
		_ = digits.MulSchoolbook(x, y, mb.Base)
		res.schoolbook = min(res.schoolbook, time.Since(start))

		start = time.Now()
		_ = digits.MulWithCutoff(x, y, mb.Base, size)
		res.karatsuba = min(res.karatsuba, time.Since(start))
	}
	return res
}

// analyzeResults picks the first size from which every larger size favors
// Karatsuba. Confidence grows with the share of sizes measured and with a
// clean crossover.
func (mb *MicroBenchmark) analyzeResults(results []sizeResult, planned int) ThresholdResults {
	tr := ThresholdResults{KaratsubaThreshold: EstimateThreshold()}
	if len(results) == 0 || planned == 0 {
		return tr
	}
	tr.Confidence = 0.5 * float64(len(results)) / float64(planned)

	crossover := -1
	for i := len(results) - 1; i >= 0; i-- {
		r := results[i]
		if r.karatsuba >= r.schoolbook {
			break
		}
		crossover = i
	}
	switch {
	case crossover == 0:
		// Karatsuba already wins at the smallest size.
		tr.KaratsubaThreshold = ValidateThreshold(results[0].size)
		tr.Confidence += 0.3
	case crossover > 0:
		tr.KaratsubaThreshold = ValidateThreshold(results[crossover].size)
		tr.Confidence += 0.5
	default:
		// Schoolbook wins up to the largest size measured.
		tr.KaratsubaThreshold = ValidateThreshold(2 * results[len(results)-1].size)
		tr.Confidence += 0.2
	}
	tr.Confidence = min(tr.Confidence, 1.0)
	return tr
}

// QuickCalibrate performs a fast calibration using micro-benchmarks.
func QuickCalibrate(ctx context.Context) (ThresholdResults, error) {
	return NewMicroBenchmark().RunQuick(ctx)
}
