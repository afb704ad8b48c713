// Package calibration measures where Karatsuba multiplication overtakes the
// schoolbook method on the current machine and persists the result.
// This file generates the candidate thresholds.
package calibration

import (
	"slices"
	"strconv"

	"github.com/agbru/nbase/internal/digits"
)

const (
	// MinThreshold is the smallest cutoff worth testing.
	MinThreshold = 8
	// MaxThreshold bounds calibrated cutoffs. Above it Karatsuba would almost
	// never run.
	MaxThreshold = 4096
)

// GenerateThresholds returns the cutoffs tested by a full calibration, in
// digits. Cutoffs above half the operand length are dropped since they
// would never trigger a split.
func GenerateThresholds(operandDigits int) []int {
	return keepUseful([]int{8, 12, 16, 24, 32, 48, 64, 96, 128, 192, 256, 384, 512}, operandDigits)
}

// GenerateQuickThresholds returns a smaller candidate set for auto
// calibration at startup.
func GenerateQuickThresholds(operandDigits int) []int {
	return keepUseful([]int{16, 32, 48, 64, 128}, operandDigits)
}

func keepUseful(candidates []int, operandDigits int) []int {
	out := make([]int, 0, len(candidates))
	for _, c := range candidates {
		if 2*c <= operandDigits {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		out = append(out, MinThreshold)
	}
	return out
}

// EstimateThreshold returns the cutoff used when nothing was measured. 32-bit
// platforms get half the default.
func EstimateThreshold() int {
	if strconv.IntSize == 32 {
		return digits.DefaultKaratsubaThreshold / 2
	}
	return digits.DefaultKaratsubaThreshold
}

// ValidateThreshold clamps t to [MinThreshold, MaxThreshold]. Zero or
// negative values select EstimateThreshold.
func ValidateThreshold(t int) int {
	if t <= 0 {
		return EstimateThreshold()
	}
	return min(max(t, MinThreshold), MaxThreshold)
}

// Apply installs t as the process-wide Karatsuba cutoff after validation
// and returns the installed value.
func Apply(t int) int {
	t = ValidateThreshold(t)
	digits.SetKaratsubaThreshold(t)
	return t
}

// sortedUnique returns ts sorted without duplicates.
func sortedUnique(ts []int) []int {
	out := slices.Clone(ts)
	slices.Sort(out)
	return slices.Compact(out)
}
