package calibration

import (
	"slices"
	"testing"

	"github.com/agbru/nbase/internal/digits"
)

func TestGenerateThresholds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		digits int
		want   []int
		quick  bool
	}{
		{name: "short operands", digits: 64, want: []int{8, 12, 16, 24, 32}},
		{name: "too short for any split", digits: 4, want: []int{MinThreshold}},
		{name: "quick", digits: 100, want: []int{16, 32, 48}, quick: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gen := GenerateThresholds
			if tt.quick {
				gen = GenerateQuickThresholds
			}
			if got := gen(tt.digits); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	full := GenerateThresholds(CalibrationDigits)
	if !slices.IsSorted(full) {
		t.Errorf("GenerateThresholds(%d) = %v, want sorted", CalibrationDigits, full)
	}
	for _, th := range full {
		if th < MinThreshold || 2*th > CalibrationDigits {
			t.Errorf("threshold %d outside [%d, %d]", th, MinThreshold, CalibrationDigits/2)
		}
	}
}

func TestValidateThreshold(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want int
	}{
		{0, EstimateThreshold()},
		{-5, EstimateThreshold()},
		{1, MinThreshold},
		{64, 64},
		{1 << 20, MaxThreshold},
	}
	for _, tt := range tests {
		if got := ValidateThreshold(tt.in); got != tt.want {
			t.Errorf("ValidateThreshold(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// TestApply changes the process-wide cutoff and therefore does not run in
// parallel.
func TestApply(t *testing.T) {
	old := digits.KaratsubaThreshold()
	defer digits.SetKaratsubaThreshold(old)

	if got := Apply(100); got != 100 || digits.KaratsubaThreshold() != 100 {
		t.Errorf("Apply(100) = %d, threshold = %d", got, digits.KaratsubaThreshold())
	}
	if got := Apply(0); got != EstimateThreshold() {
		t.Errorf("Apply(0) = %d, want %d", got, EstimateThreshold())
	}
}

func TestSortedUnique(t *testing.T) {
	t.Parallel()
	in := []int{32, 8, 32, 16, 8}
	if got := sortedUnique(in); !slices.Equal(got, []int{8, 16, 32}) {
		t.Errorf("sortedUnique() = %v", got)
	}
	if !slices.Equal(in, []int{32, 8, 32, 16, 8}) {
		t.Error("sortedUnique modified its input")
	}
}
