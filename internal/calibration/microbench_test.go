package calibration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agbru/nbase/internal/digits"
)

func TestAnalyzeResults(t *testing.T) {
	t.Parallel()
	fast, slow := time.Microsecond, 2*time.Microsecond
	mb := NewMicroBenchmark()

	tests := []struct {
		name       string
		results    []sizeResult
		want       int
		confidence float64
	}{
		{
			name:       "clean crossover",
			results:    []sizeResult{{16, fast, slow}, {32, slow, fast}, {64, slow, fast}},
			want:       32,
			confidence: 1.0,
		},
		{
			name:       "karatsuba always faster",
			results:    []sizeResult{{16, slow, fast}, {32, slow, fast}},
			want:       16,
			confidence: 0.8,
		},
		{
			name:       "schoolbook always faster",
			results:    []sizeResult{{16, fast, slow}, {64, fast, slow}},
			want:       128,
			confidence: 0.7,
		},
		{
			name:       "noise below the last win",
			results:    []sizeResult{{16, slow, fast}, {32, fast, slow}, {64, slow, fast}},
			want:       64,
			confidence: 1.0,
		},
		{
			name:       "nothing measured",
			want:       EstimateThreshold(),
			confidence: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := mb.analyzeResults(tt.results, len(tt.results))
			if got.KaratsubaThreshold != tt.want {
				t.Errorf("threshold = %d, want %d", got.KaratsubaThreshold, tt.want)
			}
			if diff := got.Confidence - tt.confidence; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.confidence)
			}
		})
	}

	partial := mb.analyzeResults([]sizeResult{{16, slow, fast}}, 4)
	if partial.Confidence >= 0.8 {
		t.Errorf("partial run confidence = %v, want below 0.8", partial.Confidence)
	}
}

func TestRunQuick(t *testing.T) {
	t.Parallel()
	mb := &MicroBenchmark{TestSizes: []int{16, 8, 16}, Iterations: 1, Timeout: time.Second, Base: 10}
	res, err := mb.RunQuick(context.Background())
	if err != nil {
		t.Fatalf("RunQuick() error = %v", err)
	}
	if res.KaratsubaThreshold < MinThreshold || res.KaratsubaThreshold > MaxThreshold {
		t.Errorf("threshold %d out of range", res.KaratsubaThreshold)
	}
	if res.Confidence <= 0 || res.Duration <= 0 {
		t.Errorf("results = %+v", res)
	}
}

func TestRunQuickCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := QuickCalibrate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("QuickCalibrate() error = %v, want context.Canceled", err)
	}
}

func TestTestOperand(t *testing.T) {
	t.Parallel()
	for _, n := range []int{0, 1, 17, 256} {
		v := testOperand(n, 10, 1)
		if len(v) != max(n, 1) || v[len(v)-1] == 0 {
			t.Errorf("testOperand(%d) has length %d and top digit %d", n, len(v), v[len(v)-1])
		}
		for _, d := range v {
			if d >= 10 {
				t.Fatalf("digit %d out of base", d)
			}
		}
	}
	a, b := testOperand(64, 10, 5), testOperand(64, 10, 5)
	if digits.Compare(a, b) != 0 {
		t.Error("testOperand is not deterministic")
	}
}
