package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"
)

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		length   int
		want     string
	}{
		{0.0, 10, "░░░░░░░░░░"},
		{0.5, 10, "█████░░░░░"},
		{1.0, 10, "██████████"},
		{1.2, 10, "██████████"},
		{-0.1, 10, "░░░░░░░░░░"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.progress, tt.length); got != tt.want {
			t.Errorf("progressBar(%f, %d) = %s; want %s", tt.progress, tt.length, got, tt.want)
		}
	}
}

func TestProgressState(t *testing.T) {
	t.Parallel()
	ps := NewProgressState(4)
	ps.Update(0, 1)
	ps.Update(1, 1)
	ps.Update(7, 1) // ignored
	if got := ps.CalculateAverage(); got != 0.5 {
		t.Errorf("CalculateAverage() = %f, want 0.5", got)
	}
	if got := NewProgressState(0).CalculateAverage(); got != 0 {
		t.Errorf("CalculateAverage() on empty state = %f, want 0", got)
	}
}

func TestUpdateWithETA(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(2)

	progress, eta := p.UpdateWithETA(0, 0.25)
	if progress != 0.125 {
		t.Errorf("progress = %f, want 0.125", progress)
	}
	if eta != 0 {
		t.Errorf("ETA right after start = %v, want 0", eta)
	}
	if got := p.GetETA(); got != 0 {
		t.Errorf("GetETA() without a rate = %v, want 0", got)
	}

	p.progressRate = 0.5
	if got := p.GetETA(); got != 1750*time.Millisecond {
		t.Errorf("GetETA() = %v, want 1.75s", got)
	}
	p.progressRate = 1e-9
	if got := p.GetETA(); got != maxETA {
		t.Errorf("GetETA() = %v, want cap %v", got, maxETA)
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		eta  time.Duration
		want string
	}{
		{0, "calculating..."},
		{500 * time.Millisecond, "< 1s"},
		{42 * time.Second, "42s"},
		{2*time.Minute + 30*time.Second, "2m30s"},
		{5 * time.Minute, "5m"},
		{time.Hour + 15*time.Minute, "1h15m"},
		{3 * time.Hour, "3h"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.eta); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.eta, got, tt.want)
		}
	}
}

// The tests below replace newSpinner and must not run in parallel.

func withMockSpinner(t *testing.T) *MockSpinner {
	t.Helper()
	mock := &MockSpinner{}
	prev := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return mock }
	t.Cleanup(func() { newSpinner = prev })
	return mock
}

func TestDisplayProgress(t *testing.T) {
	mock := withMockSpinner(t)
	var buf bytes.Buffer
	ch := make(chan ProgressUpdate, 4)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, ch, 2, &buf)

	ch <- ProgressUpdate{Index: 0, Value: 1}
	ch <- ProgressUpdate{Index: 1, Value: 1}
	close(ch)
	wg.Wait()

	started, stopped := mock.state()
	if !started || !stopped {
		t.Errorf("spinner started=%v stopped=%v, want both", started, stopped)
	}
	if got := plain(&buf); !strings.Contains(got, "100.00%") {
		t.Errorf("final line = %q, want 100.00%%", got)
	}
}

func TestDisplayProgressNoUnits(t *testing.T) {
	mock := withMockSpinner(t)
	ch := make(chan ProgressUpdate, 1)
	ch <- ProgressUpdate{}
	close(ch)
	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, ch, 0, &bytes.Buffer{})
	if started, _ := mock.state(); started {
		t.Error("spinner started for zero units")
	}
}

func TestStartSpinner(t *testing.T) {
	mock := withMockSpinner(t)
	stop := StartSpinner(&bytes.Buffer{}, 0, "working")
	deadline := time.Now().Add(2 * time.Second)
	for started, _ := mock.state(); !started && time.Now().Before(deadline); started, _ = mock.state() {
		time.Sleep(time.Millisecond)
	}
	stop()
	stop()
	if started, stopped := mock.state(); !started || !stopped {
		t.Errorf("spinner started=%v stopped=%v, want both", started, stopped)
	}
}

func TestStartSpinnerFastWork(t *testing.T) {
	mock := withMockSpinner(t)
	stop := StartSpinner(&bytes.Buffer{}, time.Hour, "working")
	stop()
	if started, _ := mock.state(); started {
		t.Error("spinner drawn for work that finished before the delay")
	}
}
