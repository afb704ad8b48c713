// Package cli renders nbase results for the terminal: evaluation output with
// abbreviation of long values, a spinner and progress bar for long running
// work, charset tables and the interactive REPL.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// ProgressUpdate reports the progress of one unit of work, such as one
// conversion of a batch.
type ProgressUpdate struct {
	// Index identifies the unit.
	Index int
	// Value is its progress from 0.0 to 1.0.
	Value float64
}

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// It defines the essential controls for a spinner: starting, stopping, and
// updating its status message.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// IsTerminal reports whether w is a terminal. Spinners and progress bars are
// only drawn on terminals.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// StartSpinner shows a spinner with label on out once delay has elapsed and
// returns the function that removes it. Work that finishes within delay never
// draws anything.
func StartSpinner(out io.Writer, delay time.Duration, label string) (stop func()) {
	var (
		mu      sync.Mutex
		s       Spinner
		stopped bool
	)
	timer := time.AfterFunc(delay, func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		s = newSpinner(spinner.WithWriter(out))
		s.UpdateSuffix(" " + label)
		s.Start()
	})
	return func() {
		timer.Stop()
		mu.Lock()
		defer mu.Unlock()
		if !stopped && s != nil {
			s.Stop()
		}
		stopped = true
	}
}

// ProgressState aggregates the progress of several units of work.
type ProgressState struct {
	progresses []float64
	units      int
}

// NewProgressState creates a ProgressState tracking units of work.
//
// Parameters:
//   - units: The number of units to track.
//
// Returns:
//   - *ProgressState: A pointer to the new progress state object.
func NewProgressState(units int) *ProgressState {
	return &ProgressState{
		progresses: make([]float64, units),
		units:      units,
	}
}

// Update records a new progress value for the unit index. Out of range
// indices are ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = value
	}
}

// CalculateAverage computes the average progress across all units.
//
// Returns:
//   - float64: The average progress (0.0 to 1.0).
func (ps *ProgressState) CalculateAverage() float64 {
	if ps.units == 0 {
		return 0.0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(ps.units)
}

// progressBar generates a string representing a textual progress bar.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0.0), 1.0)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := range length {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// DisplayProgress draws a spinner and an aggregated progress bar until
// progressChan is closed. It is designed to run in a dedicated goroutine.
//
// Parameters:
//   - wg: A WaitGroup to signal when the display routine is complete.
//   - progressChan: The channel receiving progress updates.
//   - units: The number of units contributing to the progress.
//   - out: The io.Writer to which the progress bar is rendered.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, units int, out io.Writer) {
	defer wg.Done()
	if units <= 0 {
		for range progressChan { // Drain the channel
		}
		return
	}

	state := NewProgressWithETA(units)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	spinnerStopped := false
	defer func() {
		if !spinnerStopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				spinnerStopped = true
				avg := state.CalculateAverage()
				fmt.Fprintf(out, "Progress: %6.2f%% [%s]\n", avg*100, progressBar(avg, ProgressBarWidth))
				return
			}
			state.UpdateWithETA(update.Index, update.Value)
		case <-ticker.C:
			s.UpdateSuffix(" Progress: " + FormatProgressBarWithETA(state.CalculateAverage(), state.GetETA(), ProgressBarWidth))
		}
	}
}
