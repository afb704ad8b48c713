package calibration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/nbase/internal/cli"
	"github.com/agbru/nbase/internal/config"
	apperrors "github.com/agbru/nbase/internal/errors"
	"github.com/agbru/nbase/internal/ui"
)

// Options configures the calibration process.
type Options struct {
	// ProfilePath is the path to save/load the calibration profile.
	// If empty, uses the default path.
	ProfilePath string
	// SaveProfile indicates whether to save the calibration results.
	SaveProfile bool
	// LoadProfile indicates whether to try loading an existing profile.
	LoadProfile bool
	// Timeout bounds the whole run. Zero means config.DefaultTimeout.
	Timeout time.Duration
	// Digits is the operand length. Zero means CalibrationDigits.
	Digits int
}

// calibrationResult holds the result of a single threshold test.
type calibrationResult struct {
	Threshold int
	Duration  time.Duration
	Err       error
}

// RunCalibration times every candidate cutoff, from plain schoolbook up, on
// two operands of opts.Digits decimal digits, prints a summary table and
// the recommended --karatsuba-threshold, and saves the profile if asked.
//
// Returns:
//   - int: The exit code (0 for success, non-zero for errors).
func RunCalibration(ctx context.Context, out io.Writer, opts Options) int {
	fmt.Fprintf(out, "--- Calibration Mode: Finding the Optimal Karatsuba Threshold ---\n")

	if opts.LoadProfile {
		if profile, loaded := LoadOrCreateProfile(opts.ProfilePath); loaded {
			fmt.Fprintf(out, "%s\n", ui.Success("Loaded existing calibration profile from ", resolvePath(opts.ProfilePath)))
			fmt.Fprintf(out, "Profile: %s\n", profile.String())
			fmt.Fprintf(out, "\n%s %s\n", ui.Success("Using cached calibration:"),
				ui.Warning(fmt.Sprintf("--karatsuba-threshold %d", profile.KaratsubaThreshold)))
			return apperrors.ExitSuccess
		}
	}

	n := opts.Digits
	if n <= 0 {
		n = CalibrationDigits
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	runner := newCalibrationRunner(ctx, timeout, n)
	candidates := append([]int{0}, GenerateThresholds(n)...)
	fmt.Fprintf(out, "%s\n", ui.Info(fmt.Sprintf("Testing %d cutoffs on %d-digit operands", len(candidates), n)))

	results := make([]calibrationResult, 0, len(candidates))
	bestDuration := time.Duration(1<<63 - 1)
	bestThreshold := 0
	calibrationStart := time.Now()

	var wg sync.WaitGroup
	progressChan := make(chan cli.ProgressUpdate, len(candidates))
	wg.Add(1)
	go cli.DisplayProgress(&wg, progressChan, 1, out)
	finish := func() {
		close(progressChan)
		wg.Wait()
	}

	for i, threshold := range candidates {
		duration, err := runner.runTrial(threshold)
		if err != nil {
			if ctx.Err() != nil {
				finish()
				fmt.Fprintf(out, "\n%s\n", ui.Warning("Calibration interrupted."))
				return apperrors.HandleEvalError(ctx.Err(), time.Since(calibrationStart), out, ui.StatusColors{})
			}
			results = append(results, calibrationResult{threshold, 0, err})
			continue
		}
		progressChan <- cli.ProgressUpdate{Index: 0, Value: float64(i+1) / float64(len(candidates))}
		results = append(results, calibrationResult{threshold, duration, nil})
		if duration < bestDuration {
			bestDuration, bestThreshold = duration, threshold
		}
	}
	finish()

	if bestDuration == time.Duration(1<<63-1) {
		fmt.Fprintf(out, "\n%s\n", ui.Error("Calibration failed: no valid results obtained."))
		return apperrors.ExitErrorGeneric
	}

	printCalibrationResults(out, results, bestThreshold)

	recommended := bestThreshold
	if recommended == 0 {
		recommended = ValidateThreshold(n)
	}
	fmt.Fprintf(out, "\n%s %s\n", ui.Success("Recommendation for this machine:"),
		ui.Warning(fmt.Sprintf("--karatsuba-threshold %d", recommended)))

	if opts.SaveProfile {
		profile := NewProfile()
		profile.KaratsubaThreshold = recommended
		profile.Confidence = fullRunConfidence(candidates, bestThreshold)
		profile.CalibrationDigits = n
		profile.CalibrationTime = time.Since(calibrationStart).String()
		for _, r := range results {
			if r.Err == nil {
				profile.Measurements = append(profile.Measurements, Measurement{Threshold: r.Threshold, DurationNS: r.Duration.Nanoseconds()})
			}
		}
		if err := profile.SaveProfile(opts.ProfilePath); err != nil {
			fmt.Fprintf(out, "%s\n", ui.Warning("Warning: failed to save profile: ", err))
		} else {
			fmt.Fprintf(out, "%s\n", ui.Success("Calibration profile saved to ", resolvePath(opts.ProfilePath)))
		}
	}
	return apperrors.ExitSuccess
}

// fullRunConfidence is lower when the winner sits at either end of the
// candidate list, where the true optimum may lie outside it.
func fullRunConfidence(candidates []int, best int) float64 {
	if len(candidates) > 2 && best != candidates[0] && best != candidates[len(candidates)-1] {
		return 1.0
	}
	return 0.7
}

// AutoCalibrate selects the Karatsuba cutoff for cfg at startup. An explicit
// cfg.KaratsubaThreshold wins. Otherwise a valid cached profile is used,
// then quick micro-benchmarks, and finally a reduced full calibration.
// Fresh measurements are saved to cfg.CalibrationProfile.
//
// Returns:
//   - config.AppConfig: The configuration with KaratsubaThreshold set.
//   - bool: True if a threshold was determined, false otherwise.
func AutoCalibrate(ctx context.Context, cfg config.AppConfig, out io.Writer) (updated config.AppConfig, ok bool) {
	if cfg.KaratsubaThreshold > 0 {
		return cfg, true
	}
	if cached, ok := LoadCachedCalibration(cfg, cfg.CalibrationProfile); ok {
		fmt.Fprintf(out, "%s karatsuba=%s digits\n", ui.Success("Using cached calibration:"),
			ui.Warning(cached.KaratsubaThreshold))
		return cached, true
	}

	quick, err := QuickCalibrate(ctx)
	if err == nil && quick.Confidence >= 0.5 {
		updated = cfg
		updated.KaratsubaThreshold = quick.KaratsubaThreshold
		fmt.Fprintf(out, "%s (%v): karatsuba=%s digits (confidence: %.0f%%)\n",
			ui.Success("Quick calibration"), quick.Duration.Round(time.Millisecond),
			ui.Warning(updated.KaratsubaThreshold), quick.Confidence*100)
		saveCalibrationProfile(updated, quick.Confidence, out)
		return updated, true
	}
	if ctx.Err() != nil {
		return cfg, false
	}

	n := CalibrationDigits / 4
	runner := newCalibrationRunner(ctx, cfg.Timeout, n)
	best, dur := runner.findBestThreshold(GenerateQuickThresholds(n), EstimateThreshold())
	if dur == time.Duration(1<<63-1) {
		return cfg, false
	}
	updated = cfg
	updated.KaratsubaThreshold = best
	saveCalibrationProfile(updated, 0.6, out)
	printCalibrationOutput(updated, out)
	return updated, true
}

// LoadCachedCalibration applies a valid cached profile to cfg. It returns
// false if no profile exists or the stored one does not match this machine.
func LoadCachedCalibration(cfg config.AppConfig, profilePath string) (updated config.AppConfig, ok bool) {
	profile, loaded := LoadOrCreateProfile(profilePath)
	if !loaded {
		return cfg, false
	}
	updated = cfg
	updated.KaratsubaThreshold = profile.KaratsubaThreshold
	return updated, true
}

func saveCalibrationProfile(cfg config.AppConfig, confidence float64, out io.Writer) {
	profile := NewProfile()
	profile.KaratsubaThreshold = cfg.KaratsubaThreshold
	profile.Confidence = confidence
	if err := profile.SaveProfile(cfg.CalibrationProfile); err != nil {
		fmt.Fprintf(out, "%s\n", ui.Warning("Warning: could not save calibration profile: ", err))
	}
}
