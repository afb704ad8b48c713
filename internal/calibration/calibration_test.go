package calibration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/nbase/internal/config"
	apperrors "github.com/agbru/nbase/internal/errors"
	"github.com/agbru/nbase/internal/ui"
)

func TestMain(m *testing.M) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	os.Exit(m.Run())
}

func TestRunCalibrationSavesProfile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	var out bytes.Buffer

	code := RunCalibration(context.Background(), &out, Options{ProfilePath: path, SaveProfile: true, Digits: 64, Timeout: time.Minute})
	if code != apperrors.ExitSuccess {
		t.Fatalf("RunCalibration() = %d, output:\n%s", code, out.String())
	}
	for _, want := range []string{"Calibration Summary", "Schoolbook", "(Optimal)", "Recommendation for this machine:", "--karatsuba-threshold", "profile saved"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if !p.IsValid() || p.CalibrationDigits != 64 {
		t.Errorf("saved profile = %+v", p)
	}
	if len(p.Measurements) != len(GenerateThresholds(64))+1 {
		t.Errorf("saved %d measurements", len(p.Measurements))
	}
}

func TestRunCalibrationUsesCachedProfile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")
	p := NewProfile()
	p.KaratsubaThreshold = 72
	if err := p.SaveProfile(path); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	code := RunCalibration(context.Background(), &out, Options{ProfilePath: path, LoadProfile: true})
	if code != apperrors.ExitSuccess {
		t.Fatalf("RunCalibration() = %d", code)
	}
	if !strings.Contains(out.String(), "--karatsuba-threshold 72") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunCalibrationCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	code := RunCalibration(ctx, &out, Options{Digits: 64})
	if code != apperrors.ExitErrorCanceled {
		t.Errorf("RunCalibration() = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
	if !strings.Contains(out.String(), "Calibration interrupted.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestAutoCalibrate(t *testing.T) {
	t.Parallel()

	t.Run("explicit threshold wins", func(t *testing.T) {
		t.Parallel()
		cfg := config.Default()
		cfg.KaratsubaThreshold = 33
		cfg.CalibrationProfile = filepath.Join(t.TempDir(), "unused.json")
		got, ok := AutoCalibrate(context.Background(), cfg, &bytes.Buffer{})
		if !ok || got.KaratsubaThreshold != 33 {
			t.Errorf("AutoCalibrate() = %d, %v", got.KaratsubaThreshold, ok)
		}
		if ProfileExists(cfg.CalibrationProfile) {
			t.Error("explicit threshold must not write a profile")
		}
	})

	t.Run("cached profile", func(t *testing.T) {
		t.Parallel()
		cfg := config.Default()
		cfg.CalibrationProfile = filepath.Join(t.TempDir(), "profile.json")
		p := NewProfile()
		p.KaratsubaThreshold = 80
		if err := p.SaveProfile(cfg.CalibrationProfile); err != nil {
			t.Fatal(err)
		}
		var out bytes.Buffer
		got, ok := AutoCalibrate(context.Background(), cfg, &out)
		if !ok || got.KaratsubaThreshold != 80 {
			t.Errorf("AutoCalibrate() = %d, %v", got.KaratsubaThreshold, ok)
		}
		if !strings.Contains(out.String(), "Using cached calibration") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("measures and saves", func(t *testing.T) {
		t.Parallel()
		cfg := config.Default()
		cfg.CalibrationProfile = filepath.Join(t.TempDir(), "profile.json")
		got, ok := AutoCalibrate(context.Background(), cfg, &bytes.Buffer{})
		if !ok {
			t.Fatal("AutoCalibrate() failed")
		}
		if got.KaratsubaThreshold < MinThreshold || got.KaratsubaThreshold > MaxThreshold {
			t.Errorf("threshold %d out of range", got.KaratsubaThreshold)
		}
		p, err := LoadProfile(cfg.CalibrationProfile)
		if err != nil || p.KaratsubaThreshold != got.KaratsubaThreshold {
			t.Errorf("saved profile = %+v, %v", p, err)
		}
	})
}

func TestLoadCachedCalibrationMissing(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	got, ok := LoadCachedCalibration(cfg, filepath.Join(t.TempDir(), "missing.json"))
	if ok || got.KaratsubaThreshold != cfg.KaratsubaThreshold {
		t.Errorf("LoadCachedCalibration() = %d, %v", got.KaratsubaThreshold, ok)
	}
}

func TestFullRunConfidence(t *testing.T) {
	t.Parallel()
	c := []int{0, 8, 16, 32}
	if got := fullRunConfidence(c, 16); got != 1.0 {
		t.Errorf("interior winner confidence = %v", got)
	}
	if got := fullRunConfidence(c, 32); got != 0.7 {
		t.Errorf("edge winner confidence = %v", got)
	}
}
