package calibration

// This file implements calibration profile persistence.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Profile stores the result of a calibration run together with the hardware
// it was measured on, so that a cached profile is only reused on the same
// kind of machine.
type Profile struct {
	// Hardware identification
	CPUModel  string `json:"cpu_model"`
	NumCPU    int    `json:"num_cpu"`
	GOARCH    string `json:"goarch"`
	GOOS      string `json:"goos"`
	GoVersion string `json:"go_version"`
	WordSize  int    `json:"word_size"`

	// KaratsubaThreshold is the calibrated cutoff in digits.
	KaratsubaThreshold int `json:"karatsuba_threshold"`
	// Confidence is the reliability of the threshold (0-1).
	Confidence float64 `json:"confidence"`
	// Measurements are the timings behind the threshold, if kept.
	Measurements []Measurement `json:"measurements,omitempty"`

	// Calibration metadata
	CalibratedAt      time.Time `json:"calibrated_at"`
	CalibrationBase   int       `json:"calibration_base"`
	CalibrationDigits int       `json:"calibration_digits"`
	CalibrationTime   string    `json:"calibration_time"`

	ProfileVersion int `json:"profile_version"`
}

// Measurement is the timing of one candidate cutoff.
type Measurement struct {
	Threshold  int   `json:"threshold"`
	DurationNS int64 `json:"duration_ns"`
}

const (
	// CurrentProfileVersion is the current version of the profile format.
	// Increment this when making breaking changes to the profile structure.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the default name for the calibration profile file.
	DefaultProfileFileName = ".nbase_calibration.json"
)

// GetDefaultProfilePath returns the default path for the calibration profile.
// It uses the user's home directory if available, otherwise the current directory.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

func resolvePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}

// NewProfile creates a new Profile with current hardware info.
func NewProfile() *Profile {
	return &Profile{
		CPUModel:          getCPUModel(),
		NumCPU:            runtime.NumCPU(),
		GOARCH:            runtime.GOARCH,
		GOOS:              runtime.GOOS,
		GoVersion:         runtime.Version(),
		WordSize:          32 << (^uint(0) >> 63),
		CalibratedAt:      time.Now(),
		CalibrationBase:   CalibrationBase,
		CalibrationDigits: CalibrationDigits,
		ProfileVersion:    CurrentProfileVersion,
	}
}

func getCPUModel() string {
	return fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU())
}

// LoadProfile loads a calibration profile from path, or from the default
// path when path is empty.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(resolvePath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile saves the calibration profile to path, or to the default path
// when path is empty.
func (p *Profile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(resolvePath(path), data, 0o600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// IsValid reports whether the profile was written by this profile version
// on hardware matching the current machine, and holds a usable threshold.
func (p *Profile) IsValid() bool {
	if p == nil {
		return false
	}
	if p.ProfileVersion != CurrentProfileVersion {
		return false
	}
	if p.NumCPU != runtime.NumCPU() || p.GOARCH != runtime.GOARCH {
		return false
	}
	if p.WordSize != 32<<(^uint(0)>>63) {
		return false
	}
	return p.KaratsubaThreshold >= MinThreshold && p.KaratsubaThreshold <= MaxThreshold
}

// IsStale checks if the profile is older than the given duration.
func (p *Profile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String returns a human-readable summary of the profile.
func (p *Profile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	return fmt.Sprintf("Profile{CPU: %s, Karatsuba: %d digits, Confidence: %.0f%%, Calibrated: %s}",
		p.CPUModel, p.KaratsubaThreshold, p.Confidence*100, p.CalibratedAt.Format(time.RFC3339))
}

// LoadOrCreateProfile loads an existing profile, or returns a new one if none
// is found or the stored one does not match this machine. The boolean
// reports whether the profile was loaded.
func LoadOrCreateProfile(path string) (*Profile, bool) {
	profile, err := LoadProfile(path)
	if err != nil || !profile.IsValid() {
		return NewProfile(), false
	}
	return profile, true
}

// ProfileExists checks if a calibration profile exists at the given path.
func ProfileExists(path string) bool {
	_, err := os.Stat(resolvePath(path))
	return err == nil
}
