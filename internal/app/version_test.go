package app

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
)

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		args     []string
		expected bool
	}{
		{"Empty args", []string{}, false},
		{"No version flag", []string{"eval", "add", "1", "2"}, false},
		{"Long version flag", []string{"--version"}, true},
		{"Short version flag", []string{"-V"}, true},
		{"Version flag with dash", []string{"-version"}, true},
		{"Version flag after a command", []string{"eval", "--version"}, true},
		{"After the end of flags", []string{"convert", "--to", "2", "--", "--version"}, false},
		{"Similar but not version", []string{"--verbose", "-v"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HasVersionFlag(tc.args); got != tc.expected {
				t.Errorf("HasVersionFlag(%v) = %v, want %v", tc.args, got, tc.expected)
			}
		})
	}
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintVersion(&buf)

	output := buf.String()
	info := GetVersionInfo()
	for _, want := range []string{"nbase " + info.Version, "Commit:", "Built:", "Go version: " + runtime.Version(), "OS/Arch:    " + runtime.GOOS + "/" + runtime.GOARCH} {
		if !strings.Contains(output, want) {
			t.Errorf("PrintVersion output missing %q:\n%s", want, output)
		}
	}
}

func TestGetVersionInfo(t *testing.T) {
	t.Parallel()
	info := GetVersionInfo()

	if info.Version == "" {
		t.Error("GetVersionInfo().Version is empty")
	}
	if info.Commit != Commit || info.BuildDate != BuildDate {
		t.Errorf("GetVersionInfo() = %+v, want commit %s built %s", info, Commit, BuildDate)
	}
	if info.GoVersion != runtime.Version() || info.OS != runtime.GOOS || info.Arch != runtime.GOARCH {
		t.Errorf("GetVersionInfo() runtime = %s %s/%s", info.GoVersion, info.OS, info.Arch)
	}
}
