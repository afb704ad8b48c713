// Package ui provides theme and color support for the application's user interface.
// Themes are sets of github.com/fatih/color painters; every presentation layer
// (CLI output, REPL, batch summaries, error statuses) paints through the
// current theme so that --no-color and NO_COLOR are honored in one place.
package ui

import (
	"os"
	"sync"

	"github.com/fatih/color"
)

// Theme defines a color scheme for UI output.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Primary is the main accent color for important elements.
	Primary *color.Color
	// Secondary is used for less prominent elements such as metadata.
	Secondary *color.Color
	// Success indicates results and completed operations.
	Success *color.Color
	// Warning is used for hints and non-critical issues.
	Warning *color.Color
	// Error indicates failures.
	Error *color.Color
	// Info highlights operation names and variables.
	Info *color.Color
	// Bold is used for headings.
	Bold *color.Color
	// Underline is used for table headers.
	Underline *color.Color
}

func plain() *color.Color {
	c := color.New()
	c.DisableColor()
	return c
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   color.New(color.FgHiBlue),
		Secondary: color.New(color.FgHiBlack),
		Success:   color.New(color.FgHiGreen),
		Warning:   color.New(color.FgHiYellow),
		Error:     color.New(color.FgHiRed),
		Info:      color.New(color.FgHiMagenta),
		Bold:      color.New(color.Bold),
		Underline: color.New(color.Underline),
	}

	// LightTheme is optimized for light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   color.New(color.FgBlue),
		Secondary: color.New(color.FgBlack),
		Success:   color.New(color.FgGreen),
		Warning:   color.New(color.FgYellow),
		Error:     color.New(color.FgRed),
		Info:      color.New(color.FgMagenta),
		Bold:      color.New(color.Bold),
		Underline: color.New(color.Underline),
	}

	// NoColorTheme never emits escape codes, whatever the terminal.
	NoColorTheme = Theme{
		Name:      "none",
		Primary:   plain(),
		Secondary: plain(),
		Success:   plain(),
		Warning:   plain(),
		Error:     plain(),
		Info:      plain(),
		Bold:      plain(),
		Underline: plain(),
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
// This is primarily used for testing purposes to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme changes the active theme by name.
// Valid names are: "dark", "light", "none".
// Unknown names default to dark theme.
//
// Parameters:
//   - name: The name of the theme to activate.
func SetTheme(name string) {
	switch name {
	case "light":
		SetCurrentTheme(LightTheme)
	case "none":
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// InitTheme initializes the theme based on the noColor flag and environment.
// It respects the NO_COLOR environment variable (https://no-color.org/). The
// color library additionally disables colors when stdout is not a terminal.
//
// Parameters:
//   - noColor: If true, disables all color output regardless of environment.
func InitTheme(noColor bool) {
	if _, exists := os.LookupEnv("NO_COLOR"); noColor || exists {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}
