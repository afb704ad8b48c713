package ui

import (
	"fmt"
	"time"
)

// Painters render their arguments with the matching color of the current
// theme, as fmt.Sprint does.

// Primary paints with the primary color.
func Primary(a ...any) string { return GetCurrentTheme().Primary.Sprint(a...) }

// Secondary paints with the secondary color.
func Secondary(a ...any) string { return GetCurrentTheme().Secondary.Sprint(a...) }

// Success paints with the success color.
func Success(a ...any) string { return GetCurrentTheme().Success.Sprint(a...) }

// Warning paints with the warning color.
func Warning(a ...any) string { return GetCurrentTheme().Warning.Sprint(a...) }

// Error paints with the error color.
func Error(a ...any) string { return GetCurrentTheme().Error.Sprint(a...) }

// Info paints with the info color.
func Info(a ...any) string { return GetCurrentTheme().Info.Sprint(a...) }

// Bold paints in bold.
func Bold(a ...any) string { return GetCurrentTheme().Bold.Sprint(a...) }

// Underline paints underlined.
func Underline(a ...any) string { return GetCurrentTheme().Underline.Sprint(a...) }

// StatusColors paints error statuses with the current theme. It satisfies
// apperrors.ColorProvider.
type StatusColors struct{}

// Warn paints s as a warning.
func (StatusColors) Warn(s string) string { return Warning(s) }

// Fail paints s as a failure.
func (StatusColors) Fail(s string) string { return Error(s) }

// FormatDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "< 1µs"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.String()
	}
}
