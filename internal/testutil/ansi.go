// Package testutil holds helpers shared by the command-line tests.
package testutil

import "regexp"

// csi matches ANSI control sequences: the color codes of the themes and the
// cursor movements written by the spinner.
var csi = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// StripAnsiCodes removes ANSI escapes from s so assertions can compare plain
// text regardless of the active theme.
func StripAnsiCodes(s string) string {
	return csi.ReplaceAllString(s, "")
}
