package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/agbru/nbase/internal/service"
	"github.com/agbru/nbase/internal/ui"
	"github.com/agbru/nbase/pkg/nbase"
)

const (
	// TruncationLimit is the digit count from which a value is abbreviated in
	// standard output to avoid cluttering the terminal.
	TruncationLimit = 100
	// DisplayEdges specifies the number of digits to display at the beginning
	// and end of an abbreviated value.
	DisplayEdges = 25
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// JSON prints the result as a models.EvalResponse document.
	JSON bool
	// Verbose prints long values in full.
	Verbose bool
}

// Abbreviate formats x like service.Render but keeps only the DisplayEdges
// most and least significant digits of values longer than TruncationLimit
// digits. Multi-codepoint symbols are never cut.
//
// Parameters:
//   - x: The value to format.
//   - verbose: If true, the value is never abbreviated.
//
// Returns:
//   - string: The formatted value.
func Abbreviate(x *nbase.Integer, verbose bool) string {
	ds := x.Digits()
	if verbose || len(ds) <= TruncationLimit {
		return service.Render(x)
	}
	var sb strings.Builder
	if x.Sign() < 0 {
		sb.WriteByte('-')
	}
	c := x.Charset()
	write := func(part []int) {
		for i, d := range part {
			if c != nil {
				sb.WriteString(c.Symbol(d))
				continue
			}
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(d))
		}
	}
	write(ds[:DisplayEdges])
	if c == nil {
		sb.WriteString(",...,")
	} else {
		sb.WriteString("...")
	}
	write(ds[len(ds)-DisplayEdges:])
	return sb.String()
}

// DisplayResult prints an evaluation result.
//
// Parameters:
//   - out: The output writer.
//   - res: The evaluation result.
//   - duration: The time the evaluation took.
//   - cfg: Output configuration.
//
// Returns:
//   - error: An error if JSON encoding fails.
func DisplayResult(out io.Writer, res service.Result, duration time.Duration, cfg OutputConfig) error {
	if cfg.JSON {
		return DisplayJSON(out, service.ToResponse(res, duration))
	}
	switch {
	case res.Ordering != nil:
		fmt.Fprintln(out, ui.Success(*res.Ordering))
	case res.Remainder != nil:
		fmt.Fprintf(out, "%s %s\n", ui.Success(Abbreviate(res.Value, cfg.Verbose)), ui.Success(Abbreviate(res.Remainder, cfg.Verbose)))
	case res.Value != nil:
		fmt.Fprintln(out, ui.Success(Abbreviate(res.Value, cfg.Verbose)))
	}
	if res.Value != nil && !cfg.Verbose && len(res.Value.Digits()) > TruncationLimit {
		fmt.Fprintf(out, "(%s digits in base %d; use %s to display the full value)\n",
			ui.Info(len(res.Value.Digits())), res.Value.Base(), ui.Warning("--verbose"))
	}
	return nil
}

// DisplayDetails prints a short description of a value: its base, its
// length and its charset.
func DisplayDetails(out io.Writer, x *nbase.Integer, duration time.Duration) {
	fmt.Fprintf(out, "%s\n", ui.Bold("--- Details ---"))
	fmt.Fprintf(out, "Base      : %s\n", ui.Secondary(x.Base()))
	fmt.Fprintf(out, "Digits    : %s\n", ui.Secondary(len(x.Digits())))
	if c := x.Charset(); c != nil {
		fmt.Fprintf(out, "Charset   : %s (%d symbols)\n", ui.Secondary(runewidth.Truncate(c.String(), 40, "…")), c.Len())
	} else {
		fmt.Fprintf(out, "Charset   : %s\n", ui.Secondary("raw"))
	}
	fmt.Fprintf(out, "Time      : %s\n", ui.Success(ui.FormatDuration(duration)))
}

// DisplayJSON writes v as indented JSON.
func DisplayJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
