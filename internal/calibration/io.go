package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/nbase/internal/config"
	"github.com/agbru/nbase/internal/ui"
)

// printCalibrationResults formats and prints the calibration results table.
func printCalibrationResults(out io.Writer, results []calibrationResult, bestThreshold int) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %s\t│ %s\n", ui.Underline("Threshold"), ui.Underline("Execution Time"))
	fmt.Fprintf(tw, "  %s\t┼%s\n", strings.Repeat("─", 14), strings.Repeat("─", 25))
	for _, res := range results {
		label := fmt.Sprintf("%d digits", res.Threshold)
		if res.Threshold == 0 {
			label = "Schoolbook"
		}
		duration := ui.Error("N/A")
		if res.Err == nil {
			duration = ui.Warning(ui.FormatDuration(res.Duration))
		}
		highlight := ""
		if res.Threshold == bestThreshold && res.Err == nil {
			highlight = " " + ui.Success("(Optimal)")
		}
		fmt.Fprintf(tw, "  %s\t│ %s%s\n", ui.Info(label), duration, highlight)
	}
	_ = tw.Flush()
}

// printCalibrationOutput prints the threshold chosen by auto calibration.
func printCalibrationOutput(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "%s: karatsuba=%s digits\n", ui.Success("Auto-calibration"), ui.Warning(cfg.KaratsubaThreshold))
}
