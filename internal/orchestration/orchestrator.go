// Package orchestration runs batches of conversions concurrently and reports
// on them.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/rivo/uniseg"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/nbase/internal/cli"
	apperrors "github.com/agbru/nbase/internal/errors"
	"github.com/agbru/nbase/internal/service"
	"github.com/agbru/nbase/internal/ui"
	"github.com/agbru/nbase/pkg/models"
)

// ConversionResult is the outcome of one conversion of a batch.
type ConversionResult struct {
	// Index is the position of the input in the batch.
	Index int
	// Input is the value as given.
	Input string
	// Output is the converted value; empty if an error occurred.
	Output string
	// Duration is the time taken by the conversion.
	Duration time.Duration
	// Err contains any error that occurred during the conversion.
	Err error
}

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel so that conversions rarely block on a slow display.
const ProgressBufferMultiplier = 5

// Batch describes a set of values to convert with one request template.
type Batch struct {
	// Inputs are the values to convert.
	Inputs []string
	// Base and Charset describe how the inputs are written.
	Base    int
	Charset string
	// ToBase and ToCharset describe the outputs.
	ToBase    int
	ToCharset string
	// Concurrency bounds parallel conversions; 0 means one per CPU.
	Concurrency int
}

// ExecuteConversions converts every input of b concurrently. Results keep
// the order of the inputs. One failing input does not stop the others; a done
// ctx fails the conversions that have not started.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - svc: The service performing conversions.
//   - b: The batch.
//   - progress: Where a progress bar is drawn, or nil for none.
//
// Returns:
//   - []ConversionResult: One result per input.
func ExecuteConversions(ctx context.Context, svc service.Service, b Batch, progress io.Writer) []ConversionResult {
	results := make([]ConversionResult, len(b.Inputs))
	limit := b.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	var (
		progressChan chan cli.ProgressUpdate
		displayWg    sync.WaitGroup
	)
	if progress != nil {
		progressChan = make(chan cli.ProgressUpdate, min(len(b.Inputs), limit)*ProgressBufferMultiplier)
		displayWg.Add(1)
		go cli.DisplayProgress(&displayWg, progressChan, len(b.Inputs), progress)
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, in := range b.Inputs {
		g.Go(func() error {
			start := time.Now()
			res := ConversionResult{Index: i, Input: in}
			if err := ctx.Err(); err != nil {
				res.Err = err
			} else {
				r, err := svc.Evaluate(ctx, service.Request{
					Op:        "convert",
					Args:      []string{in},
					Base:      b.Base,
					Charset:   b.Charset,
					ToBase:    b.ToBase,
					ToCharset: b.ToCharset,
				})
				if err != nil {
					res.Err = err
				} else {
					res.Output = service.Render(r.Value)
				}
			}
			res.Duration = time.Since(start)
			results[i] = res
			if progressChan != nil {
				progressChan <- cli.ProgressUpdate{Index: i, Value: 1}
			}
			return nil
		})
	}

	_ = g.Wait()
	if progressChan != nil {
		close(progressChan)
		displayWg.Wait()
	}
	return results
}

// ToModels converts results into their API form.
func ToModels(results []ConversionResult) []models.Conversion {
	out := make([]models.Conversion, len(results))
	for i, r := range results {
		out[i] = models.Conversion{Index: r.Index, Input: r.Input, Output: r.Output}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	return out
}

// AnalyzeConversions prints a summary table of results and returns the exit
// code of the batch: success when every conversion succeeded, and the code
// of the first failure otherwise.
//
// Parameters:
//   - results: The results of ExecuteConversions.
//   - verbose: If true, long outputs are printed in full.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeConversions(results []ConversionResult, verbose bool, out io.Writer) int {
	var firstError error
	var total time.Duration
	failures := 0

	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		ui.Underline("#"), ui.Underline("Input"), ui.Underline("Output"), ui.Underline("Duration"))
	for _, res := range results {
		total += res.Duration
		output := ui.Success(abbreviate(res.Output, verbose))
		if res.Err != nil {
			failures++
			output = ui.Error("✗ ", res.Err)
			if firstError == nil {
				firstError = res.Err
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			res.Index, ui.Primary(abbreviate(res.Input, verbose)), output, ui.Warning(ui.FormatDuration(res.Duration)))
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	fmt.Fprintf(out, "\n%d conversion(s), %d failed, %s in total.\n", len(results), failures, ui.FormatDuration(total))
	if firstError != nil {
		return apperrors.HandleEvalError(firstError, 0, out, ui.StatusColors{})
	}
	return apperrors.ExitSuccess
}

// abbreviate shortens long texts for the summary table without splitting
// grapheme clusters.
func abbreviate(s string, verbose bool) string {
	if verbose || uniseg.GraphemeClusterCount(s) <= cli.TruncationLimit {
		return s
	}
	var clusters []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	head := strings.Join(clusters[:cli.DisplayEdges], "")
	tail := strings.Join(clusters[len(clusters)-cli.DisplayEdges:], "")
	return head + "..." + tail
}
