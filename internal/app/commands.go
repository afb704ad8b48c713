package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agbru/nbase/internal/calibration"
	"github.com/agbru/nbase/internal/cli"
	"github.com/agbru/nbase/internal/config"
	apperrors "github.com/agbru/nbase/internal/errors"
	"github.com/agbru/nbase/internal/orchestration"
	"github.com/agbru/nbase/internal/server"
	"github.com/agbru/nbase/internal/service"
	"github.com/agbru/nbase/internal/ui"
)

func (a *Application) outputConfig() cli.OutputConfig {
	return cli.OutputConfig{JSON: a.Config.JSONOutput, Verbose: a.Config.Verbose}
}

func (a *Application) newEvalCommand() *cobra.Command {
	var toBase int
	var toCharset string
	cmd := &cobra.Command{
		Use:   "eval <op> [operands...]",
		Short: "Evaluate one operation",
		Long: `Evaluate one operation on operands written in --base with --charset.
Flags go before the operation so that negative operands are not read as
flags. Run "nbase repl" and type "ops" for the list of operations.`,
		Example: `  nbase eval add 123 877
  nbase eval sub 5 -12
  nbase eval --base 16 mul FF FF
  nbase eval --to-base 2 convert 255`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := a.request(args[0], args[1:])
			req.ToBase, req.ToCharset = toBase, toCharset
			a.exitCode = cli.RunEval(cmd.Context(), a.Service, req, cli.EvalOptions{
				OutputConfig: a.outputConfig(),
				Timeout:      a.Config.Timeout,
				Spinner:      !a.Config.JSONOutput && cli.IsTerminal(a.ErrWriter),
			}, a.Out, a.ErrWriter)
		},
	}
	cmd.Flags().IntVar(&toBase, "to-base", 0, "Target base of convert.")
	cmd.Flags().StringVar(&toCharset, "to-charset", "", "Target charset of convert.")
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (a *Application) newConvertCommand() *cobra.Command {
	var toBase int
	var toCharset string
	cmd := &cobra.Command{
		Use:   "convert [values...]",
		Short: "Convert many values to another base",
		Long: `Convert values written in --base with --charset to --to base. Values are
read one per line from standard input when none is given or the only one
is "-". Flags go before the values. Conversions run concurrently and are
printed in input order.`,
		Example: `  nbase convert --to 16 255 4096
  nbase convert --to 2 -- -5 5
  seq 1 1000 | nbase convert --to 36 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := args
			if len(inputs) == 0 || (len(inputs) == 1 && inputs[0] == "-") {
				var err error
				if inputs, err = readLines(a.In); err != nil {
					return err
				}
			}
			ctx, cancel := SetupContext(cmd.Context(), a.Config.Timeout)
			defer cancel()

			var progress io.Writer
			if !a.Config.JSONOutput && cli.IsTerminal(a.ErrWriter) {
				progress = a.ErrWriter
			}
			results := orchestration.ExecuteConversions(ctx, a.Service, orchestration.Batch{
				Inputs:      inputs,
				Base:        a.Config.Base,
				Charset:     a.Config.Charset,
				ToBase:      toBase,
				ToCharset:   toCharset,
				Concurrency: a.Config.Concurrency,
			}, progress)

			if a.Config.JSONOutput {
				if err := cli.DisplayJSON(a.Out, orchestration.ToModels(results)); err != nil {
					return err
				}
				a.exitCode = firstFailure(results)
				return nil
			}
			a.exitCode = orchestration.AnalyzeConversions(results, a.Config.Verbose, a.Out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&toBase, "to", "t", 0, "Target base.")
	cmd.Flags().StringVar(&toCharset, "to-charset", "", "Target charset.")
	_ = cmd.MarkFlagRequired("to")
	config.BindBatchFlags(cmd.Flags(), &a.Config)
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (a *Application) newREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repl, err := cli.NewREPL(a.Service, cli.REPLConfig{
				Base:    a.Config.Base,
				Charset: a.Config.Charset,
				Timeout: a.Config.Timeout,
				Verbose: a.Config.Verbose,
			})
			if err != nil {
				return err
			}
			repl.SetInput(a.In)
			repl.SetOutput(a.Out)
			repl.Start(cmd.Context())
			return nil
		},
	}
}

func (a *Application) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			timeouts := server.DefaultServerTimeouts()
			timeouts.RequestTimeout = a.Config.Timeout
			srv := server.NewServer(a.Service, a.Config,
				server.WithLogger(a.Logger),
				server.WithPrometheusRegistry(a.Metrics),
				server.WithTimeouts(timeouts),
				server.WithVersion(Version),
			)
			if err := srv.Start(cmd.Context()); err != nil {
				fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
				a.exitCode = apperrors.ExitErrorGeneric
			}
			return nil
		},
	}
	config.BindServerFlags(cmd.Flags(), &a.Config)
	return cmd
}

func (a *Application) newCharsetCommand() *cobra.Command {
	var columns int
	cmd := &cobra.Command{
		Use:   "charset [symbols]",
		Short: "Validate and display a charset",
		Long: `Validate a charset and print its symbols with their digit values. Without
an argument the default charset is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := a.Factory.DefaultCharset()
			if len(args) == 1 {
				var err error
				if c, err = a.Factory.Registry().Validate(args[0]); err != nil {
					a.exitCode = apperrors.HandleEvalError(err, 0, a.ErrWriter, ui.StatusColors{})
					return nil
				}
			}
			cli.DisplayCharset(a.Out, c, columns)
			return nil
		},
	}
	cmd.Flags().IntVar(&columns, "columns", cli.DefaultCharsetColumns, "Symbols per row.")
	return cmd
}

func (a *Application) newCalibrateCommand() *cobra.Command {
	var quick, cached bool
	var digits int
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Measure the best Karatsuba threshold for this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cleanup := SetupLifecycle(cmd.Context(), a.Config.Timeout)
			defer cleanup.Cleanup()

			if quick {
				updated, ok := calibration.AutoCalibrate(ctx, a.Config, a.Out)
				if !ok {
					fmt.Fprintln(a.ErrWriter, ui.Error("Calibration failed: no valid results obtained."))
					a.exitCode = apperrors.ExitErrorGeneric
					return nil
				}
				a.Config = updated
				calibration.Apply(updated.KaratsubaThreshold)
				return nil
			}
			a.exitCode = calibration.RunCalibration(ctx, a.Out, calibration.Options{
				ProfilePath: a.Config.CalibrationProfile,
				SaveProfile: true,
				LoadProfile: cached,
				Timeout:     a.Config.Timeout,
				Digits:      digits,
			})
			return nil
		},
	}
	cmd.Flags().BoolVar(&quick, "quick", false, "Run the fast startup calibration instead of the full one.")
	cmd.Flags().BoolVar(&cached, "cached", false, "Reuse a valid saved profile instead of measuring.")
	cmd.Flags().IntVar(&digits, "digits", calibration.CalibrationDigits, "Operand length of the full calibration.")
	return cmd
}

func (a *Application) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if a.Config.JSONOutput {
				return cli.DisplayJSON(a.Out, GetVersionInfo())
			}
			PrintVersion(a.Out)
			return nil
		},
	}
}

// firstFailure returns the exit code of the first failed conversion.
func firstFailure(results []orchestration.ConversionResult) int {
	for _, r := range results {
		if r.Err != nil {
			return apperrors.ExitCodeFor(r.Err)
		}
	}
	return apperrors.ExitSuccess
}

// readLines returns the non-blank lines of r, trimmed.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64<<20)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading values: %w", err)
	}
	return lines, nil
}

func (a *Application) request(op string, args []string) service.Request {
	return service.Request{Op: op, Args: args, Base: a.Config.Base, Charset: a.Config.Charset}
}
