package app

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/agbru/nbase/internal/calibration"
	"github.com/agbru/nbase/internal/config"
	apperrors "github.com/agbru/nbase/internal/errors"
	"github.com/agbru/nbase/internal/logging"
	"github.com/agbru/nbase/internal/service"
	"github.com/agbru/nbase/internal/ui"
	"github.com/agbru/nbase/pkg/nbase"
)

// Application represents the nbase application instance. It holds the
// resolved configuration and the components built from it, and runs one
// subcommand per Run call.
type Application struct {
	// Config holds the resolved application configuration.
	Config config.AppConfig
	// Factory builds every integer the commands work with.
	Factory *nbase.Factory
	// Service evaluates operations for every front end.
	Service *service.Evaluator
	// Metrics is the Prometheus registry shared by the service and the server.
	Metrics *prometheus.Registry
	// Logger is the structured logger, writing to ErrWriter.
	Logger *logging.ZerologAdapter

	In        io.Reader
	Out       io.Writer
	ErrWriter io.Writer

	exitCode int
}

// New creates an Application reading from in and writing to out and
// errWriter. Configuration is resolved when Run parses its arguments.
func New(in io.Reader, out, errWriter io.Writer) *Application {
	return &Application{
		Config:    config.Default(),
		In:        in,
		Out:       out,
		ErrWriter: errWriter,
	}
}

// Run parses args (without the program name), resolves the configuration
// and executes the selected subcommand. SIGINT and SIGTERM cancel ctx.
//
// Parameters:
//   - ctx: The context for managing cancellation.
//   - args: The command-line arguments, typically os.Args[1:].
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, args []string) int {
	if HasVersionFlag(args) {
		PrintVersion(a.Out)
		return apperrors.ExitSuccess
	}

	ctx, stop := SetupSignals(ctx)
	defer stop()

	root := a.NewRootCommand()
	root.SetArgs(args)
	root.SetIn(a.In)
	root.SetOut(a.Out)
	root.SetErr(a.ErrWriter)

	a.exitCode = apperrors.ExitSuccess
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		code := apperrors.ExitCodeFor(err)
		if code == apperrors.ExitErrorGeneric {
			// Unknown commands, flags and arguments.
			code = apperrors.ExitErrorConfig
		}
		return code
	}
	return a.exitCode
}

// NewRootCommand builds the command tree bound to a.
func (a *Application) NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "nbase",
		Short: "Arbitrary precision integers in any base and alphabet",
		Long: `nbase evaluates arithmetic on signed integers of any size, written in any
base from 2 up to --max-base with any alphabet of distinct symbols.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
	}
	config.BindFlags(root.PersistentFlags(), &a.Config)

	root.AddCommand(
		a.newEvalCommand(),
		a.newConvertCommand(),
		a.newREPLCommand(),
		a.newServeCommand(),
		a.newCharsetCommand(),
		a.newCalibrateCommand(),
		a.newVersionCommand(),
	)
	return root
}

// setup resolves the configuration and builds the shared components.
func (a *Application) setup(cmd *cobra.Command) error {
	if err := config.Resolve(cmd.Flags(), &a.Config); err != nil {
		return err
	}
	cfg := a.Config

	if cfg.NoColor {
		ui.InitTheme(true)
	} else {
		ui.SetTheme(cfg.Theme)
	}

	a.Logger = logging.NewConsoleLogger(a.ErrWriter, "nbase", cfg.NoColor).WithLevel(cfg.Level())
	factory, err := cfg.NewFactory(a.Logger.Zerolog())
	if err != nil {
		return err
	}
	a.Factory = factory
	a.Metrics = prometheus.NewRegistry()
	a.Service = service.NewEvaluator(factory,
		service.WithLimits(service.Limits{MaxInput: cfg.MaxInput, MaxExponent: cfg.MaxExponent}),
		service.WithLogger(a.Logger),
		service.WithMetrics(service.NewMetrics(a.Metrics)),
	)

	a.applyThreshold()
	return nil
}

// applyThreshold installs the Karatsuba cutoff: the explicit flag, else a
// cached calibration profile, else the built-in default.
func (a *Application) applyThreshold() {
	t := a.Config.KaratsubaThreshold
	if t == 0 {
		if cached, ok := calibration.LoadCachedCalibration(a.Config, a.Config.CalibrationProfile); ok {
			t = cached.KaratsubaThreshold
		}
	}
	if t == 0 {
		return
	}
	applied := calibration.Apply(t)
	a.Logger.Debug("karatsuba threshold set", logging.Int("digits", applied))
}
