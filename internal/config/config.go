// Package config provides the configuration management for the nbase
// application. It defines the configuration structure, binds it to command
// line flags, layers a TOML file and NBASE_* environment variables underneath
// those flags, and validates the result.
//
// Priority, highest first: CLI flags > environment variables > config file >
// defaults.
package config

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	apperrors "github.com/agbru/nbase/internal/errors"
	"github.com/agbru/nbase/internal/logging"
	"github.com/agbru/nbase/pkg/nbase"
)

const (
	// EnvPrefix is the prefix for all environment variables used by nbase.
	EnvPrefix = "NBASE_"
	// DefaultConfigFile is read from the working directory when present and
	// no --config flag is given.
	DefaultConfigFile = "nbase.toml"
)

// Default configuration values.
const (
	// DefaultBase is the base used to read and write numbers.
	DefaultBase = 10
	// DefaultTimeout bounds a single evaluation.
	DefaultTimeout = time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultMaxInput is the largest accepted operand, in symbols.
	DefaultMaxInput = 1_000_000
	// DefaultMaxExponent is the largest accepted exponent for pow.
	DefaultMaxExponent = 1 << 20
	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
	// DefaultTheme is the default color theme.
	DefaultTheme = "dark"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// ConfigFile is the TOML file to read. Empty means DefaultConfigFile if it
	// exists.
	ConfigFile string
	// Base is the base operands are written in.
	Base int
	// Charset is the alphabet operands are written with. Empty selects the
	// default charset.
	Charset string
	// DefaultCharset replaces the built-in default alphabet.
	DefaultCharset string
	// MaxBase is the largest base accepted anywhere.
	MaxBase int
	// CacheCapacity is the size of the charset registry.
	CacheCapacity int
	// Timeout bounds a single evaluation.
	Timeout time.Duration
	// LogLevel is a zerolog level name.
	LogLevel string
	// NoColor disables colored output. Also set by the NO_COLOR variable.
	NoColor bool
	// JSONOutput prints results as JSON.
	JSONOutput bool
	// Verbose prints long values in full instead of abbreviating them.
	Verbose bool
	// Theme selects the color theme (dark, light, none).
	Theme string
	// Port is the HTTP port in server mode.
	Port string
	// MaxInput caps operand length in symbols (0 disables the check).
	MaxInput int
	// MaxExponent caps pow exponents (0 disables the check).
	MaxExponent int64
	// Concurrency bounds batch conversions (0 means one per CPU).
	Concurrency int
	// CalibrationProfile is the calibration profile path. Empty selects
	// ~/.nbase_calibration.json.
	CalibrationProfile string
	// KaratsubaThreshold overrides the multiplication cutoff in digits
	// (0 keeps the calibrated or built-in value).
	KaratsubaThreshold int
}

// Default returns a configuration holding every default value.
func Default() AppConfig {
	return AppConfig{
		Base:           DefaultBase,
		DefaultCharset: nbase.DefaultCharset,
		MaxBase:        nbase.DefaultMaxBase,
		CacheCapacity:  nbase.DefaultRegistryCapacity,
		Timeout:        DefaultTimeout,
		LogLevel:       DefaultLogLevel,
		Theme:          DefaultTheme,
		Port:           DefaultPort,
		MaxInput:       DefaultMaxInput,
		MaxExponent:    DefaultMaxExponent,
	}
}

// BindFlags registers the global flags on fs, storing values into c. The
// current contents of c are the flag defaults.
func BindFlags(fs *pflag.FlagSet, c *AppConfig) {
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "Path to a TOML config file (default ./"+DefaultConfigFile+" if present).")
	fs.IntVarP(&c.Base, "base", "b", c.Base, "Base the operands are written in.")
	fs.StringVarP(&c.Charset, "charset", "c", c.Charset, "Alphabet the operands are written with (default: the default charset).")
	fs.StringVar(&c.DefaultCharset, "default-charset", c.DefaultCharset, "Alphabet used when no charset is given.")
	fs.IntVar(&c.MaxBase, "max-base", c.MaxBase, "Largest accepted base.")
	fs.IntVar(&c.CacheCapacity, "cache-capacity", c.CacheCapacity, "Number of charsets kept in the registry.")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Maximum time for one evaluation.")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error).")
	fs.BoolVar(&c.NoColor, "no-color", c.NoColor, "Disable colored output (also respects NO_COLOR).")
	fs.BoolVar(&c.JSONOutput, "json", c.JSONOutput, "Print results as JSON.")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "Print long values in full.")
	fs.StringVar(&c.Theme, "theme", c.Theme, "Color theme (dark, light, none).")
	fs.IntVar(&c.MaxInput, "max-input", c.MaxInput, "Largest accepted operand in symbols (0 for no limit).")
	fs.Int64Var(&c.MaxExponent, "max-exponent", c.MaxExponent, "Largest accepted pow exponent (0 for no limit).")
	fs.StringVar(&c.CalibrationProfile, "calibration-profile", c.CalibrationProfile, "Calibration profile path (default ~/.nbase_calibration.json).")
	fs.IntVar(&c.KaratsubaThreshold, "karatsuba-threshold", c.KaratsubaThreshold, "Karatsuba cutoff in digits (0 for calibrated or built-in).")
}

// BindServerFlags registers the flags only the server uses.
func BindServerFlags(fs *pflag.FlagSet, c *AppConfig) {
	fs.StringVarP(&c.Port, "port", "p", c.Port, "Port to listen on.")
}

// BindBatchFlags registers the flags only batch conversion uses.
func BindBatchFlags(fs *pflag.FlagSet, c *AppConfig) {
	fs.IntVar(&c.Concurrency, "concurrency", c.Concurrency, "Parallel conversions (0 for one per CPU).")
}

// Resolve layers the config file and the environment under the flags that
// were set explicitly on fs, then validates c.
//
// Parameters:
//   - fs: The parsed flag set c was bound to.
//   - c: The configuration to complete.
//
// Returns:
//   - error: A ConfigError if a source is unreadable or a value is invalid.
func Resolve(fs *pflag.FlagSet, c *AppConfig) error {
	explicit := make(map[string]bool)
	fs.Visit(func(f *pflag.Flag) { explicit[f.Name] = true })

	if err := applyFile(fs, c.ConfigFile, explicit); err != nil {
		return err
	}
	if err := applyEnvOverrides(fs, explicit); err != nil {
		return err
	}
	applyNoColor(c, explicit)
	return c.Validate()
}

// Validate checks the semantic consistency of the configuration parameters.
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate() error {
	if c.MaxBase < 2 || c.MaxBase > nbase.MaxSupportedBase {
		return apperrors.NewConfigError("max base must be in [2, %d], got %d", nbase.MaxSupportedBase, c.MaxBase)
	}
	if c.Base < 2 || c.Base > c.MaxBase {
		return apperrors.NewConfigError("base must be in [2, %d], got %d", c.MaxBase, c.Base)
	}
	if c.DefaultCharset == "" {
		return apperrors.NewConfigError("default charset cannot be empty")
	}
	if c.CacheCapacity < 1 {
		return apperrors.NewConfigError("cache capacity must be at least 1, got %d", c.CacheCapacity)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.MaxInput < 0 {
		return apperrors.NewConfigError("max input cannot be negative: %d", c.MaxInput)
	}
	if c.MaxExponent < 0 {
		return apperrors.NewConfigError("max exponent cannot be negative: %d", c.MaxExponent)
	}
	if c.Concurrency < 0 {
		return apperrors.NewConfigError("concurrency cannot be negative: %d", c.Concurrency)
	}
	if c.KaratsubaThreshold != 0 && c.KaratsubaThreshold < 4 {
		return apperrors.NewConfigError("karatsuba threshold must be 0 or at least 4, got %d", c.KaratsubaThreshold)
	}
	switch c.Theme {
	case "dark", "light", "none":
	default:
		return apperrors.NewConfigError("unknown theme %q (want dark, light or none)", c.Theme)
	}
	if c.Port == "" {
		return apperrors.NewConfigError("port cannot be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	return nil
}

// Level returns the parsed log level. Validate guarantees it parses.
func (c AppConfig) Level() zerolog.Level {
	lvl, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// NewFactory builds the nbase factory that c describes.
func (c AppConfig) NewFactory(logger zerolog.Logger) (*nbase.Factory, error) {
	reg := nbase.NewRegistry(nbase.WithCapacity(c.CacheCapacity), nbase.WithRegistryLogger(logger))
	f, err := nbase.NewFactory(
		nbase.WithRegistry(reg),
		nbase.WithDefaultCharset(c.DefaultCharset),
		nbase.WithMaxBase(c.MaxBase),
		nbase.WithLogger(logger),
	)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid configuration: %v", err)
	}
	return f, nil
}
