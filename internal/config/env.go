package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	apperrors "github.com/agbru/nbase/internal/errors"
)

// setting ties a flag to its environment variable and its config file key.
type setting struct {
	flag string
	env  string
	key  string
}

// settings lists every value that can come from the environment or a file.
// "config" itself is flag-only.
var settings = []setting{
	{"base", "BASE", "base"},
	{"charset", "CHARSET", "charset"},
	{"default-charset", "DEFAULT_CHARSET", "default_charset"},
	{"max-base", "MAX_BASE", "max_base"},
	{"cache-capacity", "CACHE_CAPACITY", "cache_capacity"},
	{"timeout", "TIMEOUT", "timeout"},
	{"log-level", "LOG_LEVEL", "log_level"},
	{"no-color", "NO_COLOR", "no_color"},
	{"json", "JSON", "json"},
	{"verbose", "VERBOSE", "verbose"},
	{"theme", "THEME", "theme"},
	{"port", "PORT", "port"},
	{"max-input", "MAX_INPUT", "max_input"},
	{"max-exponent", "MAX_EXPONENT", "max_exponent"},
	{"concurrency", "CONCURRENCY", "concurrency"},
	{"calibration-profile", "CALIBRATION_PROFILE", "calibration_profile"},
	{"karatsuba-threshold", "KARATSUBA_THRESHOLD", "karatsuba_threshold"},
}

// set assigns a textual value to a flag. Boolean values also accept yes/no.
func set(fs *pflag.FlagSet, name, value, source string) error {
	f := fs.Lookup(name)
	if f == nil {
		return nil
	}
	if f.Value.Type() == "bool" {
		switch strings.ToLower(value) {
		case "yes":
			value = "true"
		case "no":
			value = "false"
		}
	}
	if err := f.Value.Set(value); err != nil {
		return apperrors.NewConfigError("invalid %s for %s: %q", source, name, value)
	}
	return nil
}

// applyEnvOverrides applies NBASE_* environment variables to every flag that
// was not set on the command line.
//
// Supported environment variables are NBASE_ followed by the upper-cased flag
// name with dashes replaced by underscores, for example NBASE_BASE,
// NBASE_MAX_BASE, NBASE_TIMEOUT ("30s") or NBASE_NO_COLOR (true/false,
// 1/0, yes/no).
func applyEnvOverrides(fs *pflag.FlagSet, explicit map[string]bool) error {
	for _, s := range settings {
		if explicit[s.flag] {
			continue
		}
		if val, ok := os.LookupEnv(EnvPrefix + s.env); ok && val != "" {
			if err := set(fs, s.flag, val, "environment value "+EnvPrefix+s.env); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyFile reads a TOML config file and applies its keys to the flags that
// were not set on the command line. An empty path reads DefaultConfigFile if
// it exists; an explicit path must exist.
func applyFile(fs *pflag.FlagSet, path string, explicit map[string]bool) error {
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			return nil
		}
		path = DefaultConfigFile
	}

	var raw map[string]any
	md, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return apperrors.NewConfigError("cannot read config file %s: %v", path, err)
	}

	known := make(map[string]bool, len(settings))
	for _, s := range settings {
		known[s.key] = true
	}
	for _, k := range md.Keys() {
		if !known[k.String()] {
			return apperrors.NewConfigError("unknown key %q in %s", k.String(), path)
		}
	}

	for _, s := range settings {
		if explicit[s.flag] || !md.IsDefined(s.key) {
			continue
		}
		if err := set(fs, s.flag, fmt.Sprint(raw[s.key]), "value in "+path); err != nil {
			return err
		}
	}
	return nil
}

// applyNoColor honors the NO_COLOR convention (https://no-color.org).
func applyNoColor(c *AppConfig, explicit map[string]bool) {
	if explicit["no-color"] {
		return
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.NoColor = true
	}
}
