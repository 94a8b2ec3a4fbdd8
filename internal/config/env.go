package config

import (
	"os"

	"github.com/rs/zerolog"
)

// Environment variables honored during resolution.
const (
	// EnvCI switches the failFast and verbose defaults on when exactly "true".
	EnvCI = "CI"
	// EnvConfigFile names a config file when no path is given explicitly.
	EnvConfigFile = "RUNCFG_CONFIG"
	// EnvMaxWorkers overrides workerConcurrency.
	EnvMaxWorkers = "RUNCFG_MAX_WORKERS"
	// EnvRootDir overrides the root directory (default: working directory).
	EnvRootDir = "RUNCFG_ROOT_DIR"
)

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// OSLookup reads the process environment.
func OSLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapLookup returns a LookupFunc backed by a fixed map.
func MapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// ciEnabled reports whether the CI variable is exactly "true". Any other
// value, including "1" or "TRUE", counts as off.
func ciEnabled(lookup LookupFunc, logger zerolog.Logger) bool {
	v, ok := lookup(EnvCI)
	enabled := ok && v == "true"
	logger.Debug().
		Str("key", EnvCI).
		Bool("set", ok).
		Bool("value", enabled).
		Msg("resolved CI defaults")
	return enabled
}

// lookupString returns the variable's value, or defaultValue when it is
// unset or empty.
func lookupString(lookup LookupFunc, logger zerolog.Logger, key, defaultValue string) string {
	if v, ok := lookup(key); ok && v != "" {
		logger.Debug().
			Str("key", key).
			Str("value", v).
			Str("source", "environment").
			Msg("using environment variable")
		return v
	}
	return defaultValue
}
