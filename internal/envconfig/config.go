// Package envconfig reads the MLP_* environment variables that tune a run.
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Var returns an environment variable with surrounding whitespace and quotes removed.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// LogLevel returns the log level selected by MLP_DEBUG.
//
// MLP_DEBUG=1 (or true) enables debug logging; a negative or positive integer
// shifts the level in slog's steps of four.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("MLP_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// DataDir returns the directory searched for MNIST IDX files.
// Configurable via MLP_DATA_DIR, defaults to ./mnist.
func DataDir() string {
	if s := Var("MLP_DATA_DIR"); s != "" {
		return filepath.Clean(s)
	}
	return "mnist"
}

// NumThreads returns the number of workers used by element-wise matrix kernels.
// Configurable via MLP_NUM_THREADS, defaults to the number of CPUs.
var NumThreads = Uint("MLP_NUM_THREADS", uint(runtime.NumCPU()))

// Seed returns the default seed for weight initialisation and binarization draws.
var Seed = Uint64("MLP_SEED", 42)

// Uint returns a getter for a uint variable with a default.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// Uint64 returns a getter for a uint64 variable with a default.
func Uint64(key string, defaultValue uint64) func() uint64 {
	return func() uint64 {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return n
			}
		}
		return defaultValue
	}
}

// EnvVar describes one environment variable and its current value.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every recognised variable with its effective value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"MLP_DEBUG":       {"MLP_DEBUG", LogLevel(), "Show additional debug information (e.g. MLP_DEBUG=1)"},
		"MLP_DATA_DIR":    {"MLP_DATA_DIR", DataDir(), "Directory holding the MNIST IDX files (default \"mnist\")"},
		"MLP_NUM_THREADS": {"MLP_NUM_THREADS", NumThreads(), "Workers used by element-wise matrix kernels"},
		"MLP_SEED":        {"MLP_SEED", Seed(), "Seed for weight initialisation and binarization draws (default 42)"},
	}
}

// Values returns the effective value of every variable formatted as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
