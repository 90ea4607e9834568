package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables overlaid by ApplyEnv.
const (
	EnvAddr            = "STYLERD_ADDR"
	EnvModelsDir       = "STYLERD_MODELS_DIR"
	EnvDefaultModel    = "STYLERD_DEFAULT_MODEL"
	EnvMaxConcurrent   = "STYLERD_MAX_CONCURRENT"
	EnvMaxWait         = "STYLERD_MAX_WAIT"
	EnvLogLevel        = "STYLERD_LOG_LEVEL"
	EnvLogFormat       = "STYLERD_LOG_FORMAT"
	EnvLogFile         = "STYLERD_LOG_FILE"
	EnvONNXLibraryPath = "ONNXRUNTIME_LIB_PATH"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(string) (string, bool)

// ApplyEnv overlays set, non-empty environment variables onto c. A nil
// lookup reads the process environment.
func (c Config) ApplyEnv(lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(k string) (string, bool) {
		v, ok := lookup(k)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	if v, ok := get(EnvAddr); ok {
		c.Addr = v
	}
	if v, ok := get(EnvModelsDir); ok {
		c.ModelsDir = v
	}
	if v, ok := get(EnvDefaultModel); ok {
		c.DefaultModel = v
	}
	if v, ok := get(EnvMaxConcurrent); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%s: %w", EnvMaxConcurrent, err)
		}
		c.MaxConcurrent = n
	}
	if v, ok := get(EnvMaxWait); ok {
		if err := c.MaxWait.UnmarshalText([]byte(v)); err != nil {
			return c, fmt.Errorf("%s: %w", EnvMaxWait, err)
		}
	}
	if v, ok := get(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := get(EnvLogFormat); ok {
		c.LogFormat = v
	}
	if v, ok := get(EnvLogFile); ok {
		c.LogFile = v
	}
	if v, ok := get(EnvONNXLibraryPath); ok && c.ONNXLibraryPath == "" {
		c.ONNXLibraryPath = v
	}
	return c, nil
}
