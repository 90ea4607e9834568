package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stylerd/internal/style"
)

// Defaults applied by WithDefaults.
const (
	DefaultAddr           = ":5000"
	DefaultModelsDir      = "assets"
	DefaultWeightsExt     = ".onnx"
	DefaultMaxUploadBytes = 10 << 20
	DefaultMaxImagePixels = 4096 * 4096
	DefaultJPEGQuality    = 75
	DefaultMaxWait        = 30 * time.Second
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr         string `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir    string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	WeightsExt   string `json:"weights_ext" yaml:"weights_ext" toml:"weights_ext"`
	DefaultModel string `json:"default_model" yaml:"default_model" toml:"default_model"`

	MaxUploadBytes      int64    `json:"max_upload_bytes" yaml:"max_upload_bytes" toml:"max_upload_bytes"`
	MaxImageDimension   int      `json:"max_image_dimension" yaml:"max_image_dimension" toml:"max_image_dimension"`
	MaxImagePixels      int      `json:"max_image_pixels" yaml:"max_image_pixels" toml:"max_image_pixels"`
	JPEGQuality         int      `json:"jpeg_quality" yaml:"jpeg_quality" toml:"jpeg_quality"`
	MaxConcurrent       int      `json:"max_concurrent" yaml:"max_concurrent" toml:"max_concurrent"`
	MaxWait             Duration `json:"max_wait" yaml:"max_wait" toml:"max_wait"`
	InferTimeoutSeconds int64    `json:"infer_timeout_seconds" yaml:"infer_timeout_seconds" toml:"infer_timeout_seconds"`

	ONNXLibraryPath string `json:"onnx_library_path" yaml:"onnx_library_path" toml:"onnx_library_path"`
	IntraOpThreads  int    `json:"intra_op_threads" yaml:"intra_op_threads" toml:"intra_op_threads"`
	InterOpThreads  int    `json:"inter_op_threads" yaml:"inter_op_threads" toml:"inter_op_threads"`
	LoadParallelism int    `json:"load_parallelism" yaml:"load_parallelism" toml:"load_parallelism"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`
	LogFile   string `json:"log_file" yaml:"log_file" toml:"log_file"`

	CORS CORS `json:"cors" yaml:"cors" toml:"cors"`
}

// CORS is the opt-in cross-origin policy.
type CORS struct {
	Enabled        bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods" toml:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers" toml:"allowed_headers"`
}

// Default returns a Config with every default applied.
func Default() Config { return Config{}.WithDefaults() }

// WithDefaults returns a copy of c with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
	if c.WeightsExt == "" {
		c.WeightsExt = DefaultWeightsExt
	}
	if c.DefaultModel == "" {
		c.DefaultModel = style.Default.String()
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.MaxImagePixels == 0 {
		c.MaxImagePixels = DefaultMaxImagePixels
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = DefaultJPEGQuality
	}
	if c.MaxWait == 0 {
		c.MaxWait = Duration(DefaultMaxWait)
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.CORS.Enabled {
		if len(c.CORS.AllowedMethods) == 0 {
			c.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
		}
		if len(c.CORS.AllowedHeaders) == 0 {
			c.CORS.AllowedHeaders = []string{"Accept", "Content-Type", "X-Request-Id", "X-Log-Level"}
		}
	}
	return c
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if strings.TrimSpace(c.ModelsDir) == "" {
		errs = append(errs, errors.New("models_dir is empty"))
	}
	if _, err := style.Parse(c.DefaultModel); err != nil {
		errs = append(errs, fmt.Errorf("default_model: %w", err))
	}
	if c.MaxUploadBytes < 0 {
		errs = append(errs, fmt.Errorf("max_upload_bytes must be >= 0, got %d", c.MaxUploadBytes))
	}
	if c.MaxImageDimension < 0 {
		errs = append(errs, fmt.Errorf("max_image_dimension must be >= 0, got %d", c.MaxImageDimension))
	}
	if c.MaxImagePixels < 0 {
		errs = append(errs, fmt.Errorf("max_image_pixels must be >= 0, got %d", c.MaxImagePixels))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality must be in [1,100], got %d", c.JPEGQuality))
	}
	if c.MaxConcurrent < 0 {
		errs = append(errs, fmt.Errorf("max_concurrent must be >= 0, got %d", c.MaxConcurrent))
	}
	if c.MaxWait < 0 {
		errs = append(errs, fmt.Errorf("max_wait must be >= 0, got %s", c.MaxWait))
	}
	if c.InferTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("infer_timeout_seconds must be >= 0, got %d", c.InferTimeoutSeconds))
	}
	if c.IntraOpThreads < 0 || c.InterOpThreads < 0 || c.LoadParallelism < 0 {
		errs = append(errs, errors.New("thread and parallelism counts must be >= 0"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be console or json, got %q", c.LogFormat))
	}
	if c.CORS.Enabled && len(c.CORS.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("cors.allowed_origins is required when cors is enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Variant returns the parsed default model.
func (c Config) Variant() (style.Variant, error) { return style.Parse(c.DefaultModel) }

// MaxWaitDuration returns MaxWait as a time.Duration.
func (c Config) MaxWaitDuration() time.Duration { return time.Duration(c.MaxWait) }
