package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"stylerd/internal/config"
)

const (
	flagConfig        = "config"
	flagEnvFile       = "env-file"
	flagLogLevel      = "log-level"
	flagLogFormat     = "log-format"
	flagLogFile       = "log-file"
	flagModelsDir     = "models-dir"
	flagWeightsExt    = "weights-ext"
	flagDefaultModel  = "default-model"
	flagONNXLib       = "onnx-lib"
	flagAddr          = "addr"
	flagMaxConcurrent = "max-concurrent"
	flagMaxWait       = "max-wait"
	flagMaxUpload     = "max-upload-bytes"
	flagMaxImageDim   = "max-image-dimension"
	flagMaxPixels     = "max-image-pixels"
	flagJPEGQuality   = "jpeg-quality"
	flagInferTimeout  = "infer-timeout"
	flagCORSOrigins   = "cors-origins"
)

func addCommonFlags(fs *pflag.FlagSet) {
	fs.StringP(flagConfig, "c", "", "Path to a YAML, JSON or TOML config file")
	fs.String(flagEnvFile, ".env", "Dotenv file loaded before the environment overlay (missing is fine)")
	fs.String(flagLogLevel, "", "Log level: debug|info|warn|error|off")
	fs.String(flagLogFormat, "", "Log format: console|json")
	fs.String(flagLogFile, "", "Write logs to this file with rotation")
	fs.String(flagModelsDir, "", "Directory holding <name>.onnx weights")
	fs.String(flagWeightsExt, "", "Weights file extension")
	fs.String(flagDefaultModel, "", "Style used when a request names none")
	fs.String(flagONNXLib, "", "Path to the onnxruntime shared library")
}

func addServeFlags(fs *pflag.FlagSet) {
	fs.String(flagAddr, "", "HTTP listen address, e.g. :5000")
	fs.Int(flagMaxConcurrent, 0, "Concurrent forward passes (0 = unlimited)")
	fs.Duration(flagMaxWait, 0, "How long a request may wait for a free slot")
	fs.Int64(flagMaxUpload, 0, "Maximum upload size in bytes")
	fs.Int(flagMaxImageDim, 0, "Shrink inputs whose longest side exceeds this (0 keeps native size)")
	fs.Int(flagMaxPixels, 0, "Reject inputs whose header declares more pixels than this")
	fs.Int(flagJPEGQuality, 0, "JPEG quality 1-100")
	fs.Int64(flagInferTimeout, 0, "Per-request timeout in seconds (0 disables)")
	fs.String(flagCORSOrigins, "", "Comma-separated allowed origins; enables CORS")
}

// applyFlags overlays flags the user set explicitly. Flags not registered on
// the command are ignored.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config) {
	str := func(name string, dst *string) {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}
	integer := func(name string, dst *int) {
		if fs.Changed(name) {
			*dst, _ = fs.GetInt(name)
		}
	}
	int64s := func(name string, dst *int64) {
		if fs.Changed(name) {
			*dst, _ = fs.GetInt64(name)
		}
	}

	str(flagLogLevel, &cfg.LogLevel)
	str(flagLogFormat, &cfg.LogFormat)
	str(flagLogFile, &cfg.LogFile)
	str(flagModelsDir, &cfg.ModelsDir)
	str(flagWeightsExt, &cfg.WeightsExt)
	str(flagDefaultModel, &cfg.DefaultModel)
	str(flagONNXLib, &cfg.ONNXLibraryPath)
	str(flagAddr, &cfg.Addr)
	integer(flagMaxConcurrent, &cfg.MaxConcurrent)
	integer(flagMaxImageDim, &cfg.MaxImageDimension)
	integer(flagMaxPixels, &cfg.MaxImagePixels)
	integer(flagJPEGQuality, &cfg.JPEGQuality)
	int64s(flagMaxUpload, &cfg.MaxUploadBytes)
	int64s(flagInferTimeout, &cfg.InferTimeoutSeconds)
	if fs.Changed(flagMaxWait) {
		d, _ := fs.GetDuration(flagMaxWait)
		cfg.MaxWait = config.Duration(d)
	}
	if fs.Changed(flagCORSOrigins) {
		v, _ := fs.GetString(flagCORSOrigins)
		cfg.CORS.AllowedOrigins = splitCSV(v)
		cfg.CORS.Enabled = len(cfg.CORS.AllowedOrigins) > 0
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
