package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stylerd/internal/config"
	"stylerd/internal/logging"
)

// lookupEnv is swapped in tests.
var lookupEnv config.LookupFunc

// loadDotEnv populates the environment from path without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("env file %s: %w", path, err)
	}
	return nil
}

// resolveConfig layers file, environment and explicit flags over defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	envFile, _ := flags.GetString(flagEnvFile)
	if err := loadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}

	var cfg config.Config
	if path, _ := flags.GetString(flagConfig); path != "" {
		c, err := config.Load(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	cfg, err := cfg.ApplyEnv(lookupEnv)
	if err != nil {
		return config.Config{}, err
	}
	applyFlags(flags, &cfg)
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setup resolves the config and builds the logger. Callers close the closer.
func setup(cmd *cobra.Command) (config.Config, zerolog.Logger, io.Closer, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return config.Config{}, zerolog.Nop(), nil, err
	}
	log, closer, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return config.Config{}, zerolog.Nop(), nil, err
	}
	return cfg, log, closer, nil
}
