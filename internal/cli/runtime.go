package cli

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"stylerd/internal/config"
	"stylerd/internal/onnx"
	"stylerd/internal/registry"
)

// inferenceRuntime loads networks and is torn down after the registry.
type inferenceRuntime interface {
	registry.Loader
	Close() error
}

// fnOpenRuntime is replaced in tests to avoid the ONNX shared library.
var fnOpenRuntime = func(cfg config.Config, log zerolog.Logger) (inferenceRuntime, error) {
	rt, err := onnx.Init(onnx.Config{
		LibraryPath:    cfg.ONNXLibraryPath,
		IntraOpThreads: cfg.IntraOpThreads,
		InterOpThreads: cfg.InterOpThreads,
		Logger:         log,
	})
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// openRegistry starts the runtime and loads every variant. The returned
// close func releases the sessions before the runtime.
func openRegistry(ctx context.Context, cfg config.Config, log zerolog.Logger) (*registry.Registry, func() error, error) {
	rt, err := fnOpenRuntime(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	reg, err := registry.Load(ctx, registry.Options{
		Dir:         cfg.ModelsDir,
		Ext:         cfg.WeightsExt,
		Loader:      rt,
		Parallelism: cfg.LoadParallelism,
		Logger:      log,
	})
	if err != nil {
		_ = rt.Close()
		return nil, nil, err
	}
	return reg, func() error {
		return errors.Join(reg.Close(), rt.Close())
	}, nil
}
