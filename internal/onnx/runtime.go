// Package onnx runs exported style networks on ONNX Runtime.
//
// The runtime is a process-wide shared library: Init loads it once and every
// network loaded afterwards shares it until Close.
package onnx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	ort "github.com/yalue/onnxruntime_go"

	"stylerd/internal/registry"
	"stylerd/internal/style"
)

// ErrLibraryNotFound is returned by Init when no shared library can be located.
var ErrLibraryNotFound = errors.New("onnx: runtime shared library not found (set " + EnvLibraryPath + " or onnx_library_path)")

// Config controls the runtime and the sessions it creates.
type Config struct {
	LibraryPath    string
	IntraOpThreads int
	InterOpThreads int
	Logger         zerolog.Logger
}

// Runtime owns the ONNX Runtime environment. It implements registry.Loader.
type Runtime struct {
	cfg     Config
	libPath string

	mu     sync.Mutex
	closed bool
}

var _ registry.Loader = (*Runtime)(nil)

// Init locates and initializes the shared library.
func Init(cfg Config) (*Runtime, error) {
	lib := LocateSharedLibrary(cfg.LibraryPath)
	if lib == "" {
		return nil, ErrLibraryNotFound
	}
	ort.SetSharedLibraryPath(lib)
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("onnx: initialize environment from %s: %w", lib, err)
		}
	}
	cfg.Logger.Info().Str("library", lib).Msg("onnx runtime initialized")
	return &Runtime{cfg: cfg, libPath: lib}, nil
}

// LibraryPath returns the shared library in use.
func (r *Runtime) LibraryPath() string { return r.libPath }

// Load opens the graph at path, verifies it has the style network signature
// and returns a session ready for concurrent Forward calls.
func (r *Runtime) Load(ctx context.Context, v style.Variant, path string) (registry.Network, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, errors.New("onnx: runtime closed")
	}

	start := time.Now()
	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("onnx: inspect %s: %w", path, err)
	}
	inName, outName, err := checkSignature(specsOf(inputs), specsOf(outputs))
	if err != nil {
		return nil, fmt.Errorf("onnx: %s: %w", path, err)
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: session options: %w", err)
	}
	defer opts.Destroy()
	if r.cfg.IntraOpThreads > 0 {
		if err := opts.SetIntraOpNumThreads(r.cfg.IntraOpThreads); err != nil {
			return nil, fmt.Errorf("onnx: intra-op threads: %w", err)
		}
	}
	if r.cfg.InterOpThreads > 0 {
		if err := opts.SetInterOpNumThreads(r.cfg.InterOpThreads); err != nil {
			return nil, fmt.Errorf("onnx: inter-op threads: %w", err)
		}
	}

	s, err := ort.NewDynamicAdvancedSession(path, []string{inName}, []string{outName}, opts)
	if err != nil {
		return nil, fmt.Errorf("onnx: open %s: %w", path, err)
	}
	r.cfg.Logger.Debug().
		Str("model", v.String()).
		Str("input", inName).
		Str("output", outName).
		Dur("took", time.Since(start)).
		Msg("onnx session ready")
	return &session{name: v.String(), s: s}, nil
}

// Close tears down the environment. Sessions must be closed first.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if err := ort.DestroyEnvironment(); err != nil {
		return fmt.Errorf("onnx: destroy environment: %w", err)
	}
	return nil
}
