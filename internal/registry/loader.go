package registry

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"stylerd/internal/common/fsutil"
	"stylerd/internal/style"
	"stylerd/pkg/types"
)

// DefaultExt is the weights file extension used when Options.Ext is empty.
const DefaultExt = ".onnx"

// Loader turns a weights file into a ready Network.
type Loader interface {
	Load(ctx context.Context, v style.Variant, path string) (Network, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, v style.Variant, path string) (Network, error)

func (f LoaderFunc) Load(ctx context.Context, v style.Variant, path string) (Network, error) {
	return f(ctx, v, path)
}

// Options controls Load.
type Options struct {
	Dir    string
	Ext    string
	Loader Loader
	// Parallelism bounds concurrent loads; <= 0 loads every variant at once.
	Parallelism int
	Logger      zerolog.Logger
}

// WeightsPath returns <dir>/<name><ext> for v.
func WeightsPath(dir, ext string, v style.Variant) string {
	return filepath.Join(dir, v.String()+normalizeExt(ext))
}

func normalizeExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultExt
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Plan resolves the weights file of every variant without loading it. All
// missing or unusable files are reported together.
func Plan(dir, ext string) ([]types.Model, error) {
	base, err := fsutil.ResolveDir(dir)
	if err != nil {
		return nil, fmt.Errorf("registry: models dir: %w", err)
	}
	var (
		out  []types.Model
		errs []error
	)
	for _, v := range style.All() {
		p := WeightsPath(base, ext, v)
		fi, err := fsutil.RegularFile(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("registry: weights for %s: %w", v, err))
			continue
		}
		out = append(out, types.Model{
			ID:        v.String(),
			Name:      v.Title(),
			Path:      p,
			SizeBytes: fi.Size(),
			Default:   v == style.Default,
		})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Load plans and loads every variant. Any failure aborts startup: networks
// that did load are closed and the first error is returned.
func Load(ctx context.Context, opts Options) (*Registry, error) {
	if opts.Loader == nil {
		return nil, errors.New("registry: no loader configured")
	}
	models, err := Plan(opts.Dir, opts.Ext)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	dir := filepath.Dir(models[0].Path)
	log.Info().Str("dir", dir).Int("models", len(models)).Msg("loading models")

	all := style.All()
	nets := make([]Network, len(models))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallelism > 0 {
		g.SetLimit(opts.Parallelism)
	}
	for i, m := range models {
		i, m := i, m
		v := all[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			n, err := opts.Loader.Load(gctx, v, m.Path)
			if err != nil {
				return fmt.Errorf("registry: load %s from %s: %w", v, m.Path, err)
			}
			if n == nil {
				return fmt.Errorf("registry: loader returned no network for %s", v)
			}
			nets[i] = n
			log.Info().
				Str("model", v.String()).
				Str("path", m.Path).
				Int64("bytes", m.SizeBytes).
				Dur("took", time.Since(start)).
				Msg("model loaded")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, n := range nets {
			if n != nil {
				_ = n.Close()
			}
		}
		log.Error().Err(err).Msg("model load failed")
		return nil, err
	}

	entries := make([]Entry, len(models))
	for i, m := range models {
		entries[i] = Entry{Variant: all[i], Model: m, Net: nets[i]}
	}
	r, err := New(dir, entries)
	if err != nil {
		return nil, err
	}
	log.Info().Int("count", r.Len()).Msg("models loaded")
	return r, nil
}
