// Package registry holds the style networks loaded at startup.
//
// A Registry is built once, before the server accepts requests, and is never
// mutated afterwards. It is therefore shared by reference across request
// handlers without locking.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"stylerd/internal/style"
	"stylerd/internal/tensor"
	"stylerd/pkg/types"
)

// Network is a loaded style network. Forward must be safe for concurrent use
// because parameters are read-only after load.
type Network interface {
	Forward(ctx context.Context, in *tensor.Tensor) (*tensor.Tensor, error)
	Close() error
}

// Entry binds a variant to its loaded network.
type Entry struct {
	Variant style.Variant
	Model   types.Model
	Net     Network
}

// Registry maps every known variant to its network.
type Registry struct {
	dir       string
	order     []style.Variant
	entries   map[style.Variant]Entry
	closeOnce sync.Once
	closeErr  error
}

// New builds a registry from already-loaded networks. Every variant in
// style.All must be present exactly once.
func New(dir string, entries []Entry) (*Registry, error) {
	r := &Registry{dir: dir, entries: make(map[style.Variant]Entry, len(entries))}
	for _, e := range entries {
		if !e.Variant.Valid() {
			return nil, fmt.Errorf("registry: invalid variant %d", e.Variant)
		}
		if e.Net == nil {
			return nil, fmt.Errorf("registry: %s has no network", e.Variant)
		}
		if _, dup := r.entries[e.Variant]; dup {
			return nil, fmt.Errorf("registry: duplicate entry for %s", e.Variant)
		}
		if e.Model.ID == "" {
			e.Model.ID = e.Variant.String()
		}
		if e.Model.Name == "" {
			e.Model.Name = e.Variant.Title()
		}
		r.entries[e.Variant] = e
	}
	for _, v := range style.All() {
		if _, ok := r.entries[v]; !ok {
			return nil, fmt.Errorf("registry: missing entry for %s", v)
		}
		r.order = append(r.order, v)
	}
	return r, nil
}

// Lookup returns the network for v. It never substitutes another variant.
func (r *Registry) Lookup(v style.Variant) (Network, error) {
	e, ok := r.entries[v]
	if !ok {
		return nil, style.UnknownError{Name: v.String()}
	}
	return e.Net, nil
}

// LookupName parses name and returns the matching variant and network.
func (r *Registry) LookupName(name string) (style.Variant, Network, error) {
	v, err := style.Parse(name)
	if err != nil {
		return 0, nil, err
	}
	n, err := r.Lookup(v)
	if err != nil {
		return 0, nil, err
	}
	return v, n, nil
}

// Len returns the number of loaded variants.
func (r *Registry) Len() int { return len(r.entries) }

// Dir returns the directory weights were loaded from.
func (r *Registry) Dir() string { return r.dir }

// Variants returns the loaded variants in load order.
func (r *Registry) Variants() []style.Variant {
	return append([]style.Variant(nil), r.order...)
}

// Models returns descriptors for every loaded variant in load order.
func (r *Registry) Models() []types.Model {
	out := make([]types.Model, 0, len(r.order))
	for _, v := range r.order {
		out = append(out, r.entries[v].Model)
	}
	return out
}

// Close releases every network. Subsequent calls return the first result.
func (r *Registry) Close() error {
	r.closeOnce.Do(func() {
		var errs []error
		for _, v := range r.order {
			if err := r.entries[v].Net.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", v, err))
			}
		}
		r.closeErr = errors.Join(errs...)
	})
	return r.closeErr
}
