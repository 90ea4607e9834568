// Package registrytest provides in-memory networks for tests that need a
// populated registry without the ONNX runtime.
package registrytest

import (
	"context"
	"sync"
	"sync/atomic"

	"stylerd/internal/registry"
	"stylerd/internal/style"
	"stylerd/internal/tensor"
)

// ForwardFunc computes a network output.
type ForwardFunc func(ctx context.Context, in *tensor.Tensor) (*tensor.Tensor, error)

// Net is a fake registry.Network that counts calls.
type Net struct {
	Fn     ForwardFunc
	calls  atomic.Int64
	closed atomic.Bool
}

func (n *Net) Forward(ctx context.Context, in *tensor.Tensor) (*tensor.Tensor, error) {
	n.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n.Fn == nil {
		return in.Clone(), nil
	}
	return n.Fn(ctx, in)
}

func (n *Net) Close() error {
	n.closed.Store(true)
	return nil
}

// Calls returns how many times Forward ran.
func (n *Net) Calls() int64 { return n.calls.Load() }

// Closed reports whether Close ran.
func (n *Net) Closed() bool { return n.closed.Load() }

// Shift returns a forward pass that adds delta to every value.
func Shift(delta float32) ForwardFunc {
	return func(_ context.Context, in *tensor.Tensor) (*tensor.Tensor, error) {
		out := in.Clone()
		for i := range out.Data {
			out.Data[i] += delta
		}
		return out, nil
	}
}

// Nets holds the fake network behind each variant.
type Nets map[style.Variant]*Net

// New builds a complete registry. fn picks the forward pass per variant; a
// nil fn gives every variant a distinct Shift so outputs differ by model.
func New(fn func(style.Variant) ForwardFunc) (*registry.Registry, Nets) {
	if fn == nil {
		fn = func(v style.Variant) ForwardFunc { return Shift(float32(v) * 16) }
	}
	nets := Nets{}
	var entries []registry.Entry
	for _, v := range style.All() {
		n := &Net{Fn: fn(v)}
		nets[v] = n
		entries = append(entries, registry.Entry{Variant: v, Net: n})
	}
	r, err := registry.New("memory", entries)
	if err != nil {
		panic(err)
	}
	return r, nets
}

// Loader returns a registry.Loader that hands out fake networks and records
// which paths it was asked to load.
func Loader(fn func(style.Variant) ForwardFunc, paths *[]string) registry.Loader {
	var mu sync.Mutex
	return registry.LoaderFunc(func(_ context.Context, v style.Variant, path string) (registry.Network, error) {
		if paths != nil {
			mu.Lock()
			*paths = append(*paths, path)
			mu.Unlock()
		}
		n := &Net{}
		if fn != nil {
			n.Fn = fn(v)
		}
		return n, nil
	})
}
