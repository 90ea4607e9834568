package onnx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylerd/internal/style"
	"stylerd/internal/tensor"
)

// The fixtures under testdata are rebuilt by testdata/gen_fixtures.py.
// The environment is process-wide, so every case shares one Init and Close.
func TestRuntimeRunsGraphs(t *testing.T) {
	if LocateSharedLibrary("") == "" {
		t.Skipf("onnxruntime shared library not found; set %s", EnvLibraryPath)
	}
	rt, err := Init(Config{IntraOpThreads: 1, Logger: zerolog.Nop()})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("forward keeps a non-square shape", func(t *testing.T) {
		net, err := rt.Load(ctx, style.Candy, filepath.Join("testdata", "add_one.onnx"))
		require.NoError(t, err)
		defer net.Close()

		in, err := tensor.New(1, 3, 5, 7)
		require.NoError(t, err)
		for i := range in.Data {
			in.Data[i] = float32(i)
		}
		out, err := net.Forward(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 3, 5, 7}, out.Shape)
		require.Len(t, out.Data, len(in.Data))
		for i, v := range out.Data {
			if v != float32(i)+1 {
				t.Fatalf("out[%d] = %v, want %v", i, v, float32(i)+1)
			}
		}
	})

	t.Run("forward after close", func(t *testing.T) {
		net, err := rt.Load(ctx, style.Mosaic, filepath.Join("testdata", "add_one.onnx"))
		require.NoError(t, err)
		require.NoError(t, net.Close())
		require.NoError(t, net.Close())

		in, err := tensor.New(1, 3, 2, 2)
		require.NoError(t, err)
		_, err = net.Forward(ctx, in)
		assert.ErrorIs(t, err, errSessionClosed)
	})

	t.Run("rejects fixed spatial size", func(t *testing.T) {
		_, err := rt.Load(ctx, style.Udnie, filepath.Join("testdata", "fixed_256.onnx"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fixed spatial size")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := rt.Load(ctx, style.Udnie, filepath.Join("testdata", "missing.onnx"))
		assert.Error(t, err)
	})

	require.NoError(t, rt.Close())
	_, err = rt.Load(ctx, style.Candy, filepath.Join("testdata", "add_one.onnx"))
	assert.ErrorContains(t, err, "runtime closed")
}
