package onnx

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"stylerd/internal/tensor"
)

var errSessionClosed = errors.New("onnx: session closed")

// session wraps one loaded graph. ONNX Runtime allows concurrent Run calls on
// a session; the lock only guards against Run racing Destroy.
type session struct {
	name string

	mu     sync.RWMutex
	s      *ort.DynamicAdvancedSession
	closed bool
}

func (s *session) Forward(ctx context.Context, in *tensor.Tensor) (*tensor.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in == nil || in.Rank() != 4 || in.Shape[1] != 3 {
		return nil, fmt.Errorf("onnx: %s: input must be [N,3,H,W], got %v", s.name, in)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errSessionClosed
	}

	input, err := ort.NewTensor(ort.NewShape(in.Shape...), in.Data)
	if err != nil {
		return nil, fmt.Errorf("onnx: %s: input tensor: %w", s.name, err)
	}
	defer input.Destroy()

	// a nil output is allocated by the runtime to whatever shape the graph yields
	outputs := []ort.Value{nil}
	if err := s.s.Run([]ort.Value{input}, outputs); err != nil {
		return nil, fmt.Errorf("onnx: %s: run: %w", s.name, err)
	}
	if outputs[0] == nil {
		return nil, fmt.Errorf("onnx: %s: no output produced", s.name)
	}
	defer outputs[0].Destroy()

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("onnx: %s: output is %T, want float32 tensor", s.name, outputs[0])
	}
	shape := append([]int64(nil), out.GetShape()...)
	data := append([]float32(nil), out.GetData()...)
	return tensor.FromData(shape, data)
}

func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.s.Destroy(); err != nil {
		return fmt.Errorf("onnx: %s: destroy session: %w", s.name, err)
	}
	return nil
}
