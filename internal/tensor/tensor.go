// Package tensor holds the dense float32 arrays exchanged with style networks.
package tensor

import (
	"fmt"
	"strings"
)

// Tensor is a row-major float32 array with an explicit shape.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// New allocates a zeroed tensor of the given shape.
func New(shape ...int64) (*Tensor, error) {
	n, err := elements(shape)
	if err != nil {
		return nil, err
	}
	return &Tensor{Shape: append([]int64(nil), shape...), Data: make([]float32, n)}, nil
}

// FromData wraps data with shape without copying. The element count must match.
func FromData(shape []int64, data []float32) (*Tensor, error) {
	n, err := elements(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("tensor: shape %s needs %d values, got %d", FormatShape(shape), n, len(data))
	}
	return &Tensor{Shape: append([]int64(nil), shape...), Data: data}, nil
}

// Len returns the number of elements.
func (t *Tensor) Len() int { return len(t.Data) }

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int { return len(t.Shape) }

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		Shape: append([]int64(nil), t.Shape...),
		Data:  append([]float32(nil), t.Data...),
	}
}

// Batch returns a view of element i along the leading dimension. The view
// shares storage with t.
func (t *Tensor) Batch(i int) (*Tensor, error) {
	if t.Rank() < 1 {
		return nil, fmt.Errorf("tensor: batch of scalar")
	}
	if i < 0 || int64(i) >= t.Shape[0] {
		return nil, fmt.Errorf("tensor: batch index %d out of range for shape %s", i, FormatShape(t.Shape))
	}
	stride := 1
	for _, d := range t.Shape[1:] {
		stride *= int(d)
	}
	return &Tensor{
		Shape: append([]int64(nil), t.Shape[1:]...),
		Data:  t.Data[i*stride : (i+1)*stride],
	}, nil
}

// String renders the shape, e.g. "tensor[1x3x256x256]".
func (t *Tensor) String() string { return "tensor" + FormatShape(t.Shape) }

// FormatShape renders a shape as "[d0xd1x...]".
func FormatShape(shape []int64) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = fmt.Sprint(d)
	}
	return "[" + strings.Join(parts, "x") + "]"
}

func elements(shape []int64) (int, error) {
	if len(shape) == 0 {
		return 0, fmt.Errorf("tensor: empty shape")
	}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return 0, fmt.Errorf("tensor: invalid dimension in shape %s", FormatShape(shape))
		}
		n *= int(d)
	}
	return n, nil
}
