package onnx

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"stylerd/internal/tensor"
)

// ioSpec is the subset of a graph input/output description the loader checks.
type ioSpec struct {
	Name  string
	Float bool // float32 tensor
	Dims  []int64
}

func specsOf(infos []ort.InputOutputInfo) []ioSpec {
	out := make([]ioSpec, len(infos))
	for i, info := range infos {
		out[i] = ioSpec{
			Name:  info.Name,
			Float: info.OrtValueType == ort.ONNXTypeTensor && info.DataType == ort.TensorElementDataTypeFloat,
			Dims:  []int64(info.Dimensions),
		}
	}
	return out
}

// checkSignature accepts graphs with one float NCHW input and one float NCHW
// output, both with three channels, batch 1 and symbolic height and width.
// Symbolic dimensions (<= 0) match anything. Graphs exported with a fixed
// spatial size are rejected at load since arbitrary uploads would fail at Run.
func checkSignature(inputs, outputs []ioSpec) (in, out string, err error) {
	if len(inputs) != 1 || len(outputs) != 1 {
		return "", "", fmt.Errorf("expected 1 input and 1 output, graph has %d and %d", len(inputs), len(outputs))
	}
	for _, s := range []struct {
		kind string
		io   ioSpec
	}{{"input", inputs[0]}, {"output", outputs[0]}} {
		if !s.io.Float {
			return "", "", fmt.Errorf("%s %q is not a float32 tensor", s.kind, s.io.Name)
		}
		if len(s.io.Dims) != 4 {
			return "", "", fmt.Errorf("%s %q has shape %s, want NCHW", s.kind, s.io.Name, tensor.FormatShape(s.io.Dims))
		}
		if n := s.io.Dims[0]; n > 1 {
			return "", "", fmt.Errorf("%s %q has batch size %d, want 1", s.kind, s.io.Name, n)
		}
		if c := s.io.Dims[1]; c > 0 && c != 3 {
			return "", "", fmt.Errorf("%s %q has %d channels, want 3", s.kind, s.io.Name, c)
		}
		if h, w := s.io.Dims[2], s.io.Dims[3]; h > 0 || w > 0 {
			return "", "", fmt.Errorf("%s %q has fixed spatial size %s, export with dynamic height and width", s.kind, s.io.Name, tensor.FormatShape(s.io.Dims))
		}
	}
	return inputs[0].Name, outputs[0].Name, nil
}
