package stylize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"stylerd/internal/imaging"
	"stylerd/internal/registry"
	"stylerd/internal/style"
	"stylerd/internal/tensor"
)

// Request is one stylize call: the uploaded bytes and the model selector.
type Request struct {
	Image []byte
	// Model is a variant name; empty selects the service default.
	Model string
}

// Input is the preprocessed form of a Request.
type Input struct {
	Tensor  *tensor.Tensor
	Variant style.Variant
	// Format is the decoder that accepted the upload, e.g. "png".
	Format string
}

// Result is an encoded stylized image.
type Result struct {
	Body   *bytes.Reader
	Model  style.Variant
	Width  int
	Height int
	// Format is the decoded input format.
	Format string
}

// ContentType of Result.Body.
const ContentType = "image/jpeg"

// Resolve maps a request selector to a variant. An empty selector picks the
// default; anything else must name a known variant.
func (s *Service) Resolve(name string) (style.Variant, error) {
	if strings.TrimSpace(name) == "" {
		return s.defaultModel, nil
	}
	return style.Parse(name)
}

// Preprocess resolves the model and converts the upload to a normalized tensor.
func (s *Service) Preprocess(req Request) (*Input, error) {
	v, err := s.Resolve(req.Model)
	if err != nil {
		return nil, err
	}
	return s.preprocess(v, req.Image)
}

func (s *Service) preprocess(v style.Variant, raw []byte) (*Input, error) {
	img, format, err := imaging.Decode(raw, s.maxPixels)
	if err != nil {
		return nil, invalidImageError{err: err}
	}
	rgb := imaging.Fit(imaging.ToRGB(img), s.maxImageDim)
	return &Input{Tensor: imaging.ToTensor(rgb), Variant: v, Format: format}, nil
}

// Infer runs the variant's network on in and converts the first output
// element back to pixels.
func (s *Service) Infer(ctx context.Context, in *Input) (*image.RGBA, error) {
	if s.reg == nil {
		return nil, ErrDependencyUnavailable("style models not loaded")
	}
	net, err := s.reg.Lookup(in.Variant)
	if err != nil {
		return nil, err
	}
	release, err := s.acquire(ctx, in.Variant)
	if err != nil {
		return nil, err
	}
	out, err := s.forward(ctx, net, in.Tensor, release)
	if err != nil {
		return nil, fmt.Errorf("stylize: %s forward: %w", in.Variant, err)
	}
	return imaging.FromTensor(out)
}

// forward runs the network off the request goroutine so a cancelled or
// expired context returns promptly. The slot is held until the pass ends.
func (s *Service) forward(ctx context.Context, net registry.Network, in *tensor.Tensor, release func()) (*tensor.Tensor, error) {
	type result struct {
		t   *tensor.Tensor
		err error
	}
	done := make(chan result, 1)
	s.inflight.Add(1)
	inferenceInflight.Inc()
	go func() {
		t, err := net.Forward(ctx, in)
		s.inflight.Add(-1)
		inferenceInflight.Dec()
		release()
		done <- result{t: t, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return r.t, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Postprocess encodes img as JPEG.
func (s *Service) Postprocess(img image.Image) (*bytes.Reader, error) {
	return imaging.EncodeJPEG(img, s.jpegQuality)
}

// Stylize runs the whole pipeline for req.
func (s *Service) Stylize(ctx context.Context, req Request) (res *Result, err error) {
	s.requests.Add(1)
	start := time.Now()

	v, err := s.Resolve(req.Model)
	if err != nil {
		s.failures.Add(1)
		observeUnresolved(err)
		s.pub.Publish(Event{Name: EventError, ModelID: req.Model, Fields: map[string]any{"stage": "resolve", "error": err.Error()}})
		return nil, err
	}
	c := s.counters[v]
	c.requests.Add(1)
	c.lastUsed.Store(start.Unix())
	s.pub.Publish(Event{Name: EventStart, ModelID: v.String(), Fields: map[string]any{"bytes": len(req.Image)}})

	stage := "preprocess"
	defer func() {
		took := time.Since(start)
		observeInference(v, err, took)
		if err != nil {
			s.failures.Add(1)
			c.failures.Add(1)
			s.pub.Publish(Event{Name: EventError, ModelID: v.String(), Fields: map[string]any{"stage": stage, "error": err.Error()}})
			return
		}
		s.pub.Publish(Event{Name: EventDone, ModelID: v.String(), Fields: map[string]any{
			"width": res.Width, "height": res.Height, "format": res.Format, "duration_ms": took.Milliseconds(),
		}})
	}()

	in, err := s.preprocess(v, req.Image)
	if err != nil {
		return nil, err
	}
	stage = "infer"
	img, err := s.Infer(ctx, in)
	if err != nil {
		return nil, err
	}
	stage = "postprocess"
	body, err := s.Postprocess(img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &Result{Body: body, Model: v, Width: b.Dx(), Height: b.Dy(), Format: in.Format}, nil
}
