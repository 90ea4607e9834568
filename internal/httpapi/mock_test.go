package httpapi

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"stylerd/internal/style"
	"stylerd/internal/stylize"
	"stylerd/pkg/types"
)

type mockService struct {
	mu       sync.Mutex
	models   []types.Model
	status   types.StatusResponse
	meta     types.Metadata
	ready    bool
	err      error
	out      []byte
	block    bool
	requests []stylize.Request
}

func (m *mockService) ListModels() []types.Model    { return append([]types.Model(nil), m.models...) }
func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Metadata() types.Metadata     { return m.meta }
func (m *mockService) Ready() bool                  { return m.ready }
func (m *mockService) calls() []stylize.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]stylize.Request(nil), m.requests...)
}

func (m *mockService) Stylize(ctx context.Context, req stylize.Request) (*stylize.Result, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	v, err := style.Parse(req.Model)
	if req.Model == "" {
		v, err = style.Default, nil
	}
	if err != nil {
		return nil, err
	}
	return &stylize.Result{Body: bytes.NewReader(m.out), Model: v, Width: 4, Height: 3, Format: "png"}, nil
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

// uploadRequest builds a multipart predict request. An empty model omits the field.
func uploadRequest(t *testing.T, img []byte, model string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if img != nil {
		fw, err := mw.CreateFormFile("image", "in.png")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = fw.Write(img)
	}
	if model != "" {
		if err := mw.WriteField("model", model); err != nil {
			t.Fatalf("field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/model/predict", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var errTooBusyForTest = stylize.ErrTooBusy("mosaic")
