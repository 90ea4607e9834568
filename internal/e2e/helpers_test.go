package e2e

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"stylerd/internal/httpapi"
	"stylerd/internal/registry"
	"stylerd/internal/registry/registrytest"
	"stylerd/internal/style"
	"stylerd/internal/stylize"
)

// createTempModelsDir writes a placeholder weights file for every variant.
func createTempModelsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, v := range style.All() {
		p := filepath.Join(dir, v.String()+registry.DefaultExt)
		if err := os.WriteFile(p, []byte("onnx"), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", p, err)
		}
	}
	return dir
}

// newServerForDir loads the registry from dir through the fake loader.
func newServerForDir(t *testing.T, modelsDir string) (*httptest.Server, *stylize.Service) {
	t.Helper()
	reg, err := registry.Load(context.Background(), registry.Options{
		Dir:    modelsDir,
		Loader: registrytest.Loader(func(v style.Variant) registrytest.ForwardFunc { return registrytest.Shift(float32(v) * 16) }, nil),
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("load models: %v", err)
	}
	t.Cleanup(func() { _ = reg.Close() })
	return newServerWithConfig(t, stylize.Config{Registry: reg})
}

func newServerWithConfig(t *testing.T, cfg stylize.Config) (*httptest.Server, *stylize.Service) {
	t.Helper()
	svc := stylize.NewWithConfig(cfg)
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return srv, svc
}

func newMemoryServer(t *testing.T) (*httptest.Server, registrytest.Nets) {
	t.Helper()
	reg, nets := registrytest.New(nil)
	srv, _ := newServerWithConfig(t, stylize.Config{Registry: reg})
	return srv, nets
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, b
}

// postImage uploads img to /model/predict. An empty model omits the field.
func postImage(t *testing.T, baseURL string, img []byte, model string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "upload")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write(img)
	if model != "" {
		_ = mw.WriteField("model", model)
	}
	_ = mw.Close()
	resp, err := http.Post(baseURL+"/model/predict", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST predict: %v", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, b
}

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), uint8((x + y) / 2), 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("response is not a JPEG: %v", err)
	}
	return img
}
