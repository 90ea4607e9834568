package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylerd/internal/config"
	"stylerd/internal/registry"
	"stylerd/internal/registry/registrytest"
	"stylerd/internal/style"
	"stylerd/pkg/types"
)

type fakeRuntime struct {
	registry.Loader
	closed bool
}

func (f *fakeRuntime) Close() error {
	f.closed = true
	return nil
}

// withFakes isolates a test from the process environment and the ONNX library.
func withFakes(t *testing.T, env map[string]string) *fakeRuntime {
	t.Helper()
	rt := &fakeRuntime{Loader: registrytest.Loader(nil, nil)}
	oldOpen, oldLookup := fnOpenRuntime, lookupEnv
	fnOpenRuntime = func(config.Config, zerolog.Logger) (inferenceRuntime, error) { return rt, nil }
	lookupEnv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	t.Cleanup(func() { fnOpenRuntime, lookupEnv = oldOpen, oldLookup })
	return rt
}

func modelsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, v := range style.All() {
		require.NoError(t, os.WriteFile(filepath.Join(dir, v.String()+".onnx"), []byte("weights"), 0o644))
	}
	return dir
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := mainWithIO(context.Background(), append(args, "--env-file", ""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestModelsCommandJSON(t *testing.T) {
	withFakes(t, nil)
	dir := modelsDir(t)
	code, out, errOut := run(t, "models", "--models-dir", dir, "--default-model", "udnie", "--json", "--log-level", "off")
	require.Equal(t, 0, code, errOut)

	var resp types.ModelsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Models, len(style.All()))
	for _, m := range resp.Models {
		assert.Equal(t, m.ID == "udnie", m.Default, m.ID)
	}
}

func TestModelsCommandTable(t *testing.T) {
	withFakes(t, nil)
	code, out, _ := run(t, "models", "--models-dir", modelsDir(t), "--log-level", "off")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "rain_princess")
	assert.Contains(t, out, "Rain Princess")
}

func TestModelsCommandMissingWeights(t *testing.T) {
	withFakes(t, nil)
	dir := modelsDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "candy.onnx")))
	code, _, errOut := run(t, "models", "--models-dir", dir, "--log-level", "off")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "candy")
}

func TestCheckCommandLoadsAndCloses(t *testing.T) {
	rt := withFakes(t, nil)
	dir := modelsDir(t)
	code, out, errOut := run(t, "check", "--models-dir", dir, "--log-level", "off")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "ok: 4 models loaded from "+dir)
	assert.True(t, rt.closed)
}

func TestCheckCommandRuntimeFailure(t *testing.T) {
	withFakes(t, nil)
	fnOpenRuntime = func(config.Config, zerolog.Logger) (inferenceRuntime, error) {
		return nil, errors.New("no onnxruntime")
	}
	code, _, errOut := run(t, "check", "--models-dir", modelsDir(t), "--log-level", "off")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "no onnxruntime")
}

func TestEnvAndFlagPrecedence(t *testing.T) {
	withFakes(t, map[string]string{config.EnvDefaultModel: "candy"})
	dir := modelsDir(t)

	code, out, _ := run(t, "models", "--models-dir", dir, "--json", "--log-level", "off")
	require.Equal(t, 0, code)
	var resp types.ModelsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Models[0].Default)
	assert.True(t, resp.Models[1].Default, "env selects candy")

	// explicit flag beats the environment
	_, out, _ = run(t, "models", "--models-dir", dir, "--json", "--default-model", "mosaic", "--log-level", "off")
	resp = types.ModelsResponse{}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Models[0].Default)
	assert.False(t, resp.Models[1].Default)
}

func TestConfigFileIsLoaded(t *testing.T) {
	withFakes(t, nil)
	dir := modelsDir(t)
	cfgPath := filepath.Join(t.TempDir(), "stylerd.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("models_dir: "+dir+"\ndefault_model: rain_princess\nlog_level: off\n"), 0o644))

	code, out, errOut := run(t, "models", "--config", cfgPath, "--json")
	require.Equal(t, 0, code, errOut)
	var resp types.ModelsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Models[2].Default)
}

func TestInvalidConfigFails(t *testing.T) {
	withFakes(t, nil)
	code, _, errOut := run(t, "models", "--models-dir", modelsDir(t), "--default-model", "not_a_real_model")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not_a_real_model")
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	withFakes(t, nil)
	code, _, _ := run(t, "models", "--nope")
	assert.Equal(t, 2, code)
}

func TestDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(p, []byte("STYLERD_TEST_DOTENV=from-file\n"), 0o644))
	t.Setenv("STYLERD_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("STYLERD_TEST_DOTENV"))

	require.NoError(t, loadDotEnv(p))
	assert.Equal(t, "from-file", os.Getenv("STYLERD_TEST_DOTENV"))
	require.NoError(t, loadDotEnv(filepath.Join(dir, "missing.env")))
	require.NoError(t, loadDotEnv(""))
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 8), uint8(y * 8), 100, 255})
		}
	}
	p := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return p
}

func TestStylizeCommandWritesJPEG(t *testing.T) {
	withFakes(t, nil)
	in := writePNG(t, 24, 16)
	code, out, errOut := run(t, "stylize", in, "--model", "candy", "--models-dir", modelsDir(t), "--log-level", "off")
	require.Equal(t, 0, code, errOut)

	want := filepath.Join(filepath.Dir(in), "photo_candy.jpg")
	assert.Contains(t, out, want)
	f, err := os.Open(want)
	require.NoError(t, err)
	defer f.Close()
	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 24, 16), img.Bounds())
}

func TestStylizeCommandRejectsGarbage(t *testing.T) {
	withFakes(t, nil)
	p := filepath.Join(t.TempDir(), "x.png")
	require.NoError(t, os.WriteFile(p, []byte("not an image"), 0o644))
	code, _, errOut := run(t, "stylize", p, "--models-dir", modelsDir(t), "--log-level", "off")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Invalid file type/extension")
}

func TestStylizeCommandEnforcesPixelLimit(t *testing.T) {
	withFakes(t, nil)
	in := writePNG(t, 24, 16)
	code, _, errOut := run(t, "stylize", in, "--max-image-pixels", "100", "--models-dir", modelsDir(t), "--log-level", "off")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Invalid file type/extension")
	_, err := os.Stat(defaultOutputPath(in, style.Default.String()))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "b_udnie.jpg"), defaultOutputPath(filepath.Join("a", "b.tiff"), "udnie"))
	assert.Equal(t, "noext_mosaic.jpg", defaultOutputPath("noext", "mosaic"))
}

func TestServeAnswersAndShutsDown(t *testing.T) {
	rt := withFakes(t, nil)
	addrCh := make(chan net.Addr, 1)
	old := onListening
	onListening = func(a net.Addr) { addrCh <- a }
	t.Cleanup(func() { onListening = old })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan int, 1)
	go func() {
		done <- mainWithIO(ctx, []string{"serve", "--addr", "127.0.0.1:0", "--models-dir", modelsDir(t), "--log-level", "off", "--env-file", ""}, io.Discard, io.Discard)
	}()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}
	resp, err := http.Get("http://" + addr.String() + "/readyz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", string(body))

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(shutdownTimeout + 5*time.Second):
		t.Fatal("serve did not shut down")
	}
	assert.True(t, rt.closed)
}

// lockedBuffer collects log output written from server goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServeLogsRequestsAtConfiguredLevel(t *testing.T) {
	withFakes(t, nil)
	addrCh := make(chan net.Addr, 1)
	old := onListening
	onListening = func(a net.Addr) { addrCh <- a }
	t.Cleanup(func() { onListening = old })

	var stderr lockedBuffer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan int, 1)
	go func() {
		done <- mainWithIO(ctx, []string{"serve", "--addr", "127.0.0.1:0", "--models-dir", modelsDir(t),
			"--log-level", "info", "--log-format", "json", "--env-file", ""}, io.Discard, &stderr)
	}()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	img, err := os.ReadFile(writePNG(t, 8, 8))
	require.NoError(t, err)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = fw.Write(img)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post("http://"+addr.String()+"/model/predict", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(shutdownTimeout + 5*time.Second):
		t.Fatal("serve did not shut down")
	}
	logs := stderr.String()
	assert.True(t, strings.Contains(logs, `"message":"stylize start"`), logs)
	assert.True(t, strings.Contains(logs, `"message":"stylize end"`), logs)
}
