package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func scrape(t *testing.T) []byte {
	t.Helper()
	w := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", w.Code)
	}
	return w.Body.Bytes()
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status=%d", rr.Code)
	}
	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/items/{id}", http.MethodGet, "202"))
	if got < 1 {
		t.Fatalf("requests_total for route pattern=%v", got)
	}
	if bytes.Contains(scrape(t), []byte("/items/42")) {
		t.Fatal("raw path leaked into labels")
	}
}

func TestMetricsMiddleware_UnmatchedPathsShareOneLabel(t *testing.T) {
	r := NewMux(&mockService{})
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(unmatchedRoute, http.MethodGet, "404"))
	for _, p := range []string{"/no-such-route-a1", "/no-such-route-b2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s status=%d", p, w.Code)
		}
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(unmatchedRoute, http.MethodGet, "404"))
	if after != before+2 {
		t.Fatalf("unmatched before=%v after=%v", before, after)
	}
	if bytes.Contains(scrape(t), []byte("no-such-route")) {
		t.Fatal("raw path leaked into labels")
	}
}

func TestMetricsEndpointExposesFamilies(t *testing.T) {
	r := NewMux(&mockService{})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	IncrementBackpressure("")
	body := scrape(t)
	for _, name := range []string{"stylerd_http_requests_total", "stylerd_http_request_duration_seconds", "stylerd_http_inflight_requests", "stylerd_http_backpressure_total"} {
		if !bytes.Contains(body, []byte(name)) {
			t.Fatalf("missing %s", name)
		}
	}
	if !bytes.Contains(body, []byte(`reason="unspecified"`)) {
		t.Fatal("empty reason should map to unspecified")
	}
}

func TestBackpressureCountedOn429(t *testing.T) {
	before := testutil.ToFloat64(backpressureTotal.WithLabelValues("admission"))
	r := NewMux(&mockService{err: errTooBusyForTest})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, []byte("img"), ""))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d", w.Code)
	}
	if after := testutil.ToFloat64(backpressureTotal.WithLabelValues("admission")); after != before+1 {
		t.Fatalf("backpressure before=%v after=%v", before, after)
	}
}
