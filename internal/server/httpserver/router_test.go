package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yndnr/gridmap-go/internal/core/service"
	"github.com/yndnr/gridmap-go/internal/telemetry/metric"
	"github.com/yndnr/gridmap-go/pkg/chainmap"
)

func newTestRouter(t *testing.T) (*http.ServeMux, *service.KVService) {
	t.Helper()
	table, err := chainmap.New(16)
	if err != nil {
		t.Fatalf("chainmap.New: %v", err)
	}
	t.Cleanup(table.Close)
	svc := service.NewKVService(table, nil, nil)
	return newRouter(svc, metric.NewRegistry()), svc
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	mux, _ := newTestRouter(t)
	rec := doRequest(t, mux, http.MethodGet, "/healthz", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q", body.Status)
	}
}

func TestKeyLifecycle(t *testing.T) {
	mux, _ := newTestRouter(t)

	// Create.
	rec := doRequest(t, mux, http.MethodPut, "/api/v1/keys/7", `{"value":42}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("PUT status = %d, body %s", rec.Code, rec.Body)
	}
	var put putKeyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &put); err != nil {
		t.Fatal(err)
	}
	if put.Existed || put.Previous != nil {
		t.Errorf("fresh PUT: existed=%v previous=%v", put.Existed, put.Previous)
	}

	// Update.
	rec = doRequest(t, mux, http.MethodPut, "/api/v1/keys/7", `{"value":43}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT update status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &put); err != nil {
		t.Fatal(err)
	}
	if !put.Existed || put.Previous == nil || *put.Previous != 42 {
		t.Errorf("update PUT: existed=%v previous=%v", put.Existed, put.Previous)
	}

	// Read.
	rec = doRequest(t, mux, http.MethodGet, "/api/v1/keys/7", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	var got keyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Key != 7 || got.Value != 43 {
		t.Errorf("GET = %+v", got)
	}

	// Delete.
	rec = doRequest(t, mux, http.MethodDelete, "/api/v1/keys/7", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", rec.Code)
	}

	// Gone.
	rec = doRequest(t, mux, http.MethodGet, "/api/v1/keys/7", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "GM-KV-4040") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestNegativeKey(t *testing.T) {
	mux, _ := newTestRouter(t)

	rec := doRequest(t, mux, http.MethodPut, "/api/v1/keys/-5", `{"value":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("PUT status = %d", rec.Code)
	}
	rec = doRequest(t, mux, http.MethodGet, "/api/v1/keys/-5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
}

func TestBadKey(t *testing.T) {
	mux, _ := newTestRouter(t)
	rec := doRequest(t, mux, http.MethodGet, "/api/v1/keys/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "GM-KV-4003") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestBadBody(t *testing.T) {
	mux, _ := newTestRouter(t)
	rec := doRequest(t, mux, http.MethodPut, "/api/v1/keys/1", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestReservedValue(t *testing.T) {
	mux, _ := newTestRouter(t)
	rec := doRequest(t, mux, http.MethodPut, "/api/v1/keys/1", `{"value":9223372036854775807}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "GM-KV-4001") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestStatsEndpoint(t *testing.T) {
	mux, svc := newTestRouter(t)
	if _, _, err := svc.Set(t.Context(), 1, 10); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.Capacity != 16 || stats.Size != 1 || stats.MaxDepth != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.Buckets) != 1 || stats.Buckets[0].Index != 1 || stats.Buckets[0].Depth != 1 {
		t.Errorf("buckets = %+v", stats.Buckets)
	}
}

func TestDumpEndpoint(t *testing.T) {
	mux, svc := newTestRouter(t)
	if _, _, err := svc.Set(t.Context(), 1, 10); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/dump", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "(1,10)") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)
	rec := doRequest(t, mux, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
