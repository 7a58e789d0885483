package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/yndnr/gridmap-go/internal/core/domain"
	"github.com/yndnr/gridmap-go/internal/core/service"
	"github.com/yndnr/gridmap-go/internal/infra/buildinfo"
	"github.com/yndnr/gridmap-go/internal/telemetry/metric"
)

func newRouter(svc *service.KVService, metrics *metric.Registry) *http.ServeMux {
	h := &apiHandler{svc: svc}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("GET /api/v1/stats", h.stats)
	mux.HandleFunc("GET /api/v1/dump", h.dump)
	mux.HandleFunc("GET /api/v1/keys/{key}", h.getKey)
	mux.HandleFunc("PUT /api/v1/keys/{key}", h.putKey)
	mux.HandleFunc("DELETE /api/v1/keys/{key}", h.deleteKey)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}
	return mux
}

type apiHandler struct {
	svc *service.KVService
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

type statsResponse struct {
	Capacity   int     `json:"capacity"`
	Size       int     `json:"size"`
	Ops        uint64  `json:"ops"`
	MaxDepth   int     `json:"max_depth"`
	LoadFactor float64 `json:"load_factor"`

	// Buckets lists occupied buckets only, so the response stays small
	// for large sparse tables.
	Buckets []bucketStat `json:"buckets"`
}

type bucketStat struct {
	Index int `json:"index"`
	Depth int `json:"depth"`
}

type keyResponse struct {
	Key   int64 `json:"key"`
	Value int64 `json:"value"`
}

type putKeyRequest struct {
	Value int64 `json:"value"`
}

type putKeyResponse struct {
	Key      int64  `json:"key"`
	Value    int64  `json:"value"`
	Existed  bool   `json:"existed"`
	Previous *int64 `json:"previous,omitempty"`
}

func (h *apiHandler) health(w http.ResponseWriter, _ *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: info.Version,
		Commit:  info.Commit,
	})
}

func (h *apiHandler) stats(w http.ResponseWriter, _ *http.Request) {
	maxDepth := 0
	occupied := []bucketStat{}
	for _, b := range h.svc.Stats() {
		if b.Depth > maxDepth {
			maxDepth = b.Depth
		}
		if b.Depth > 0 {
			occupied = append(occupied, bucketStat{Index: b.Index, Depth: b.Depth})
		}
	}
	capacity := h.svc.Capacity()
	size := h.svc.Size()

	writeJSON(w, http.StatusOK, statsResponse{
		Capacity:   capacity,
		Size:       size,
		Ops:        h.svc.OpCount(),
		MaxDepth:   maxDepth,
		LoadFactor: float64(size) / float64(capacity),
		Buckets:    occupied,
	})
}

func (h *apiHandler) dump(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_ = h.svc.Dump(w)
}

func (h *apiHandler) getKey(w http.ResponseWriter, r *http.Request) {
	key, ok := parseKey(w, r)
	if !ok {
		return
	}

	v, err := h.svc.Get(r.Context(), key)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, keyResponse{Key: key, Value: v})
}

func (h *apiHandler) putKey(w http.ResponseWriter, r *http.Request) {
	key, ok := parseKey(w, r)
	if !ok {
		return
	}

	var body putKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, domain.ErrNotInteger.Code, "invalid JSON body")
		return
	}

	prev, existed, err := h.svc.Set(r.Context(), key, body.Value)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := putKeyResponse{Key: key, Value: body.Value, Existed: existed}
	if existed {
		resp.Previous = &prev
	}
	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (h *apiHandler) deleteKey(w http.ResponseWriter, r *http.Request) {
	key, ok := parseKey(w, r)
	if !ok {
		return
	}

	v, err := h.svc.Del(r.Context(), key)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, keyResponse{Key: key, Value: v})
}

func parseKey(w http.ResponseWriter, r *http.Request) (int64, bool) {
	key, err := strconv.ParseInt(r.PathValue("key"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.ErrNotInteger.Code, domain.ErrNotInteger.Message)
		return 0, false
	}
	return key, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

func writeDomainError(w http.ResponseWriter, err error) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		writeError(w, http.StatusInternalServerError, "GM-SYS-5000", "internal error")
		return
	}
	writeError(w, statusForCode(de.Code), de.Code, de.Message)
}

// statusForCode maps the domain taxonomy onto HTTP statuses. Codes embed
// the intended status class in their numeric suffix.
func statusForCode(code string) int {
	switch code {
	case domain.ErrKeyNotFound.Code:
		return http.StatusNotFound
	case domain.ErrInvalidCapacity.Code, domain.ErrReservedValue.Code, domain.ErrNotInteger.Code:
		return http.StatusBadRequest
	case domain.ErrRateLimited.Code:
		return http.StatusTooManyRequests
	case domain.ErrStoreClosed.Code:
		return http.StatusServiceUnavailable
	case domain.ErrInvalidCredentials.Code:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
