package admin

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"memocache/internal/health"
	"memocache/internal/logs"
	"memocache/internal/metrics"
	"memocache/internal/store"
)

// Handler holds dependencies for the read-only observability handlers.
// It never exposes cached values.
type Handler struct {
	store    *store.Store
	metrics  *metrics.Registry
	analyzer *health.Analyzer
	logger   *logs.Logger
	prom     http.Handler
}

// NewHandler creates a new admin handler.
func NewHandler(
	store *store.Store,
	reg *metrics.Registry,
	logger *logs.Logger,
) (*Handler, error) {
	promReg := prometheus.NewRegistry()
	if err := promReg.Register(metrics.NewCollector(reg)); err != nil {
		return nil, err
	}

	return &Handler{
		store:    store,
		metrics:  reg,
		analyzer: health.NewAnalyzer(reg, logger),
		logger:   logger,
		prom:     promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}),
	}, nil
}

/* ---------------- GET /metrics ---------------- */

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.prom.ServeHTTP(w, r)
}

/* ---------------- GET /health ---------------- */

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	report := h.analyzer.Analyze()

	w.Header().Set("Content-Type", "application/json")
	if report.OverallStatus == health.StatusCritical {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(report)
}

/* ---------------- GET /stats ---------------- */

type statsResponse struct {
	Entries  int              `json:"entries"`
	Counters map[string]int64 `json:"counters"`
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statsResponse{
		Entries:  h.store.Len(),
		Counters: h.metrics.Snapshot(),
	})
}

/* ---------------- GET /admin/keys ---------------- */

type keyInfo struct {
	Key       string     `json:"key"`
	Type      string     `json:"type"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ListKeys lists live keys with the type they were stored as.
func (h *Handler) ListKeys(w http.ResponseWriter, r *http.Request) {
	entries := h.store.List()

	resp := make([]keyInfo, 0, len(entries))
	for k, e := range entries {
		info := keyInfo{Key: k, Type: e.Type().String()}
		if !e.ExpiresAt.IsZero() {
			expiresAt := e.ExpiresAt
			info.ExpiresAt = &expiresAt
		}
		resp = append(resp, info)
	}
	sort.Slice(resp, func(i, j int) bool { return resp[i].Key < resp[j].Key })

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
