package admin

import "net/http"

// GetOnly rejects every method but GET and HEAD.
func GetOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func RegisterRoutes(mux *http.ServeMux, h *Handler) http.Handler {
	// Observability APIs
	mux.HandleFunc("/metrics", GetOnly(h.GetMetrics))
	mux.HandleFunc("/health", GetOnly(h.GetHealth))
	mux.HandleFunc("/stats", GetOnly(h.GetStats))

	// Admin APIs
	mux.HandleFunc("/admin/keys", GetOnly(h.ListKeys))

	// Middlewares
	return Chain(
		mux,
		RecoveryMiddleware(h.logger),
		LoggingMiddleware(h.logger),
	)
}
