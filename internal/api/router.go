package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/quantumedge/internal/api/handlers"
	"github.com/wonny/quantumedge/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: every route is registered in this function
func NewRouter(dashboardHandler *handlers.DashboardHandler, presetHandler *handlers.PresetHandler, streamHandler *handlers.StreamHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Snapshot stream
	r.HandleFunc("/ws", streamHandler.HandleWebSocket).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// State
	api.HandleFunc("/state", dashboardHandler.GetState).Methods("GET")
	api.HandleFunc("/advice", dashboardHandler.GetAdvice).Methods("GET")

	// Configuration
	api.HandleFunc("/config/capital", dashboardHandler.SetCapital).Methods("PUT")
	api.HandleFunc("/config/weights/reset", dashboardHandler.ResetWeights).Methods("POST")
	api.HandleFunc("/config/weights/{key}", dashboardHandler.SetWeight).Methods("PUT")
	api.HandleFunc("/presets", presetHandler.ListPresets).Methods("GET")
	api.HandleFunc("/presets/{id}", presetHandler.ApplyPreset).Methods("POST")

	// Analysis
	api.HandleFunc("/analysis", dashboardHandler.RunAnalysis).Methods("POST")

	// Presentation
	api.HandleFunc("/view", dashboardHandler.SetView).Methods("PUT")
	api.HandleFunc("/view/toggle", dashboardHandler.ToggleView).Methods("POST")
	api.HandleFunc("/view/portfolio", dashboardHandler.GetPortfolio).Methods("GET")
	api.HandleFunc("/view/market", dashboardHandler.GetMarket).Methods("GET")
	api.HandleFunc("/selection", dashboardHandler.GetSelection).Methods("GET")
	api.HandleFunc("/selection", dashboardHandler.CloseSelection).Methods("DELETE")
	api.HandleFunc("/selection/{id}", dashboardHandler.Select).Methods("POST")
	api.HandleFunc("/notice", dashboardHandler.DismissNotice).Methods("DELETE")

	// Report
	api.HandleFunc("/report", dashboardHandler.GetReport).Methods("GET")
	api.HandleFunc("/report.txt", dashboardHandler.GetReportText).Methods("GET")
	api.HandleFunc("/report.pdf", dashboardHandler.GetReportPDF).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "quantumedge-api",
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController and the WebSocket upgrader reach the hijacker
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The upgrader needs the raw writer
			if r.URL.Path == "/ws" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			// Call next handler
			next.ServeHTTP(rec, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
