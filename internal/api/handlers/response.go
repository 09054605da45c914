package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wonny/quantumedge/internal/dashboard"
	"github.com/wonny/quantumedge/internal/settings"
)

// maxRequestBytes bounds request bodies; every payload here is a few fields
const maxRequestBytes = 1 << 16

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrAnalysisInFlight):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrAnalysisFailed):
		return http.StatusBadGateway
	case errors.Is(err, dashboard.ErrCandidateNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrNoResults):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrInvalidViewMode),
		errors.Is(err, settings.ErrInvalidWeight),
		errors.Is(err, settings.ErrUnknownCriterion):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondDomainError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}
