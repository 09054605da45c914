package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/quantumedge/internal/advisory"
	"github.com/wonny/quantumedge/internal/dashboard"
	"github.com/wonny/quantumedge/internal/format"
	"github.com/wonny/quantumedge/internal/report"
	"github.com/wonny/quantumedge/internal/settings"
	"github.com/wonny/quantumedge/pkg/logger"
)

// ReportRenderer renders the print projection as a PDF
type ReportRenderer interface {
	PDF(rep dashboard.Report) ([]byte, error)
}

// DashboardHandler exposes the dashboard store over HTTP
// ⭐ SSOT: dashboard API handlers live in this struct only
type DashboardHandler struct {
	store       *dashboard.Store
	reports     ReportRenderer
	reportTitle string
	logger      *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(store *dashboard.Store, reports ReportRenderer, reportTitle string, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		store:       store,
		reports:     reports,
		reportTitle: reportTitle,
		logger:      log,
	}
}

// GetState returns the full snapshot
// GET /api/state
func (h *DashboardHandler) GetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}

// AdviceResponse is the advisory for an arbitrary capital text
type AdviceResponse struct {
	Capital     int64           `json:"capital"`
	CapitalText string          `json:"capital_text"`
	Advice      advisory.Advice `json:"advice"`
}

// GetAdvice classifies ?capital= without touching the store
// GET /api/advice?capital=1.500.000
func (h *DashboardHandler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	capital := h.store.Config().Capital
	if raw, ok := r.URL.Query()["capital"]; ok && len(raw) > 0 {
		capital = settings.ParseCapital(raw[0])
	}

	respondJSON(w, http.StatusOK, AdviceResponse{
		Capital:     capital,
		CapitalText: format.Capital(capital),
		Advice:      advisory.Classify(capital),
	})
}

// CapitalRequest carries either the raw text of the input field or a number
type CapitalRequest struct {
	Text  *string `json:"text,omitempty"`
	Value *int64  `json:"value,omitempty"`
}

// SetCapital stores the capital
// PUT /api/config/capital
func (h *DashboardHandler) SetCapital(w http.ResponseWriter, r *http.Request) {
	var req CapitalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var capital int64
	switch {
	case req.Text != nil:
		capital = h.store.SetCapitalText(*req.Text)
	case req.Value != nil:
		capital = h.store.SetCapital(*req.Value)
	default:
		respondError(w, http.StatusBadRequest, "either 'text' or 'value' is required")
		return
	}

	respondJSON(w, http.StatusOK, AdviceResponse{
		Capital:     capital,
		CapitalText: format.Capital(capital),
		Advice:      advisory.Classify(capital),
	})
}

// WeightRequest is the new value of one criterion
type WeightRequest struct {
	Value *int `json:"value"`
}

// SetWeight changes one criterion weight
// PUT /api/config/weights/{key}
func (h *DashboardHandler) SetWeight(w http.ResponseWriter, r *http.Request) {
	criterion, err := settings.ParseCriterion(mux.Vars(r)["key"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var req WeightRequest
	if err := decodeJSON(r, &req); err != nil || req.Value == nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.store.SetWeight(criterion, *req.Value); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.store.Config().Weights)
}

// ResetWeights restores the preset strategy
// POST /api/config/weights/reset
func (h *DashboardHandler) ResetWeights(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.ResetWeights())
}

// RunAnalysis triggers one analysis and waits for it to settle
// POST /api/analysis
func (h *DashboardHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if _, err := h.store.RunAnalysis(r.Context()); err != nil {
		status := statusFor(err)
		if status == http.StatusBadGateway {
			respondJSON(w, status, map[string]string{
				"error":  dashboard.FailureMessage,
				"detail": err.Error(),
			})
			return
		}
		respondDomainError(w, err)
		return
	}

	h.logger.WithField("duration", time.Since(start)).Debug("Analysis request served")
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}

// ViewRequest selects a view mode
type ViewRequest struct {
	Mode string `json:"mode"`
}

// SetView switches the view mode
// PUT /api/view
func (h *DashboardHandler) SetView(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mode, err := dashboard.ParseViewMode(req.Mode)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if err := h.store.SetViewMode(mode); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.store.Snapshot())
}

// ToggleView flips between portfolio and market
// POST /api/view/toggle
func (h *DashboardHandler) ToggleView(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.ToggleView(); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.store.Snapshot())
}

// GetPortfolio returns the recommended candidates as cards
// GET /api/view/portfolio
func (h *DashboardHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	cards, err := h.store.Portfolio()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"hint":  dashboard.PortfolioHint,
		"cards": cards,
	})
}

// GetMarket returns every candidate as table rows
// GET /api/view/market
func (h *DashboardHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.Market()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rows": rows,
	})
}

// Select opens the detail overlay
// POST /api/selection/{id}
func (h *DashboardHandler) Select(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Select(mux.Vars(r)["id"]); err != nil {
		respondDomainError(w, err)
		return
	}

	detail, _ := h.store.Detail()
	respondJSON(w, http.StatusOK, detail)
}

// GetSelection returns the open detail overlay
// GET /api/selection
func (h *DashboardHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	detail, ok := h.store.Detail()
	if !ok {
		respondError(w, http.StatusNotFound, "no candidate selected")
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// CloseSelection closes the detail overlay
// DELETE /api/selection
func (h *DashboardHandler) CloseSelection(w http.ResponseWriter, r *http.Request) {
	h.store.CloseDetail()
	w.WriteHeader(http.StatusNoContent)
}

// DismissNotice clears the failure notice
// DELETE /api/notice
func (h *DashboardHandler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	h.store.DismissNotice()
	w.WriteHeader(http.StatusNoContent)
}

// GetReport returns the print projection
// GET /api/report
func (h *DashboardHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.store.Report(h.reportTitle)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

// GetReportText returns the print projection as a plain text table
// GET /api/report.txt
func (h *DashboardHandler) GetReportText(w http.ResponseWriter, r *http.Request) {
	rep, err := h.store.Report(h.reportTitle)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteText(&buf, rep); err != nil {
		h.logger.WithError(err).Error("Failed to render text report")
		respondError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetReportPDF returns the print projection as an A4 PDF
// GET /api/report.pdf
func (h *DashboardHandler) GetReportPDF(w http.ResponseWriter, r *http.Request) {
	rep, err := h.store.Report(h.reportTitle)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	data, err := h.reports.PDF(rep)
	if err != nil {
		h.logger.WithError(err).Error("Failed to render PDF report")
		respondError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	filename := fmt.Sprintf("quantumedge-%s.pdf", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
