package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/quantumedge/internal/dashboard"
	"github.com/wonny/quantumedge/internal/strategyconfig"
	"github.com/wonny/quantumedge/pkg/logger"
)

// PresetHandler serves the strategy preset catalog
type PresetHandler struct {
	store   *dashboard.Store
	catalog *strategyconfig.Catalog
	logger  *logger.Logger
}

// NewPresetHandler creates a new preset handler
func NewPresetHandler(store *dashboard.Store, catalog *strategyconfig.Catalog, log *logger.Logger) *PresetHandler {
	return &PresetHandler{
		store:   store,
		catalog: catalog,
		logger:  log,
	}
}

// ListPresets returns every preset
// GET /api/presets
func (h *PresetHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"presets": h.catalog.Presets(),
		"hash":    h.catalog.Hash(),
	})
}

// ApplyPreset replaces the weights (and capital, when the preset has one)
// POST /api/presets/{id}
func (h *PresetHandler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	preset, err := h.catalog.Lookup(id)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	if err := h.store.ApplyWeights(preset.Weights.Settings(), preset.Capital); err != nil {
		respondDomainError(w, err)
		return
	}

	h.logger.WithField("preset", preset.ID).Info("Preset applied")
	respondJSON(w, http.StatusOK, h.store.Config())
}
