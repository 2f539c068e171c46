// Package handlers provides HTTP handlers for the analysis pipeline.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/quasar/internal/modules/analysis"
	"github.com/aristath/quasar/internal/modules/history"
	"github.com/aristath/quasar/internal/modules/report"
)

// Handler handles analysis HTTP requests.
type Handler struct {
	service     *analysis.Service
	reports     *report.Service
	historyRepo *history.Repository
	log         zerolog.Logger
}

// NewHandler creates a new analysis handler. historyRepo may be nil when
// archiving is disabled.
func NewHandler(
	service *analysis.Service,
	reports *report.Service,
	historyRepo *history.Repository,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		service:     service,
		reports:     reports,
		historyRepo: historyRepo,
		log:         log.With().Str("handler", "analysis").Logger(),
	}
}

// AnalyzeRequest is the wire form of one analysis invocation: the simulated
// state vector plus the circuit metadata it came from.
type AnalyzeRequest struct {
	Backend     string               `json:"backend"`
	Qubits      int                  `json:"qubits"`
	StateVector []analysis.Amplitude `json:"state_vector"`
	Operations  []analysis.Operation `json:"operations"`
	Options     analysis.Options     `json:"options"`
	// Report selects the optional rendered text report in the response.
	Report bool `json:"report"`
}

// AnalyzeResponse mirrors the original analysis API contract: success with
// the record (and optional report text), or an error with its kind.
type AnalyzeResponse struct {
	Success   bool             `json:"success"`
	Analysis  *analysis.Record `json:"analysis,omitempty"`
	Report    string           `json:"report,omitempty"`
	Error     string           `json:"error,omitempty"`
	ErrorType string           `json:"error_type,omitempty"`
}

// HandleAnalyze handles POST /api/analysis/analyze.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	circ := analysis.Circuit{NumQubits: req.Qubits, Operations: req.Operations}
	rec, err := h.service.Analyze(req.Backend, analysis.ToComplex(req.StateVector), circ, req.Options)
	if err != nil {
		kind := analysis.ErrorKind(err)
		status := http.StatusBadRequest
		if kind == "" || kind == "NumericalInstabilityError" {
			status = http.StatusInternalServerError
		}
		h.log.Warn().Err(err).Str("error_type", kind).Msg("Analysis failed")
		h.writeJSON(w, status, AnalyzeResponse{
			Success:   false,
			Error:     err.Error(),
			ErrorType: kind,
		})
		return
	}

	if h.historyRepo != nil {
		if err := h.historyRepo.Save(rec); err != nil {
			// Archiving is best effort; the caller still gets the record.
			h.log.Error().Err(err).Str("id", rec.ID).Msg("Failed to archive analysis record")
		}
	}

	resp := AnalyzeResponse{Success: true, Analysis: rec}
	if req.Report {
		resp.Report = h.reports.RenderText(rec)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleLimits handles GET /api/analysis/limits, reporting the documented
// engine ceilings and defaults so clients can validate before submitting.
func (h *Handler) HandleLimits(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"max_qubits":         h.service.MaxQubits(),
			"norm_tolerance":     1e-6,
			"near_zero":          1e-10,
			"histogram_default":  "round(sqrt(distinct states)), minimum 1",
			"basis_state_labels": "most significant qubit first",
		},
	})
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
