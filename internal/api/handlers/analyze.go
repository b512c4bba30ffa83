package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/compass/internal/contracts"
	"github.com/wonny/compass/internal/engine"
	"github.com/wonny/compass/internal/scoring"
	"github.com/wonny/compass/pkg/logger"
)

// AnalyzeHandler triggers an ad-hoc analysis run over a posted batch.
type AnalyzeHandler struct {
	engine *engine.Engine
	cfg    scoring.Config
	logger *logger.Logger
}

// NewAnalyzeHandler creates an analyze handler with the server's strategy.
func NewAnalyzeHandler(eng *engine.Engine, cfg scoring.Config, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{engine: eng, cfg: cfg, logger: log}
}

// analyzeRequest is the POST body: a fundamentals batch plus optional
// per-ticker sentiment.
type analyzeRequest struct {
	Stocks    []contracts.StockFundamentals `json:"stocks"`
	Sentiment map[string]float64            `json:"sentiment,omitempty"`
}

// analyzeResponse summarizes the run; full entries are served by the
// rankings endpoints afterwards.
type analyzeResponse struct {
	Stocks   int                     `json:"stocks"`
	Entries  []contracts.RankedEntry `json:"entries"`
	Selected int                     `json:"selected"`
}

// Analyze scores and ranks the posted batch.
// POST /api/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	entries, err := h.engine.ComputeRankings(r.Context(), req.Stocks, engine.SentimentMap(req.Sentiment), h.cfg)
	if err != nil {
		var cfgErr scoring.ConfigError
		switch {
		case errors.Is(err, engine.ErrEmptyBatch):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &cfgErr):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.WithError(err).Error("Analysis failed")
			respondError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	selected := 0
	for _, e := range entries {
		if e.Selected {
			selected++
		}
	}

	respondJSON(w, http.StatusOK, analyzeResponse{
		Stocks:   len(req.Stocks),
		Entries:  entries,
		Selected: selected,
	})
}
