package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/compass/internal/engine"
	"github.com/wonny/compass/pkg/logger"
)

// StockHandler serves per-stock score breakdowns.
type StockHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewStockHandler creates a stock handler.
func NewStockHandler(eng *engine.Engine, log *logger.Logger) *StockHandler {
	return &StockHandler{engine: eng, logger: log}
}

// Explain returns the full composite breakdown for one ticker from the
// last batch, for tooltips and explanations in the presentation layer.
// GET /api/stocks/{ticker}
func (h *StockHandler) Explain(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	score, err := h.engine.Explain(ticker)
	switch {
	case errors.Is(err, engine.ErrNoBatch):
		respondError(w, http.StatusNotFound, "no analysis batch computed yet")
	case errors.Is(err, engine.ErrUnknownTicker):
		respondError(w, http.StatusNotFound, "ticker not in last batch: "+ticker)
	case err != nil:
		h.logger.WithError(err).Error("Explain failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	default:
		respondJSON(w, http.StatusOK, score)
	}
}
