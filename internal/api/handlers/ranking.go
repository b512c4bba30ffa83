package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/compass/internal/contracts"
	"github.com/wonny/compass/internal/engine"
	"github.com/wonny/compass/pkg/logger"
)

// RankingHandler serves the ranked output of the last analysis batch.
type RankingHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewRankingHandler creates a ranking handler.
func NewRankingHandler(eng *engine.Engine, log *logger.Logger) *RankingHandler {
	return &RankingHandler{engine: eng, logger: log}
}

// GetRankings returns the last batch's entries. By default only selected
// (top-N) entries are returned; ?all=true includes the unselected tail.
// GET /api/rankings?all=true
func (h *RankingHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	entries := h.engine.LastRankings()
	if entries == nil {
		respondError(w, http.StatusNotFound, "no analysis batch computed yet")
		return
	}

	includeAll := r.URL.Query().Get("all") == "true"
	respondJSON(w, http.StatusOK, filterEntries(entries, "", includeAll))
}

// GetSectorRankings returns one sector's ranking.
// GET /api/rankings/{sector}?all=true
func (h *RankingHandler) GetSectorRankings(w http.ResponseWriter, r *http.Request) {
	entries := h.engine.LastRankings()
	if entries == nil {
		respondError(w, http.StatusNotFound, "no analysis batch computed yet")
		return
	}

	sector := mux.Vars(r)["sector"]
	includeAll := r.URL.Query().Get("all") == "true"

	filtered := filterEntries(entries, sector, includeAll)
	if len(filtered) == 0 {
		respondError(w, http.StatusNotFound, "sector not in last batch")
		return
	}

	respondJSON(w, http.StatusOK, filtered)
}

// filterEntries keeps one sector (when set) and drops unselected entries
// unless includeAll is set. The engine retains them; trimming is the
// caller's explicit choice.
func filterEntries(entries []contracts.RankedEntry, sector string, includeAll bool) []contracts.RankedEntry {
	out := make([]contracts.RankedEntry, 0, len(entries))
	for _, e := range entries {
		if sector != "" && e.Sector != sector {
			continue
		}
		if !includeAll && !e.Selected {
			continue
		}
		out = append(out, e)
	}
	return out
}
