package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/compass/internal/contracts"
	"github.com/wonny/compass/internal/engine"
	"github.com/wonny/compass/internal/scoring"
	"github.com/wonny/compass/pkg/logger"
)

func testStock(ticker, sector string, eps float64) contracts.StockFundamentals {
	return contracts.StockFundamentals{
		Ticker: ticker,
		Sector: sector,
		Price:  contracts.NewMetric(eps * 11),
		EPS:    contracts.NewMetric(eps),
		PER:    contracts.NewMetric(11),
		PBR:    contracts.NewMetric(1.5),
		ROE:    contracts.NewMetric(12),
		ROA:    contracts.NewMetric(6),
	}
}

func testBatch(n int) []contracts.StockFundamentals {
	stocks := make([]contracts.StockFundamentals, 0, n)
	for i := 0; i < n; i++ {
		stocks = append(stocks, testStock(fmt.Sprintf("S%02d", i), "Tech", float64(4+i)))
	}
	return stocks
}

// testRouter wires handlers onto the real route patterns.
func testRouter(eng *engine.Engine, cfg scoring.Config) *mux.Router {
	log := logger.NewNop()
	ranking := NewRankingHandler(eng, log)
	stock := NewStockHandler(eng, log)
	analyze := NewAnalyzeHandler(eng, cfg, log)

	r := mux.NewRouter()
	r.HandleFunc("/api/rankings", ranking.GetRankings).Methods("GET")
	r.HandleFunc("/api/rankings/{sector}", ranking.GetSectorRankings).Methods("GET")
	r.HandleFunc("/api/stocks/{ticker}", stock.Explain).Methods("GET")
	r.HandleFunc("/api/analyze", analyze.Analyze).Methods("POST")
	return r
}

func computedEngine(t *testing.T, n int) *engine.Engine {
	t.Helper()
	eng := engine.New(logger.NewNop())
	_, err := eng.ComputeRankings(context.Background(), testBatch(n), nil, scoring.DefaultConfig())
	require.NoError(t, err)
	return eng
}

func TestGetRankings(t *testing.T) {
	cfg := scoring.DefaultConfig()
	router := testRouter(computedEngine(t, 15), cfg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/rankings", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []contracts.RankedEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, cfg.TopN, "unselected tail excluded by default")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/rankings?all=true", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 15)
}

func TestGetRankings_NoBatch(t *testing.T) {
	router := testRouter(engine.New(logger.NewNop()), scoring.DefaultConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/rankings", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSectorRankings(t *testing.T) {
	router := testRouter(computedEngine(t, 5), scoring.DefaultConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/rankings/Tech", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []contracts.RankedEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 5)
	for _, e := range entries {
		assert.Equal(t, "Tech", e.Sector)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/rankings/Utilities", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExplain(t *testing.T) {
	router := testRouter(computedEngine(t, 5), scoring.DefaultConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/stocks/S03", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var score contracts.CompositeScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.Equal(t, "S03", score.Ticker)
	assert.Len(t, score.Rules, 5)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/stocks/NOPE", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyze(t *testing.T) {
	router := testRouter(engine.New(logger.NewNop()), scoring.DefaultConfig())

	payload := map[string]interface{}{
		"stocks":    testBatch(4),
		"sentiment": map[string]float64{"S01": 0.5},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/analyze", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Stocks   int                     `json:"stocks"`
		Entries  []contracts.RankedEntry `json:"entries"`
		Selected int                     `json:"selected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Stocks)
	assert.Len(t, resp.Entries, 4)
	assert.Equal(t, 4, resp.Selected)
}

func TestAnalyze_EmptyBatch(t *testing.T) {
	router := testRouter(engine.New(logger.NewNop()), scoring.DefaultConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/analyze", bytes.NewReader([]byte(`{"stocks":[]}`))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_MalformedBody(t *testing.T) {
	router := testRouter(engine.New(logger.NewNop()), scoring.DefaultConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/analyze", bytes.NewReader([]byte(`{`))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
