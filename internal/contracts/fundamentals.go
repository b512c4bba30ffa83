package contracts

import (
	"bytes"
	"encoding/json"
	"time"
)

// Metric is a numeric fundamental that may be absent. An absent metric is
// never coerced to zero; callers must check Valid before using Value.
type Metric struct {
	Value float64
	Valid bool
}

// NewMetric returns a present metric.
func NewMetric(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// Absent returns the missing-data sentinel.
func Absent() Metric {
	return Metric{}
}

var jsonNull = []byte("null")

// MarshalJSON encodes an absent metric as JSON null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return jsonNull, nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON decodes JSON null as absent.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*m = Metric{}
		return nil
	}
	if err := json.Unmarshal(data, &m.Value); err != nil {
		return err
	}
	m.Valid = true
	return nil
}

// StockFundamentals is an immutable per-ticker snapshot for one analysis
// run. A re-run produces a new snapshot; nothing here is mutated after load.
type StockFundamentals struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name,omitempty"`
	Sector string `json:"sector"`

	Price        Metric `json:"price"`
	EPS          Metric `json:"eps"`
	BookValue    Metric `json:"book_value"`
	PER          Metric `json:"per"`
	PBR          Metric `json:"pbr"`
	ROE          Metric `json:"roe"`
	ROA          Metric `json:"roa"`
	DebtEquity   Metric `json:"debt_equity"`
	CurrentRatio Metric `json:"current_ratio"`

	// History holds prior-period fundamentals, oldest first. Empty when only
	// the current period was supplied; the trend rule degrades accordingly.
	History []PeriodFundamentals `json:"history,omitempty"`

	AsOf time.Time `json:"as_of"`
}

// PeriodFundamentals is one historical reporting period.
type PeriodFundamentals struct {
	Period string `json:"period"` // e.g. "2023", "2024Q2"
	EPS    Metric `json:"eps"`
	ROE    Metric `json:"roe"`
	PER    Metric `json:"per"`
}

// Metrics returns the current-period metrics in a fixed order, used for
// completeness accounting.
func (s *StockFundamentals) Metrics() []Metric {
	return []Metric{
		s.Price, s.EPS, s.BookValue, s.PER, s.PBR,
		s.ROE, s.ROA, s.DebtEquity, s.CurrentRatio,
	}
}

// PresentMetricCount returns how many current-period metrics are present.
func (s *StockFundamentals) PresentMetricCount() int {
	n := 0
	for _, m := range s.Metrics() {
		if m.Valid {
			n++
		}
	}
	return n
}

// SentimentSet carries the optional per-ticker sentiment scalar in [-1, 1]
// supplied by the news collaborator. Missing tickers are simply absent.
type SentimentSet map[string]float64

// Get returns the sentiment for a ticker as a Metric.
func (s SentimentSet) Get(ticker string) Metric {
	if s == nil {
		return Absent()
	}
	v, ok := s[ticker]
	if !ok {
		return Absent()
	}
	return NewMetric(v)
}
