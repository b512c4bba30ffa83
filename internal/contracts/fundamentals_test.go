package contracts

import (
	"encoding/json"
	"testing"
)

func TestMetric_JSONNull(t *testing.T) {
	tests := []struct {
		name   string
		metric Metric
		want   string
	}{
		{"present", NewMetric(12.5), "12.5"},
		{"absent", Absent(), "null"},
		{"present zero", NewMetric(0), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.metric)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}

			var back Metric
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if back != tt.metric {
				t.Errorf("round trip = %+v, want %+v", back, tt.metric)
			}
		})
	}
}

func TestMetric_AbsentIsNotZero(t *testing.T) {
	// A present zero and an absent metric must stay distinguishable.
	if NewMetric(0) == Absent() {
		t.Fatal("present zero must differ from absent")
	}
}

func TestStockFundamentals_PresentMetricCount(t *testing.T) {
	s := StockFundamentals{
		Ticker: "ACME",
		Sector: "Industrials",
		Price:  NewMetric(100),
		EPS:    NewMetric(8),
		PER:    NewMetric(12.5),
	}

	if got := s.PresentMetricCount(); got != 3 {
		t.Errorf("PresentMetricCount() = %d, want 3", got)
	}
	if got := len(s.Metrics()); got != 9 {
		t.Errorf("Metrics() length = %d, want 9", got)
	}
}

func TestSentimentSet_Get(t *testing.T) {
	set := SentimentSet{"ACME": 0.5}

	if m := set.Get("ACME"); !m.Valid || m.Value != 0.5 {
		t.Errorf("Get(known) = %+v, want present 0.5", m)
	}
	if m := set.Get("MISSING"); m.Valid {
		t.Errorf("Get(unknown) = %+v, want absent", m)
	}

	var nilSet SentimentSet
	if m := nilSet.Get("ACME"); m.Valid {
		t.Errorf("Get on nil set = %+v, want absent", m)
	}
}
