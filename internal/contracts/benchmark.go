package contracts

// SectorBenchmark holds the per-sector central tendencies used to normalize
// a stock's metrics against its peers. Recomputed fully on every run; a
// mean is absent when no stock in the sector had the field present.
type SectorBenchmark struct {
	Sector string `json:"sector"`

	MeanPER Metric `json:"mean_per"`
	MeanPBR Metric `json:"mean_pbr"`
	MeanEPS Metric `json:"mean_eps"`

	// SampleSize is the number of stocks in the sector, not the number of
	// values behind any one mean.
	SampleSize int `json:"sample_size"`
}

// BenchmarkSet maps sector name to its benchmark. Read-only once the
// benchmark pass has completed.
type BenchmarkSet map[string]SectorBenchmark

// Get returns the benchmark for a sector. Stocks with an unknown sector get
// a zero-sample benchmark so rule evaluation degrades instead of failing.
func (b BenchmarkSet) Get(sector string) SectorBenchmark {
	if bm, ok := b[sector]; ok {
		return bm
	}
	return SectorBenchmark{Sector: sector}
}
