package ranking

import (
	"sort"

	"github.com/wonny/compass/internal/contracts"
	"github.com/wonny/compass/pkg/logger"
)

// Ranker sorts scored stocks within each sector and flags the top-N as
// selected. Entries below the cut stay in the result set; callers needing
// only the selection filter explicitly.
type Ranker struct {
	topN   int
	logger *logger.Logger
}

// NewRanker creates a ranker with the configured per-sector top-N.
func NewRanker(topN int, log *logger.Logger) *Ranker {
	return &Ranker{topN: topN, logger: log}
}

// Rank orders all composite scores into per-sector rankings. Within a
// sector the order is descending by overall score; exact ties break by
// HIGH-confidence count, then ticker lexical order, so rank positions form
// a strict, reproducible total order. The returned slice is sorted by
// sector name, then rank.
func (r *Ranker) Rank(scores []contracts.CompositeScore) []contracts.RankedEntry {
	bySector := make(map[string][]contracts.CompositeScore)
	for _, s := range scores {
		bySector[s.Sector] = append(bySector[s.Sector], s)
	}

	sectors := make([]string, 0, len(bySector))
	for sector := range bySector {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	entries := make([]contracts.RankedEntry, 0, len(scores))
	selected := 0

	for _, sector := range sectors {
		group := bySector[sector]

		sort.SliceStable(group, func(i, j int) bool {
			if group[i].Overall != group[j].Overall {
				return group[i].Overall > group[j].Overall
			}
			hi, hj := group[i].HighConfidenceCount(), group[j].HighConfidenceCount()
			if hi != hj {
				return hi > hj
			}
			return group[i].Ticker < group[j].Ticker
		})

		for i, s := range group {
			entry := contracts.RankedEntry{
				Ticker:   s.Ticker,
				Sector:   sector,
				Rank:     i + 1,
				Selected: i < r.topN,
				Score:    s,
			}
			if entry.Selected {
				selected++
			}
			entries = append(entries, entry)
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"sectors":  len(sectors),
		"entries":  len(entries),
		"selected": selected,
		"top_n":    r.topN,
	}).Info("Ranking completed")

	return entries
}
