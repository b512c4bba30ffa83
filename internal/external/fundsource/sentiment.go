package fundsource

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/compass/internal/contracts"
)

// Headline keyword polarity. Deliberately crude: the engine treats
// sentiment as an optional secondary signal, so a coarse scalar is enough.
var (
	positiveWords = []string{"beat", "record", "upgrade", "growth", "surge", "raises", "dividend"}
	negativeWords = []string{"miss", "downgrade", "lawsuit", "recall", "cuts", "plunge", "fraud"}
)

// FetchSentiment fetches recent headlines per ticker and derives a scalar
// in [-1, 1]. Tickers with no headlines are simply absent from the result.
func (c *Client) FetchSentiment(ctx context.Context, tickers []string) (contracts.SentimentSet, error) {
	set := make(contracts.SentimentSet, len(tickers))

	for _, ticker := range tickers {
		doc, err := c.fetchDocument(ctx, "/news/"+ticker)
		if err != nil {
			// Headlines are optional; a failed fetch degrades confidence
			// downstream instead of failing the run.
			c.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"error":  err.Error(),
			}).Warn("Headline fetch failed, skipping ticker")
			continue
		}

		score, ok := scoreHeadlines(doc)
		if ok {
			set[ticker] = score
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"tickers":   len(tickers),
		"with_news": len(set),
	}).Info("Fetched sentiment")

	return set, nil
}

// scoreHeadlines maps keyword hits across headlines to [-1, 1].
func scoreHeadlines(doc *goquery.Document) (float64, bool) {
	total := 0
	polarity := 0

	doc.Find("ul.headlines li a").Each(func(_ int, sel *goquery.Selection) {
		title := strings.ToLower(sel.Text())
		total++
		for _, w := range positiveWords {
			if strings.Contains(title, w) {
				polarity++
				break
			}
		}
		for _, w := range negativeWords {
			if strings.Contains(title, w) {
				polarity--
				break
			}
		}
	})

	if total == 0 {
		return 0, false
	}

	score := float64(polarity) / float64(total)
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score, true
}
