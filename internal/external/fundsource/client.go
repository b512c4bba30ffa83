// Package fundsource is the data-acquisition collaborator: it fetches
// already-published fundamentals tables and headlines from the configured
// market-data site and hands the engine validated snapshots. The engine
// never fetches anything itself.
package fundsource

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/compass/internal/contracts"
	"github.com/wonny/compass/pkg/httputil"
	"github.com/wonny/compass/pkg/logger"
)

// Client scrapes the market-data provider.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a fundsource client.
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchFundamentals fetches the screener table and returns one snapshot per
// row. Numeric cells that fail to parse become absent metrics rather than
// zeros; type validation is this collaborator's job, not the engine's.
func (c *Client) FetchFundamentals(ctx context.Context) ([]contracts.StockFundamentals, error) {
	doc, err := c.fetchDocument(ctx, "/screener/fundamentals")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var stocks []contracts.StockFundamentals

	doc.Find("table.screener tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		// 12 columns per row, ticker through current ratio.
		if cells.Length() < 12 {
			return
		}

		ticker := strings.TrimSpace(cells.Eq(0).Text())
		if ticker == "" {
			return
		}

		stocks = append(stocks, contracts.StockFundamentals{
			Ticker:       ticker,
			Name:         strings.TrimSpace(cells.Eq(1).Text()),
			Sector:       strings.TrimSpace(cells.Eq(2).Text()),
			Price:        parseCell(cells.Eq(3)),
			PER:          parseCell(cells.Eq(4)),
			PBR:          parseCell(cells.Eq(5)),
			EPS:          parseCell(cells.Eq(6)),
			BookValue:    parseCell(cells.Eq(7)),
			ROE:          parseCell(cells.Eq(8)),
			ROA:          parseCell(cells.Eq(9)),
			DebtEquity:   parseCell(cells.Eq(10)),
			CurrentRatio: parseCell(cells.Eq(11)),
			AsOf:         now,
		})
	})

	c.logger.WithFields(map[string]interface{}{
		"stocks": len(stocks),
	}).Info("Fetched fundamentals")

	if len(stocks) == 0 {
		return nil, fmt.Errorf("screener table empty or layout changed")
	}

	return stocks, nil
}

// fetchDocument fetches a path and parses it into a goquery document.
func (c *Client) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	resp, err := c.httpClient.Get(ctx, c.baseURL+path)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return doc, nil
}

// parseCell parses a numeric table cell. Dashes, "N/A" and junk map to the
// absent sentinel.
func parseCell(sel *goquery.Selection) contracts.Metric {
	text := strings.TrimSpace(sel.Text())
	text = strings.ReplaceAll(text, ",", "")
	text = strings.TrimSuffix(text, "%")

	if text == "" || text == "-" || strings.EqualFold(text, "n/a") {
		return contracts.Absent()
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return contracts.Absent()
	}
	return contracts.NewMetric(v)
}
