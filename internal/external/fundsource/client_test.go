package fundsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/compass/pkg/httputil"
	"github.com/wonny/compass/pkg/logger"
)

const screenerHTML = `
<html><body>
<table class="screener">
<thead><tr><th>Ticker</th></tr></thead>
<tbody>
<tr>
  <td>ACME</td><td>Acme Corp</td><td>Industrials</td>
  <td>1,250.50</td><td>12.5</td><td>1.8</td><td>100.04</td>
  <td>694.7</td><td>14.2%</td><td>7.1%</td><td>0.45</td><td>1.9</td>
</tr>
<tr>
  <td>GAPS</td><td>Gaps Inc</td><td>Industrials</td>
  <td>88.00</td><td>-</td><td>N/A</td><td></td>
  <td>junk</td><td>9.0%</td><td>4.5%</td><td>-</td><td>2.1</td>
</tr>
<tr>
  <td></td><td>Nameless</td><td>X</td>
  <td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td><td>1</td>
</tr>
</tbody>
</table>
</body></html>`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := httputil.New(logger.NewNop(), 100, 5*time.Second)
	return NewClient(httpClient, srv.URL, logger.NewNop()), srv
}

func TestFetchFundamentals(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/screener/fundamentals", r.URL.Path)
		w.Write([]byte(screenerHTML))
	})

	stocks, err := client.FetchFundamentals(context.Background())
	require.NoError(t, err)
	require.Len(t, stocks, 2, "the ticker-less row is skipped")

	acme := stocks[0]
	assert.Equal(t, "ACME", acme.Ticker)
	assert.Equal(t, "Acme Corp", acme.Name)
	assert.Equal(t, "Industrials", acme.Sector)
	assert.Equal(t, 1250.50, acme.Price.Value, "thousands separator stripped")
	assert.Equal(t, 14.2, acme.ROE.Value, "percent sign stripped")
	assert.False(t, acme.AsOf.IsZero())

	gaps := stocks[1]
	assert.True(t, gaps.Price.Valid)
	assert.False(t, gaps.PER.Valid, "dash is absent, not zero")
	assert.False(t, gaps.PBR.Valid, "N/A is absent")
	assert.False(t, gaps.EPS.Valid, "empty cell is absent")
	assert.False(t, gaps.BookValue.Valid, "unparseable cell is absent")
	assert.True(t, gaps.ROE.Valid)
}

func TestFetchFundamentals_TruncatedRowSkipped(t *testing.T) {
	// SHRT is one cell short: no current-ratio column. The whole row is
	// dropped rather than parsed into a stock with a silently absent field.
	html := `<html><body><table class="screener"><tbody>
	<tr>
	  <td>FULL</td><td>Full Co</td><td>Tech</td>
	  <td>10</td><td>10</td><td>1.5</td><td>1</td>
	  <td>6.7</td><td>12%</td><td>6%</td><td>0.3</td><td>1.8</td>
	</tr>
	<tr>
	  <td>SHRT</td><td>Short Co</td><td>Tech</td>
	  <td>10</td><td>10</td><td>1.5</td><td>1</td>
	  <td>6.7</td><td>12%</td><td>6%</td><td>0.3</td>
	</tr>
	</tbody></table></body></html>`

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(html))
	})

	stocks, err := client.FetchFundamentals(context.Background())
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, "FULL", stocks[0].Ticker)
	assert.True(t, stocks[0].CurrentRatio.Valid)
}

func TestFetchFundamentals_EmptyTable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>maintenance</p></body></html>`))
	})

	_, err := client.FetchFundamentals(context.Background())
	assert.Error(t, err)
}

func TestFetchSentiment(t *testing.T) {
	pages := map[string]string{
		"/news/GOOD": `<ul class="headlines">
			<li><a>Acme beats estimates, raises guidance</a></li>
			<li><a>Record quarter for Acme</a></li>
		</ul>`,
		"/news/BAD": `<ul class="headlines">
			<li><a>Acme misses badly after product recall</a></li>
			<li><a>Analyst downgrade hits Acme</a></li>
		</ul>`,
		"/news/QUIET": `<ul class="headlines"></ul>`,
	}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("<html><body>" + page + "</body></html>"))
	})

	set, err := client.FetchSentiment(context.Background(), []string{"GOOD", "BAD", "QUIET", "GONE"})
	require.NoError(t, err)

	assert.Equal(t, 1.0, set["GOOD"])
	assert.Equal(t, -1.0, set["BAD"])

	_, hasQuiet := set["QUIET"]
	assert.False(t, hasQuiet, "no headlines, no sentiment")
	_, hasGone := set["GONE"]
	assert.False(t, hasGone, "failed fetch skips the ticker")
}

func TestScoreHeadlines_Mixed(t *testing.T) {
	html := `<ul class="headlines">
		<li><a>Growth surges at Acme</a></li>
		<li><a>Acme faces lawsuit</a></li>
		<li><a>Acme opens new plant</a></li>
		<li><a>Dividend raised again</a></li>
	</ul>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	score, ok := scoreHeadlines(doc)
	require.True(t, ok)
	assert.InDelta(t, 0.25, score, 1e-9) // (+1 -1 0 +1) / 4
}
