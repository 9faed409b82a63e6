package app

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookscrape/bookscrape/internal/config"
	"github.com/bookscrape/bookscrape/internal/scraper"
)

const listingPage = `<!DOCTYPE html>
<html><body>
<ol class="row">
  <li>
    <article class="product_pod">
      <p class="star-rating Three"></p>
      <h3><a href="catalogue/a-light-in-the-attic_1000/index.html" title="A Light in the Attic">A Light in ...</a></h3>
      <div class="product_price">
        <p class="price_color">&pound;51.77</p>
        <p class="instock availability">
          In stock (22 available)
        </p>
      </div>
    </article>
  </li>
  <li>
    <article class="product_pod">
      <p class="star-rating One"></p>
      <h3><a href="catalogue/tipping-the-velvet_999/index.html" title="Tipping the Velvet">Tipping the Velvet</a></h3>
      <div class="product_price">
        <p class="price_color">&pound;53.74</p>
        <p class="instock availability">
          In stock (20 available)
        </p>
      </div>
    </article>
  </li>
</ol>
</body></html>`

func testConfig(t *testing.T, baseURL, outPath string) config.Config {
	t.Helper()

	cfg := config.Config{}
	cfg.Site.BaseURL = baseURL
	cfg.Site.UserAgent = "bookscrape-test/1.0"
	cfg.Scrape.Pages = 1
	cfg.Scrape.DelaySeconds = 0
	cfg.HTTP.TimeoutSeconds = 5
	cfg.Output.Path = outPath
	cfg.Output.PreviewRows = 5
	require.NoError(t, cfg.Validate())
	return cfg
}

func runOnce(t *testing.T, cfg config.Config) *scraper.RunReport {
	t.Helper()

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	report, err := a.Run(context.Background())
	require.NoError(t, err)
	return report
}

func TestScrapeEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	outPath := filepath.Join(t.TempDir(), "products.csv")
	report := runOnce(t, testConfig(t, srv.URL+"/", outPath))

	require.Len(t, report.Records, 2)
	assert.Equal(t, 1, report.Pages)

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"title", "price", "availability", "rating", "product_page"}, rows[0])
	assert.Equal(t, []string{
		"A Light in the Attic",
		"£51.77",
		"In stock (22 available)",
		"Three",
		srv.URL + "/catalogue/a-light-in-the-attic_1000/index.html",
	}, rows[1])
	assert.Equal(t, []string{
		"Tipping the Velvet",
		"£53.74",
		"In stock (20 available)",
		"One",
		srv.URL + "/catalogue/tipping-the-velvet_999/index.html",
	}, rows[2])
}

func TestScrapeIdempotentOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	outPath := filepath.Join(t.TempDir(), "products.csv")
	cfg := testConfig(t, srv.URL+"/", outPath)

	runOnce(t, cfg)
	first, err := os.ReadFile(outPath)
	require.NoError(t, err)

	runOnce(t, cfg)
	second, err := os.ReadFile(outPath)
	require.NoError(t, err)

	assert.Equal(t, first, second, "reruns against an unchanged site must produce byte-identical CSV")
}

func TestScrapeAbortsOnFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	outPath := filepath.Join(t.TempDir(), "products.csv")
	a, err := New(context.Background(), testConfig(t, srv.URL+"/", outPath))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Run(context.Background())
	require.Error(t, err)

	var fetchErr *scraper.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr), "no CSV should be written for an aborted run")
}

func TestScrapeArchivesPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := testConfig(t, srv.URL+"/", filepath.Join(dir, "products.csv"))
	cfg.Archive.Dir = filepath.Join(dir, "pages")

	runOnce(t, cfg)

	archived, err := os.ReadFile(filepath.Join(dir, "pages", "page-1.html"))
	require.NoError(t, err)
	assert.Equal(t, listingPage, string(archived))
}

func TestScrapeExposesMetricsDuringRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL+"/", filepath.Join(t.TempDir(), "products.csv"))
	cfg.Metrics.Addr = "127.0.0.1:0"

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Run(context.Background())
	require.NoError(t, err)

	resp, err := http.Get("http://" + a.metricsSrv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}