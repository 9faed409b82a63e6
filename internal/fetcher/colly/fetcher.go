// Package collyfetcher implements scraper.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/bookscrape/bookscrape/internal/scraper"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// sessionHeaders are added to every outgoing page request.
var sessionHeaders = http.Header{
	"Accept":          {"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
	"Accept-Language": {"en-US,en;q=0.5"},
}

// Fetcher implements scraper.Fetcher using the Colly collector. Each Fetch
// clones the base collector so callbacks never leak between requests, while
// the pooled transport is shared.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

type collectorHooks interface {
	OnRequest(colly.RequestCallback)
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	c := colly.NewCollector(colly.Async(false))
	c.WithTransport(newHTTPTransport())

	// Every run revisits the same catalogue URLs.
	c.AllowURLRevisit = true

	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	c.SetRequestTimeout(timeout)

	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
	}
}

// Fetch executes a single HTTP GET using Colly. Transport failures and
// non-success statuses are returned as *scraper.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, request scraper.FetchRequest) (scraper.FetchResponse, error) {
	var (
		result   scraper.FetchResponse
		status   int
		fetchErr error
	)
	start := time.Now()

	collector := f.baseCollector.Clone()
	f.configureCollectorHooks(collector, request, start, &result, &status, &fetchErr)

	if err := f.runCollector(ctx, collector, request.URL, &fetchErr); err != nil {
		return scraper.FetchResponse{}, &scraper.FetchError{
			URL:        request.URL,
			StatusCode: status,
			Err:        err,
		}
	}
	return result, nil
}

func (f *Fetcher) configureCollectorHooks(
	hooks collectorHooks,
	request scraper.FetchRequest,
	start time.Time,
	result *scraper.FetchResponse,
	status *int,
	fetchErr *error,
) {
	hooks.OnRequest(func(r *colly.Request) {
		copyHeaders(sessionHeaders, r)
		copyHeaders(request.Headers, r)
	})

	hooks.OnResponse(func(r *colly.Response) {
		*result = scraper.FetchResponse{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Headers:    r.Headers.Clone(),
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil {
			*status = r.StatusCode
		}
		*fetchErr = err
	})
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("visit: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("response: %w", *fetchErr)
		}
		return nil
	}
}

func copyHeaders(headers http.Header, r *colly.Request) {
	for key, values := range headers {
		for _, v := range values {
			r.Headers.Add(key, v)
		}
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
