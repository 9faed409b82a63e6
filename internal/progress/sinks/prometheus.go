package sinks

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bookscrape/bookscrape/internal/progress"
)

// PrometheusSink exports scrape progress metrics via Prometheus. It owns all
// collectors for run lifecycle, page fetches, and extracted record counts.
type PrometheusSink struct {
	runsStarted   prometheus.Counter
	runsCompleted *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec

	pagesFetched  *prometheus.CounterVec
	fetchBytes    prometheus.Counter
	fetchDuration prometheus.Histogram
	itemsScraped  prometheus.Counter
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookscrape_runs_started_total",
			Help: "Total scrape runs that have started.",
		}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookscrape_runs_completed_total",
			Help: "Total scrape runs completed partitioned by result.",
		}, []string{"result"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookscrape_run_duration_seconds",
			Help:    "Wall time per completed run.",
			Buckets: []float64{0.5, 1, 2, 5, 15, 30, 60, 120},
		}, []string{"result"}),
		pagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookscrape_pages_fetched_total",
			Help: "Listing pages fetched partitioned by HTTP status.",
		}, []string{"status"}),
		fetchBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookscrape_fetch_bytes_total",
			Help: "Bytes downloaded across listing pages.",
		}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookscrape_fetch_duration_seconds",
			Help:    "Fetch duration per listing page.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		}),
		itemsScraped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookscrape_items_scraped_total",
			Help: "Product records extracted across all pages.",
		}),
	}
	for _, collector := range []prometheus.Collector{
		s.runsStarted,
		s.runsCompleted,
		s.runDuration,
		s.pagesFetched,
		s.fetchBytes,
		s.fetchDuration,
		s.itemsScraped,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Record updates the Prometheus collectors for evt. It is safe for
// concurrent use by multiple goroutines.
func (s *PrometheusSink) Record(_ context.Context, evt progress.Event) error {
	switch evt.Stage {
	case progress.StageRunStart:
		s.runsStarted.Inc()
	case progress.StageRunDone:
		s.runsCompleted.WithLabelValues("success").Inc()
		s.observeRun(evt, "success")
	case progress.StageRunError:
		s.runsCompleted.WithLabelValues("error").Inc()
		s.observeRun(evt, "error")
	case progress.StagePageFetched:
		s.pagesFetched.WithLabelValues(strconv.Itoa(evt.StatusCode)).Inc()
		if evt.Bytes > 0 {
			s.fetchBytes.Add(float64(evt.Bytes))
		}
		if evt.Dur > 0 {
			s.fetchDuration.Observe(evt.Dur.Seconds())
		}
	case progress.StagePageParsed:
		s.itemsScraped.Add(float64(evt.Items))
	}
	return nil
}

func (s *PrometheusSink) observeRun(evt progress.Event, result string) {
	if evt.Dur > 0 {
		s.runDuration.WithLabelValues(result).Observe(evt.Dur.Seconds())
	}
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
