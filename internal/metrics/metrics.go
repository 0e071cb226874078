package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"airlinelookup/internal/db"
)

var (
	lookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airline_lookups_total",
		Help: "Total airline lookups by outcome",
	}, []string{"outcome"})

	sourceRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airline_source_requests_total",
		Help: "Total upstream source requests by source and result",
	}, []string{"source", "result"})

	sourceDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "airline_source_duration_seconds",
		Help:    "Upstream source request latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
	}, []string{"source"})

	cacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airline_cache_requests_total",
		Help: "Response cache lookups by result",
	}, []string{"result"})

	upstreamUp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "airline_upstream_up",
		Help: "Whether an upstream source answered its last reachability probe",
	}, []string{"source"})

	queryLookupDesc = prometheus.NewDesc(
		"airline_query_lookups_total",
		"Total lookup count per query key by outcome",
		[]string{"query", "outcome"},
		nil,
	)
)

// LookupCollector is a custom Prometheus collector that reads per-query
// lookup counts from the database on each scrape.
type LookupCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *LookupCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- queryLookupDesc
}

// Collect queries the database for all lookup stats and emits them as counters.
func (c *LookupCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := c.db.GetAllLookupStats(ctx)
	if err != nil {
		slog.Error("failed to collect lookup metrics", "error", err)
		return
	}
	for _, s := range stats {
		ch <- prometheus.MustNewConstMetric(
			queryLookupDesc,
			prometheus.CounterValue,
			float64(s.Count),
			s.QueryKey,
			s.Outcome,
		)
	}
}

// Recorder provides async lookup recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder *Recorder
	initOnce sync.Once
)

// Init registers the collectors and initializes the recorder.
// Must be called once at startup. A nil database disables per-query stats.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(lookupsTotal, sourceRequestsTotal, sourceDuration, cacheRequestsTotal, upstreamUp)
		if database != nil {
			recorder = &Recorder{db: database}
			prometheus.MustRegister(&LookupCollector{db: database})
		}
	})
}

// RecordLookup counts a lookup outcome and asynchronously persists it per
// query key.
func RecordLookup(queryKey, outcome string) {
	lookupsTotal.WithLabelValues(outcome).Inc()

	if recorder == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.db.IncrementLookup(ctx, queryKey, outcome); err != nil {
			slog.Error("failed to record lookup", "query", queryKey, "outcome", outcome, "error", err)
		}
	}()
}

// ObserveSource records one upstream request.
func ObserveSource(source, result string, d time.Duration) {
	sourceRequestsTotal.WithLabelValues(source, result).Inc()
	sourceDuration.WithLabelValues(source).Observe(d.Seconds())
}

// RecordCache counts a response cache hit or miss.
func RecordCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheRequestsTotal.WithLabelValues(result).Inc()
}

// SetUpstreamUp records the result of a reachability probe.
func SetUpstreamUp(source string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	upstreamUp.WithLabelValues(source).Set(v)
}
