// Package lookup runs the lookup pipeline: cache, primary resolution,
// concurrent enrichment, merge and classification.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"airlinelookup/internal/cache"
	"airlinelookup/internal/classify"
	"airlinelookup/internal/metrics"
	"airlinelookup/internal/models"
	"airlinelookup/internal/sources"
	"airlinelookup/internal/validation"
)

// Config wires a Service.
type Config struct {
	// Resolvers are tried in order until one succeeds.
	Resolvers []sources.Resolver
	// Enrichers run concurrently after resolution and merge in this order.
	Enrichers []sources.Enricher
	Cache     cache.Cache
	Regions   *classify.RegionTable
}

// Service looks up airlines across the configured sources.
type Service struct {
	resolvers  []sources.Resolver
	enrichers  []sources.Enricher
	cache      cache.Cache
	classifier classify.Enricher
	group      singleflight.Group
}

// NewService creates a lookup service. A nil cache disables caching.
func NewService(cfg Config) *Service {
	return &Service{
		resolvers:  cfg.Resolvers,
		enrichers:  cfg.Enrichers,
		cache:      cfg.Cache,
		classifier: classify.Enricher{Regions: cfg.Regions},
	}
}

// Lookup returns the merged, classified record for q. It fails with
// validation.ErrInvalidRequest for an empty query, otherwise with
// sources.ErrNotFound, sources.ErrTimeout or sources.ErrUpstreamUnavailable
// (wrapped) when no resolver succeeds.
func (s *Service) Lookup(ctx context.Context, q models.LookupQuery) (*models.AirlineRecord, error) {
	key := q.CacheKey()
	if q.IsEmpty() {
		metrics.RecordLookup(key, models.OutcomeInvalid)
		return nil, validation.ErrInvalidRequest
	}

	if s.cache != nil {
		if rec, ok := s.cache.Get(ctx, key); ok {
			metrics.RecordCache(true)
			metrics.RecordLookup(key, models.OutcomeCacheHit)
			return rec, nil
		}
		metrics.RecordCache(false)
	}

	// Identical concurrent lookups share one pipeline run. The run is detached
	// from the first caller's cancellation; every upstream call still carries
	// its own timeout.
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx), q)
	})
	if err != nil {
		metrics.RecordLookup(key, Outcome(err))
		return nil, err
	}

	rec := v.(*models.AirlineRecord)
	if s.cache != nil {
		s.cache.Put(ctx, key, rec)
	}
	metrics.RecordLookup(key, models.OutcomeResolved)

	out := *rec
	return &out, nil
}

func (s *Service) fetch(ctx context.Context, q models.LookupQuery) (*models.AirlineRecord, error) {
	primary, source, err := s.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	enrichments := s.enrich(ctx, enrichmentQuery(q, primary))

	results := make([]sources.Result, 0, len(enrichments)+1)
	results = append(results, sources.Succeeded(source, primary))
	results = append(results, enrichments...)

	merged := Merge(results...)
	s.classifier.Apply(merged)
	return merged, nil
}

// resolve tries each resolver in order and returns the first record.
func (s *Service) resolve(ctx context.Context, q models.LookupQuery) (*models.AirlineRecord, string, error) {
	var errs []error
	for _, r := range s.resolvers {
		rec, err := r.Resolve(ctx, q)
		if err == nil && rec != nil {
			return rec, r.Name(), nil
		}
		if err == nil {
			err = fmt.Errorf("%s: %w: empty record", r.Name(), sources.ErrNotFound)
		}
		slog.Info("resolver failed",
			"source", r.Name(),
			"query", q.SearchTerm(),
			"outcome", sources.Outcome(err),
			"error", err,
		)
		errs = append(errs, err)
	}
	return nil, "", combineErrors(q, errs)
}

// combineErrors reports NotFound when every resolver found nothing, Timeout
// when any timed out, and UpstreamUnavailable otherwise.
func combineErrors(q models.LookupQuery, errs []error) error {
	allNotFound := true
	anyTimeout := false
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
		if !errors.Is(err, sources.ErrNotFound) {
			allNotFound = false
		}
		if errors.Is(err, sources.ErrTimeout) {
			anyTimeout = true
		}
	}

	var sentinel error
	switch {
	case allNotFound:
		sentinel = sources.ErrNotFound
	case anyTimeout:
		sentinel = sources.ErrTimeout
	default:
		sentinel = sources.ErrUpstreamUnavailable
	}

	if len(msgs) == 0 {
		return fmt.Errorf("lookup %q: %w: no resolvers configured", q.SearchTerm(), sentinel)
	}
	return fmt.Errorf("lookup %q: %w (%s)", q.SearchTerm(), sentinel, strings.Join(msgs, "; "))
}

// enrich runs every enricher concurrently. Results keep enricher order
// regardless of completion order.
func (s *Service) enrich(ctx context.Context, q models.LookupQuery) []sources.Result {
	results := make([]sources.Result, len(s.enrichers))

	g, gctx := errgroup.WithContext(ctx)
	for i, e := range s.enrichers {
		g.Go(func() error {
			results[i] = e.Enrich(gctx, q)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if !r.OK() {
			slog.Debug("enrichment skipped",
				"source", r.Source,
				"query", q.SearchTerm(),
				"outcome", sources.Outcome(r.Err),
				"error", r.Err,
			)
		}
	}
	return results
}

// enrichmentQuery prefers identifiers found by the primary source over the
// ones the caller typed.
func enrichmentQuery(q models.LookupQuery, primary *models.AirlineRecord) models.LookupQuery {
	eq := q
	if primary.Name != "" {
		eq.Name = primary.Name
	}
	if primary.IATA != "" {
		eq.IATA = primary.IATA
	}
	if primary.ICAO != "" {
		eq.ICAO = primary.ICAO
	}
	return eq
}

// Outcome classifies a Lookup error for metrics and statistics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return models.OutcomeResolved
	case errors.Is(err, validation.ErrInvalidRequest):
		return models.OutcomeInvalid
	case errors.Is(err, sources.ErrNotFound):
		return models.OutcomeNotFound
	case errors.Is(err, sources.ErrTimeout):
		return models.OutcomeTimeout
	case errors.Is(err, sources.ErrUpstreamUnavailable):
		return models.OutcomeUpstreamUnavailable
	default:
		return models.OutcomeError
	}
}
