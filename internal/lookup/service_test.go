package lookup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airlinelookup/internal/cache"
	"airlinelookup/internal/classify"
	"airlinelookup/internal/models"
	"airlinelookup/internal/sources"
	"airlinelookup/internal/validation"
)

type fakeResolver struct {
	name  string
	rec   *models.AirlineRecord
	err   error
	delay time.Duration
	calls atomic.Int32
	seen  []models.LookupQuery
	mu    sync.Mutex
}

func (f *fakeResolver) Name() string { return f.name }

func (f *fakeResolver) Resolve(ctx context.Context, q models.LookupQuery) (*models.AirlineRecord, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.seen = append(f.seen, q)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	rec := *f.rec
	return &rec, nil
}

type fakeEnricher struct {
	name  string
	rec   *models.AirlineRecord
	err   error
	delay time.Duration
	mu    sync.Mutex
	seen  []models.LookupQuery
}

func (f *fakeEnricher) Name() string { return f.name }

func (f *fakeEnricher) Enrich(ctx context.Context, q models.LookupQuery) sources.Result {
	f.mu.Lock()
	f.seen = append(f.seen, q)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return sources.Failed(f.name, f.err)
	}
	rec := *f.rec
	return sources.Succeeded(f.name, &rec)
}

func wrapped(source string, err error) error {
	return fmt.Errorf("%s: %w", source, err)
}

func TestLookupInvalidRequest(t *testing.T) {
	r := &fakeResolver{name: "primary", rec: &models.AirlineRecord{Name: "A"}}
	svc := NewService(Config{Resolvers: []sources.Resolver{r}})

	_, err := svc.Lookup(context.Background(), models.LookupQuery{})
	assert.ErrorIs(t, err, validation.ErrInvalidRequest)
	assert.Equal(t, int32(0), r.calls.Load(), "no upstream call for an invalid request")
}

func TestLookupNotFound(t *testing.T) {
	svc := NewService(Config{Resolvers: []sources.Resolver{
		&fakeResolver{name: "wikipedia", err: wrapped("wikipedia", sources.ErrNotFound)},
		&fakeResolver{name: "aviationstack", err: wrapped("aviationstack", sources.ErrNotFound)},
	}})

	_, err := svc.Lookup(context.Background(), models.LookupQuery{Name: "Nowhere Air"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sources.ErrNotFound)
	assert.Equal(t, models.OutcomeNotFound, Outcome(err))
}

func TestLookupNoResolvers(t *testing.T) {
	_, err := NewService(Config{}).Lookup(context.Background(), models.LookupQuery{IATA: "TP"})
	assert.ErrorIs(t, err, sources.ErrNotFound)
}

func TestLookupErrorPrecedence(t *testing.T) {
	tests := []struct {
		name string
		errs []error
		want error
	}{
		{"all not found", []error{sources.ErrNotFound, sources.ErrNotFound}, sources.ErrNotFound},
		{"timeout wins over not found", []error{sources.ErrNotFound, sources.ErrTimeout}, sources.ErrTimeout},
		{"timeout wins over unavailable", []error{sources.ErrUpstreamUnavailable, sources.ErrTimeout}, sources.ErrTimeout},
		{"unavailable", []error{sources.ErrNotFound, sources.ErrUpstreamUnavailable}, sources.ErrUpstreamUnavailable},
		{"unknown error", []error{errors.New("boom")}, sources.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resolvers []sources.Resolver
			for i, e := range tt.errs {
				resolvers = append(resolvers, &fakeResolver{name: fmt.Sprintf("r%d", i), err: wrapped("r", e)})
			}

			_, err := NewService(Config{Resolvers: resolvers}).Lookup(context.Background(), models.LookupQuery{Name: "X"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			for _, other := range []error{sources.ErrNotFound, sources.ErrTimeout, sources.ErrUpstreamUnavailable} {
				if other != tt.want {
					assert.NotErrorIs(t, err, other)
				}
			}
		})
	}
}

func TestLookupFallsBackToNextResolver(t *testing.T) {
	first := &fakeResolver{name: "wikipedia", err: wrapped("wikipedia", sources.ErrTimeout)}
	second := &fakeResolver{name: "aviationstack", rec: &models.AirlineRecord{Name: "TAP Air Portugal", Country: "Portugal"}}
	third := &fakeResolver{name: "airlineupdate", rec: &models.AirlineRecord{Name: "unused"}}

	svc := NewService(Config{Resolvers: []sources.Resolver{first, second, third}})
	rec, err := svc.Lookup(context.Background(), models.LookupQuery{IATA: "TP"})
	require.NoError(t, err)

	assert.Equal(t, "TAP Air Portugal", rec.Name)
	assert.Equal(t, classify.Europe, rec.Region)
	assert.Equal(t, int32(0), third.calls.Load())
}

func TestLookupEnrichmentPrecedence(t *testing.T) {
	primary := &fakeResolver{name: "wikipedia", rec: &models.AirlineRecord{
		Name:         "TAP Air Portugal",
		IATA:         "TP",
		ICAO:         "TAP",
		FleetSize:    "99",
		Headquarters: "Lisbon, Portugal",
	}}
	// the slower enricher still merges first
	airfleets := &fakeEnricher{name: "airfleets", delay: 30 * time.Millisecond, rec: &models.AirlineRecord{
		FleetSize:     "64",
		AircraftTypes: "Airbus A320",
	}}
	planespotters := &fakeEnricher{name: "planespotters", rec: &models.AirlineRecord{
		AircraftTypes: "3xA330neo",
		LogoURL:       "https://cdn.example/tap.png",
	}}

	svc := NewService(Config{
		Resolvers: []sources.Resolver{primary},
		Enrichers: []sources.Enricher{airfleets, planespotters},
	})
	rec, err := svc.Lookup(context.Background(), models.LookupQuery{Name: "tap"})
	require.NoError(t, err)

	assert.Equal(t, "64", rec.FleetSize)
	assert.Equal(t, "3xA330neo", rec.AircraftTypes)
	assert.Equal(t, "https://cdn.example/tap.png", rec.LogoURL)
	assert.Equal(t, "Portugal", rec.Country)

	require.Len(t, planespotters.seen, 1)
	assert.Equal(t, models.LookupQuery{Name: "TAP Air Portugal", IATA: "TP", ICAO: "TAP"}, planespotters.seen[0])
}

func TestLookupEnricherFailureIgnored(t *testing.T) {
	primary := &fakeResolver{name: "wikipedia", rec: &models.AirlineRecord{Name: "TAP Air Portugal", FleetSize: "99"}}
	broken := &fakeEnricher{name: "airfleets", err: sources.ErrTimeout}

	svc := NewService(Config{
		Resolvers: []sources.Resolver{primary},
		Enrichers: []sources.Enricher{broken},
	})
	rec, err := svc.Lookup(context.Background(), models.LookupQuery{Name: "TAP"})
	require.NoError(t, err)
	assert.Equal(t, "99", rec.FleetSize)
}

func TestLookupCacheRoundTrip(t *testing.T) {
	primary := &fakeResolver{name: "wikipedia", rec: &models.AirlineRecord{Name: "TAP Air Portugal"}}
	mem := cache.NewMemory(10, 50*time.Millisecond)

	svc := NewService(Config{Resolvers: []sources.Resolver{primary}, Cache: mem})
	ctx := context.Background()
	q := models.LookupQuery{Name: "TAP Air Portugal"}

	_, err := svc.Lookup(ctx, q)
	require.NoError(t, err)
	rec, err := svc.Lookup(ctx, models.LookupQuery{Name: "  tap air portugal "})
	require.NoError(t, err)
	assert.Equal(t, "TAP Air Portugal", rec.Name)
	assert.Equal(t, int32(1), primary.calls.Load(), "second lookup within TTL is served from cache")

	time.Sleep(80 * time.Millisecond)

	_, err = svc.Lookup(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int32(2), primary.calls.Load(), "expired entry triggers a fresh fetch")
}

func TestLookupFailuresNotCached(t *testing.T) {
	primary := &fakeResolver{name: "wikipedia", err: sources.ErrNotFound}
	mem := cache.NewMemory(10, time.Hour)

	svc := NewService(Config{Resolvers: []sources.Resolver{primary}, Cache: mem})
	_, err := svc.Lookup(context.Background(), models.LookupQuery{IATA: "ZZ"})
	require.Error(t, err)
	assert.Equal(t, 0, mem.Len())
}

func TestLookupCollapsesConcurrentCalls(t *testing.T) {
	primary := &fakeResolver{name: "wikipedia", delay: 100 * time.Millisecond, rec: &models.AirlineRecord{Name: "TAP Air Portugal"}}
	svc := NewService(Config{Resolvers: []sources.Resolver{primary}})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := svc.Lookup(context.Background(), models.LookupQuery{ICAO: "TAP"})
			assert.NoError(t, err)
			if rec != nil {
				rec.Name = "mutated by caller"
			}
		}()
	}
	wg.Wait()

	assert.Less(t, primary.calls.Load(), int32(10))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, models.OutcomeResolved, Outcome(nil))
	assert.Equal(t, models.OutcomeInvalid, Outcome(validation.ErrInvalidRequest))
	assert.Equal(t, models.OutcomeTimeout, Outcome(wrapped("x", sources.ErrTimeout)))
	assert.Equal(t, models.OutcomeUpstreamUnavailable, Outcome(sources.ErrUpstreamUnavailable))
	assert.Equal(t, models.OutcomeError, Outcome(context.Canceled))
}
