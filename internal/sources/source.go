// Package sources holds the upstream adapters. Each adapter turns one
// external page or API into a partial AirlineRecord. Markup and response
// shapes are assumptions local to the adapter; every extracted field is
// optional.
package sources

import (
	"context"
	"errors"

	"airlinelookup/internal/models"
)

// Adapter failure conditions.
var (
	ErrNotFound            = errors.New("airline not found")
	ErrTimeout             = errors.New("upstream timed out")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Source names used in logs and metrics.
const (
	SourceWikipedia     = "wikipedia"
	SourceAirfleets     = "airfleets"
	SourcePlanespotters = "planespotters"
	SourceAviationStack = "aviationstack"
	SourceAirlineUpdate = "airlineupdate"
)

// Resolver is a primary source: it establishes the airline's identity and
// reports failures to the caller.
type Resolver interface {
	// Name returns the source name for logging.
	Name() string

	// Resolve returns a partial record, or ErrNotFound, ErrTimeout or
	// ErrUpstreamUnavailable (possibly wrapped).
	Resolve(ctx context.Context, q models.LookupQuery) (*models.AirlineRecord, error)
}

// Enricher is a best-effort source. It never returns an error past its own
// boundary; failures are carried in the Result.
type Enricher interface {
	Name() string
	Enrich(ctx context.Context, q models.LookupQuery) Result
}

// Result is the outcome of one adapter call. A failed result contributes
// nothing to a merge.
type Result struct {
	Source string
	Record *models.AirlineRecord
	Err    error
}

// OK reports whether the result carries a record.
func (r Result) OK() bool {
	return r.Err == nil && r.Record != nil
}

// Succeeded wraps a record in a Result.
func Succeeded(source string, rec *models.AirlineRecord) Result {
	return Result{Source: source, Record: rec}
}

// Failed wraps an error in a Result.
func Failed(source string, err error) Result {
	return Result{Source: source, Err: err}
}

// Outcome classifies an adapter error for logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	default:
		return "error"
	}
}
