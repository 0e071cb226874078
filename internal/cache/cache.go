// Package cache stores normalized airline records keyed by LookupQuery.CacheKey.
package cache

import (
	"context"
	"time"

	"airlinelookup/internal/models"
)

// Cache maps a normalized query key to a record. Implementations decide
// freshness; Get never returns an expired record.
type Cache interface {
	Get(ctx context.Context, key string) (*models.AirlineRecord, bool)
	Put(ctx context.Context, key string, rec *models.AirlineRecord)
}

// Entry is a cached record plus the time it was fetched.
type Entry struct {
	Record    models.AirlineRecord `json:"record"`
	FetchedAt time.Time            `json:"fetchedAt"`
}
