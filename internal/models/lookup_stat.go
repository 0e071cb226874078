package models

import "time"

// Lookup outcome constants
const (
	OutcomeResolved            = "resolved"
	OutcomeCacheHit            = "cache_hit"
	OutcomeInvalid             = "invalid"
	OutcomeNotFound            = "not_found"
	OutcomeTimeout             = "timeout"
	OutcomeUpstreamUnavailable = "upstream_unavailable"
	OutcomeError               = "error"
)

// LookupStat represents a per-query lookup count by outcome.
type LookupStat struct {
	QueryKey   string
	Outcome    string
	Count      int64
	LastSeenAt time.Time
}
