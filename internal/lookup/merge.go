package lookup

import (
	"airlinelookup/internal/models"
	"airlinelookup/internal/sources"
)

// Merge combines partial records in source order. For every field the last
// non-empty value wins; failed results contribute nothing. The inputs are
// not modified.
func Merge(results ...sources.Result) *models.AirlineRecord {
	merged := &models.AirlineRecord{}
	for _, r := range results {
		if !r.OK() {
			continue
		}
		for _, f := range models.AllFields {
			if v := r.Record.Get(f); v != "" {
				merged.Set(f, v)
			}
		}
	}
	return merged
}
