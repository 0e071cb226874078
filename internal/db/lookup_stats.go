package db

import (
	"context"

	"airlinelookup/internal/models"
)

// IncrementLookup upserts a lookup count for a query key and outcome.
func (d *DB) IncrementLookup(ctx context.Context, queryKey, outcome string) error {
	if queryKey == "" || outcome == "" {
		return ErrInvalidLookupStat
	}
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO lookup_stats (query_key, outcome, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (query_key, outcome) DO UPDATE
		SET count = lookup_stats.count + 1, last_seen_at = NOW()
	`, queryKey, outcome)
	return err
}

// GetAllLookupStats returns all lookup stat rows for metrics export.
func (d *DB) GetAllLookupStats(ctx context.Context) ([]models.LookupStat, error) {
	rows, err := d.Pool.Query(ctx, `SELECT query_key, outcome, count, last_seen_at FROM lookup_stats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.LookupStat
	for rows.Next() {
		var s models.LookupStat
		if err := rows.Scan(&s.QueryKey, &s.Outcome, &s.Count, &s.LastSeenAt); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
