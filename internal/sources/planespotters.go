package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"airlinelookup/internal/models"
	"airlinelookup/internal/validation"
)

// Planespotters reads an airline's fleet list and logo from the public API.
type Planespotters struct {
	f *fetcher
}

// NewPlanespotters creates the Planespotters enricher.
func NewPlanespotters(opts Options) *Planespotters {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.planespotters.net"
	}
	return &Planespotters{f: newFetcher(SourcePlanespotters, opts)}
}

// Name returns the source name.
func (p *Planespotters) Name() string { return SourcePlanespotters }

type fleetResponse struct {
	Airline struct {
		Name    string `json:"name"`
		IATA    string `json:"iata"`
		ICAO    string `json:"icao"`
		Country string `json:"country"`
		Website string `json:"website"`
		Logo    string `json:"logo"`
	} `json:"airline"`
	Aircraft []struct {
		Registration string `json:"registration"`
		Type         string `json:"type"`
	} `json:"aircraft"`
}

// Enrich fetches the fleet keyed by ICAO, falling back to IATA.
func (p *Planespotters) Enrich(ctx context.Context, q models.LookupQuery) Result {
	code := q.ICAO
	if code == "" {
		code = q.IATA
	}
	if code == "" {
		return Failed(SourcePlanespotters, fmt.Errorf("%s: %w: no airline code", SourcePlanespotters, ErrNotFound))
	}

	body, err := p.f.get(ctx, p.f.baseURL+"/pub/fleet/"+url.PathEscape(code), "application/json")
	if err != nil {
		return Failed(SourcePlanespotters, err)
	}

	var resp fleetResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Failed(SourcePlanespotters, fmt.Errorf("%s: %w: decode fleet: %v", SourcePlanespotters, ErrUpstreamUnavailable, err))
	}

	rec := &models.AirlineRecord{}
	rec.Set(models.FieldCountry, resp.Airline.Country)
	rec.Set(models.FieldWebsite, validation.NormalizeScrapedURL(resp.Airline.Website))
	rec.Set(models.FieldLogoURL, validation.NormalizeScrapedURL(resp.Airline.Logo))

	types := make([]string, 0, len(resp.Aircraft))
	for _, a := range resp.Aircraft {
		types = append(types, a.Type)
	}
	if summary, total := TallyAircraft(types); total > 0 {
		rec.AircraftTypes = summary
		rec.FleetSize = strconv.Itoa(total)
	}

	if rec.IsEmpty() {
		return Failed(SourcePlanespotters, fmt.Errorf("%s: %w: empty fleet for %q", SourcePlanespotters, ErrNotFound, code))
	}
	return Succeeded(SourcePlanespotters, rec)
}

// TallyAircraft counts aircraft per type and formats them as "<count>x<type>",
// most common first, ties by type name. Blank types are skipped.
func TallyAircraft(types []string) (string, int) {
	counts := make(map[string]int)
	total := 0
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		counts[t]++
		total++
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strconv.Itoa(counts[k]) + "x" + k
	}
	return strings.Join(parts, ", "), total
}
