package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"airlinelookup/internal/models"
)

// maxAircraftTypeLength excludes footnotes and headings from the type column.
const maxAircraftTypeLength = 30

var digitsPattern = regexp.MustCompile(`\d+`)

// Airfleets scrapes the fleet table of an airline page.
type Airfleets struct {
	f *fetcher
}

// NewAirfleets creates the Airfleets enricher.
func NewAirfleets(opts Options) *Airfleets {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.airfleets.net"
	}
	return &Airfleets{f: newFetcher(SourceAirfleets, opts)}
}

// Name returns the source name.
func (a *Airfleets) Name() string { return SourceAirfleets }

// Enrich fetches the fleet page keyed by ICAO, falling back to IATA then name.
func (a *Airfleets) Enrich(ctx context.Context, q models.LookupQuery) Result {
	key := q.EnrichmentKey()
	if key == "" {
		return Failed(SourceAirfleets, fmt.Errorf("%s: %w: no airline identifier", SourceAirfleets, ErrNotFound))
	}

	body, err := a.f.get(ctx, a.PageURL(key), "text/html")
	if err != nil {
		return Failed(SourceAirfleets, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Failed(SourceAirfleets, fmt.Errorf("%s: %w: parse page: %v", SourceAirfleets, ErrUpstreamUnavailable, err))
	}

	rec := parseFleetTable(doc)
	if rec.IsEmpty() {
		return Failed(SourceAirfleets, fmt.Errorf("%s: %w: no fleet table for %q", SourceAirfleets, ErrNotFound, key))
	}
	return Succeeded(SourceAirfleets, rec)
}

// PageURL returns the fleet page URL for an airline key.
func (a *Airfleets) PageURL(key string) string {
	return a.f.baseURL + "/flottecie/" + url.PathEscape(key) + ".htm"
}

func parseFleetTable(doc *goquery.Document) *models.AirlineRecord {
	rec := &models.AirlineRecord{}

	doc.Find("td").EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if !strings.EqualFold(cleanText(td.Text()), "total") {
			return true
		}
		if n := digitsPattern.FindString(cleanText(td.Next().Text())); n != "" {
			rec.FleetSize = n
			return false
		}
		return true
	})

	seen := make(map[string]bool)
	var types []string
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td")
		if cells.Length() < 2 {
			return
		}
		name := cleanText(cells.First().Text())
		if name == "" || strings.EqualFold(name, "total") || len(name) > maxAircraftTypeLength || seen[name] {
			return
		}
		seen[name] = true
		types = append(types, name)
	})
	rec.AircraftTypes = strings.Join(types, ", ")

	return rec
}
