package sources

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"airlinelookup/internal/models"
	"airlinelookup/internal/validation"
)

// AirlineUpdate scrapes the public airline profile pages of airlineupdate.com,
// laid out as <td>Label</td><td>Value</td> rows.
type AirlineUpdate struct {
	f      *fetcher
	labels *LabelTable
}

// NewAirlineUpdate creates the AirlineUpdate resolver. A nil label table uses
// DefaultLabels.
func NewAirlineUpdate(opts Options, labels *LabelTable) *AirlineUpdate {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.airlineupdate.com"
	}
	if labels == nil {
		labels = DefaultLabels
	}
	return &AirlineUpdate{f: newFetcher(SourceAirlineUpdate, opts), labels: labels}
}

// Name returns the source name.
func (a *AirlineUpdate) Name() string { return SourceAirlineUpdate }

// resolveRef makes a root-relative src absolute against the page it came
// from. Anything else goes through NormalizeScrapedURL.
func resolveRef(pageURL, ref string) string {
	if strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
		base, err := url.Parse(pageURL)
		if err != nil {
			return ""
		}
		u, err := base.Parse(ref)
		if err != nil {
			return ""
		}
		return validation.NormalizeScrapedURL(u.String())
	}
	return validation.NormalizeScrapedURL(ref)
}

// PageURL returns the profile page URL for a search term.
func (a *AirlineUpdate) PageURL(term string) string {
	return a.f.baseURL + "/content_public/airlines/" + url.PathEscape(term) + ".htm"
}

// Resolve fetches the profile page for the query's search term.
func (a *AirlineUpdate) Resolve(ctx context.Context, q models.LookupQuery) (*models.AirlineRecord, error) {
	term := q.SearchTerm()
	body, err := a.f.get(ctx, a.PageURL(term), "text/html")
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: parse page: %v", SourceAirlineUpdate, ErrUpstreamUnavailable, err)
	}

	rec := &models.AirlineRecord{}
	rec.Set(models.FieldName, cleanText(doc.Find("h1").First().Text()))

	// Rows hold one or more label/value pairs.
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td")
		for i := 0; i+1 < cells.Length(); i += 2 {
			f, ok := a.labels.Lookup(cells.Eq(i).Text())
			if !ok {
				continue
			}
			rec.SetIfEmpty(f, cellValue(f, cells.Eq(i+1)))
		}
	})
	rec.Callsign = CleanCallsign(rec.Callsign, rec.IATA, rec.ICAO)

	if src, ok := doc.Find("img.logo").First().Attr("src"); ok {
		rec.Set(models.FieldLogoURL, resolveRef(a.PageURL(term), src))
	}

	if rec.IsEmpty() {
		return nil, fmt.Errorf("%s: %w: empty profile for %q", SourceAirlineUpdate, ErrNotFound, term)
	}
	return rec, nil
}
