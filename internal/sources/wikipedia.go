package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"airlinelookup/internal/models"
	"airlinelookup/internal/validation"
)

// Wikipedia resolves a query to an article title through the search API and
// extracts the article's infobox.
type Wikipedia struct {
	f      *fetcher
	labels *LabelTable
}

// NewWikipedia creates the Wikipedia resolver. A nil label table uses
// DefaultLabels.
func NewWikipedia(opts Options, labels *LabelTable) *Wikipedia {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://en.wikipedia.org"
	}
	if labels == nil {
		labels = DefaultLabels
	}
	return &Wikipedia{f: newFetcher(SourceWikipedia, opts), labels: labels}
}

// Name returns the source name.
func (w *Wikipedia) Name() string { return SourceWikipedia }

// Resolve looks up the top search hit for the query and parses its infobox.
func (w *Wikipedia) Resolve(ctx context.Context, q models.LookupQuery) (*models.AirlineRecord, error) {
	title, err := w.ResolveTitle(ctx, q.TitleSearchTerm())
	if err != nil {
		return nil, err
	}
	return w.FetchInfobox(ctx, title)
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// ResolveTitle returns the top-ranked article title for an airline search.
func (w *Wikipedia) ResolveTitle(ctx context.Context, term string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", term+" airline")
	params.Set("srlimit", "1")
	params.Set("format", "json")

	body, err := w.f.get(ctx, w.f.baseURL+"/w/api.php?"+params.Encode(), "application/json")
	if err != nil {
		return "", err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%s: %w: decode search response: %v", SourceWikipedia, ErrUpstreamUnavailable, err)
	}
	if len(resp.Query.Search) == 0 || strings.TrimSpace(resp.Query.Search[0].Title) == "" {
		return "", fmt.Errorf("%s: %w: no results for %q", SourceWikipedia, ErrNotFound, term)
	}
	return resp.Query.Search[0].Title, nil
}

// ArticleURL returns the article URL for a title.
func (w *Wikipedia) ArticleURL(title string) string {
	return w.f.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

// FetchInfobox fetches an article and extracts its infobox into a record.
func (w *Wikipedia) FetchInfobox(ctx context.Context, title string) (*models.AirlineRecord, error) {
	body, err := w.f.get(ctx, w.ArticleURL(title), "text/html")
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: parse article: %v", SourceWikipedia, ErrUpstreamUnavailable, err)
	}

	rec, ok := w.parseArticle(doc)
	if !ok {
		return nil, fmt.Errorf("%s: %w: no infobox on %q", SourceWikipedia, ErrNotFound, title)
	}
	rec.SetIfEmpty(models.FieldName, title)
	return rec, nil
}

func (w *Wikipedia) parseArticle(doc *goquery.Document) (*models.AirlineRecord, bool) {
	infobox := doc.Find("table.infobox").First()
	if infobox.Length() == 0 {
		return nil, false
	}

	rec := &models.AirlineRecord{}
	rec.Set(models.FieldName, cleanText(doc.Find("h1#firstHeading").First().Text()))

	// Airline infoboxes carry the codes in a nested table: one header row
	// (IATA, ICAO, Callsign) above one value row.
	infobox.Find("table").Each(func(_ int, t *goquery.Selection) {
		rows := t.Find("tr")
		if rows.Length() < 2 {
			return
		}
		values := rows.Eq(1).ChildrenFiltered("td")
		rows.Eq(0).ChildrenFiltered("th").Each(func(i int, th *goquery.Selection) {
			f, ok := w.labels.Lookup(th.Text())
			if !ok || i >= values.Length() {
				return
			}
			rec.SetIfEmpty(f, cellValue(f, values.Eq(i)))
		})
	})

	infobox.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		th := tr.ChildrenFiltered("th")
		td := tr.ChildrenFiltered("td")
		if th.Length() != 1 || td.Length() != 1 {
			return
		}
		f, ok := w.labels.Lookup(th.Text())
		if !ok {
			return
		}
		rec.SetIfEmpty(f, cellValue(f, td))
	})

	rec.Callsign = CleanCallsign(rec.Callsign, rec.IATA, rec.ICAO)

	if src, ok := infobox.Find("img").First().Attr("src"); ok {
		rec.SetIfEmpty(models.FieldLogoURL, validation.NormalizeScrapedURL(src))
	}

	doc.Find("div.mw-parser-output > p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if p.HasClass("mw-empty-elt") {
			return true
		}
		p.Find("sup, style").Remove()
		if text := cleanText(p.Text()); text != "" {
			rec.Set(models.FieldObservations, text)
			return false
		}
		return true
	})

	return rec, true
}
