package sources

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"airlinelookup/internal/models"
	"airlinelookup/internal/validation"
)

// LabelRule maps table labels containing Match (lowercase) to a record field.
type LabelRule struct {
	Match string
	Field models.Field
}

// NewLabelRule builds a rule from a match string and a field key.
func NewLabelRule(match, field string) (LabelRule, error) {
	f, ok := models.ParseField(field)
	if !ok {
		return LabelRule{}, fmt.Errorf("unknown record field %q", field)
	}
	match = strings.ToLower(strings.TrimSpace(match))
	if match == "" {
		return LabelRule{}, fmt.Errorf("empty label match for field %q", field)
	}
	return LabelRule{Match: match, Field: f}, nil
}

// LabelTable is an ordered list of label rules shared by every HTML adapter.
// The first rule whose Match is contained in a label wins, so more specific
// phrases come before the words they contain.
type LabelTable struct {
	rules []LabelRule
}

// DefaultLabels covers Wikipedia infobox labels and AirlineUpdate table labels.
var DefaultLabels = NewLabelTable([]LabelRule{
	{"sales email", models.FieldEmailSales},
	{"email sales", models.FieldEmailSales},
	{"ops email", models.FieldEmailOps},
	{"email ops", models.FieldEmailOps},
	{"sales phone", models.FieldPhoneSales},
	{"phone sales", models.FieldPhoneSales},
	{"ops phone", models.FieldPhoneOps},
	{"phone ops", models.FieldPhoneOps},
	{"short name", models.FieldShortName},
	{"iata", models.FieldIATA},
	{"icao", models.FieldICAO},
	{"callsign", models.FieldCallsign},
	{"call sign", models.FieldCallsign},
	{"headquarters", models.FieldHeadquarters},
	{"founded", models.FieldFounded},
	{"commenced operations", models.FieldFounded},
	{"website", models.FieldWebsite},
	{"fleet size", models.FieldFleetSize},
	{"aircraft types", models.FieldAircraftTypes},
	{"status", models.FieldStatus},
	{"category", models.FieldCategory},
	{"type", models.FieldType},
	{"key people", models.FieldCEO},
	{"ceo", models.FieldCEO},
	{"parent", models.FieldParentCompany},
	{"destinations", models.FieldDestinations},
	{"hub", models.FieldHubs},
	{"country", models.FieldCountry},
	{"region", models.FieldRegion},
	{"e-mail", models.FieldEmail},
	{"email", models.FieldEmail},
	{"phone", models.FieldPhone},
	{"observations", models.FieldObservations},
})

// NewLabelTable builds a table from rules in priority order.
func NewLabelTable(rules []LabelRule) *LabelTable {
	return &LabelTable{rules: append([]LabelRule(nil), rules...)}
}

// Extend returns a table where extra rules take priority over existing ones.
func (t *LabelTable) Extend(extra []LabelRule) *LabelTable {
	rules := make([]LabelRule, 0, len(extra)+len(t.rules))
	rules = append(rules, extra...)
	rules = append(rules, t.rules...)
	return &LabelTable{rules: rules}
}

// Lookup returns the field for a label.
func (t *LabelTable) Lookup(label string) (models.Field, bool) {
	l := normalizeLabel(label)
	if l == "" {
		return "", false
	}
	for _, r := range t.rules {
		if strings.Contains(l, r.Match) {
			return r.Field, true
		}
	}
	return "", false
}

func normalizeLabel(label string) string {
	l := strings.ToLower(cleanText(label))
	l = strings.TrimRight(l, ": ")
	return l
}

var (
	citationPattern   = regexp.MustCompile(`\[(?:\d+|[a-z]|note \d+|citation needed)\]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	iataPattern       = regexp.MustCompile(`\b(?:[A-Z][A-Z0-9]|[0-9][A-Z])\b`)
	icaoPattern       = regexp.MustCompile(`\b[A-Z]{3}\b`)
)

// cleanText strips citation markers and collapses whitespace.
func cleanText(s string) string {
	s = citationPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.Trim(s, " ,;")
}

// ExtractIATA returns the first two-character alphanumeric code in s.
func ExtractIATA(s string) string {
	return iataPattern.FindString(cleanText(s))
}

// ExtractICAO returns the first three-letter code in s.
func ExtractICAO(s string) string {
	return icaoPattern.FindString(cleanText(s))
}

// CleanCallsign removes bullet separators and any embedded airline codes.
func CleanCallsign(s string, codes ...string) string {
	s = strings.NewReplacer("•", " ", "·", " ", "|", " ").Replace(cleanText(s))

	drop := make(map[string]bool, len(codes))
	for _, c := range codes {
		if c != "" {
			drop[c] = true
		}
	}

	var kept []string
	for _, tok := range strings.Fields(s) {
		if !drop[tok] {
			kept = append(kept, tok)
		}
	}
	if len(kept) == 0 {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(kept, " ")
}

// cleanValue applies field-specific post-processing to a raw label value.
func cleanValue(f models.Field, raw string) string {
	switch f {
	case models.FieldIATA:
		return ExtractIATA(raw)
	case models.FieldICAO:
		return ExtractICAO(raw)
	case models.FieldWebsite, models.FieldLogoURL:
		return validation.NormalizeScrapedURL(cleanText(raw))
	case models.FieldFounded:
		v := cleanText(raw)
		if i := strings.Index(v, ";"); i > 0 {
			v = v[:i]
		}
		return strings.TrimSpace(v)
	default:
		return cleanText(raw)
	}
}

// cellText returns the readable text of a table cell: references and hidden
// markup dropped, list items and line breaks joined with ", ".
func cellText(cell *goquery.Selection) string {
	cell.Find("sup, style, script, .noprint, .mw-ref").Remove()

	if items := cell.Find("li"); items.Length() > 0 {
		var parts []string
		items.Each(func(_ int, li *goquery.Selection) {
			if t := cleanText(li.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		return strings.Join(parts, ", ")
	}

	cell.Find("br").ReplaceWithHtml(", ")
	return cleanText(cell.Text())
}

// cellValue returns the cleaned value of a cell for a field. Website cells
// prefer the first link target over the visible text.
func cellValue(f models.Field, cell *goquery.Selection) string {
	if f == models.FieldWebsite {
		if href, ok := cell.Find("a[href]").First().Attr("href"); ok {
			if u := validation.NormalizeScrapedURL(href); u != "" {
				return u
			}
		}
	}
	return cleanValue(f, cellText(cell))
}
