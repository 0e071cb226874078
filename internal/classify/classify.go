package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"airlinelookup/internal/models"
)

// Airline types.
const (
	TypeMajor    = "major"
	TypeRegional = "regional"
	TypeCargo    = "cargo"
	TypeLowCost  = "low-cost"
	TypeCharter  = "charter"
)

// Categories and statuses.
const (
	CategoryPassenger = "Passenger"
	CategoryCargo     = "Cargo"
	CategoryOther     = "Other"

	StatusActive  = "Active"
	StatusDefunct = "Defunct"
)

// Classification is the result of Classify.
type Classification struct {
	Type     string
	Category string
	Status   string
}

// typeRule maps trigger phrases to an airline type. The first rule with a
// matching phrase wins.
type typeRule struct {
	phrases []string
	typ     string
}

var typeRules = []typeRule{
	{[]string{"flag carrier"}, TypeMajor},
	{[]string{"regional"}, TypeRegional},
	{[]string{"cargo", "freight"}, TypeCargo},
	{[]string{"low-cost", "low cost"}, TypeLowCost},
	{[]string{"charter"}, TypeCharter},
}

// Classify derives type, category and status from a free-text summary.
func Classify(summary string) Classification {
	s := strings.ToLower(summary)

	c := Classification{
		Type:     TypeCharter,
		Category: CategoryOther,
		Status:   StatusActive,
	}

	for _, rule := range typeRules {
		if containsAny(s, rule.phrases...) {
			c.Type = rule.typ
			break
		}
	}

	cargo := containsAny(s, "cargo", "freight")
	passenger := strings.Contains(s, "passenger")
	switch {
	case cargo && !passenger:
		c.Category = CategoryCargo
	case passenger || strings.Contains(s, "airline"):
		c.Category = CategoryPassenger
	}

	// "former" must not match "formerly", which names a past identity.
	if containsWord(s, "defunct") || containsWord(s, "ceased") || containsWord(s, "former") {
		c.Status = StatusDefunct
	}

	return c
}

func containsAny(s string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// containsWord reports whether w occurs in s with no letter or digit directly
// before or after it.
func containsWord(s, w string) bool {
	if w == "" {
		return false
	}
	for i := 0; i+len(w) <= len(s); {
		j := strings.Index(s[i:], w)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(w)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		i = start + 1
	}
	return false
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Enricher fills derived fields on a merged record.
type Enricher struct {
	Regions *RegionTable
}

// Apply derives country, region, type, category and status on r. Values
// already provided by a source are never overwritten.
func (e Enricher) Apply(r *models.AirlineRecord) {
	regions := e.Regions
	if regions == nil {
		regions = DefaultRegions
	}

	r.SetIfEmpty(models.FieldCountry, CountryFromHeadquarters(r.Headquarters))
	r.SetIfEmpty(models.FieldRegion, regions.Detect(r.Country))

	summary := r.Observations
	if summary == "" {
		return
	}
	c := Classify(summary)
	r.SetIfEmpty(models.FieldType, c.Type)
	r.SetIfEmpty(models.FieldCategory, c.Category)
	r.SetIfEmpty(models.FieldStatus, c.Status)
}

// CountryFromHeadquarters returns the last comma-separated segment of a
// headquarters string, e.g. "Lisbon, Portugal" -> "Portugal".
func CountryFromHeadquarters(hq string) string {
	hq = strings.TrimSpace(hq)
	if hq == "" {
		return ""
	}
	parts := strings.Split(hq, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}
