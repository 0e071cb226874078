// Package classify derives secondary airline fields from free text. Every
// function here is a heuristic: no match yields an empty value, never an error.
package classify

import (
	"strings"
)

// Region names, in match priority order.
const (
	NorthAmerica = "North America"
	SouthAmerica = "South America"
	Europe       = "Europe"
	Asia         = "Asia"
	Africa       = "Africa"
	Oceania      = "Oceania"
)

// RegionTable maps region names to lowercase country keywords. Order
// decides which region wins when a country matches more than one list.
type RegionTable struct {
	order    []string
	keywords map[string][]string
}

// DefaultRegions is the built-in country keyword table.
var DefaultRegions = NewRegionTable(map[string][]string{
	NorthAmerica: {
		"united states", "usa", "u.s.", "canada", "mexico", "guatemala", "honduras",
		"el salvador", "nicaragua", "costa rica", "panama", "cuba", "jamaica",
		"bahamas", "dominican republic", "haiti", "trinidad", "barbados",
		"puerto rico", "belize", "greenland",
	},
	SouthAmerica: {
		"brazil", "argentina", "chile", "peru", "colombia", "venezuela", "ecuador",
		"bolivia", "paraguay", "uruguay", "guyana", "suriname",
	},
	Europe: {
		"portugal", "spain", "france", "germany", "italy", "united kingdom", "uk",
		"england", "scotland", "ireland", "netherlands", "belgium", "luxembourg",
		"switzerland", "austria", "poland", "czech", "slovakia", "hungary",
		"romania", "bulgaria", "greece", "croatia", "serbia", "slovenia",
		"bosnia", "montenegro", "albania", "north macedonia", "denmark", "norway",
		"sweden", "finland", "iceland", "estonia", "latvia", "lithuania",
		"ukraine", "belarus", "moldova", "russia", "malta", "cyprus", "turkey",
		"türkiye", "georgia", "armenia", "azerbaijan",
	},
	Asia: {
		"china", "japan", "korea", "india", "pakistan", "bangladesh", "sri lanka",
		"nepal", "thailand", "vietnam", "malaysia", "singapore", "indonesia",
		"philippines", "taiwan", "hong kong", "macau", "mongolia", "cambodia",
		"laos", "myanmar", "kazakhstan", "uzbekistan", "afghanistan", "iran",
		"iraq", "israel", "jordan", "lebanon", "syria", "saudi arabia", "qatar",
		"united arab emirates", "uae", "bahrain", "kuwait", "oman", "yemen",
		"maldives", "bhutan", "brunei",
	},
	Africa: {
		"south africa", "nigeria", "niger", "egypt", "kenya", "ethiopia", "morocco",
		"algeria", "tunisia", "libya", "ghana", "senegal", "tanzania", "uganda",
		"rwanda", "angola", "mozambique", "zambia", "zimbabwe", "namibia",
		"botswana", "cameroon", "ivory coast", "côte d'ivoire", "sudan",
		"madagascar", "mauritius", "cape verde", "gabon", "congo", "guinea",
		"mali", "togo", "benin", "malawi", "seychelles",
	},
	Oceania: {
		"australia", "new zealand", "fiji", "papua new guinea", "samoa", "tonga",
		"vanuatu", "solomon islands", "new caledonia", "french polynesia",
		"tahiti", "kiribati", "nauru", "palau",
	},
})

// NewRegionTable builds a table in the fixed six-region priority order.
// Regions outside the six known names are appended after them.
func NewRegionTable(keywords map[string][]string) *RegionTable {
	t := &RegionTable{
		order:    []string{NorthAmerica, SouthAmerica, Europe, Asia, Africa, Oceania},
		keywords: make(map[string][]string, len(keywords)),
	}
	for region, words := range keywords {
		t.add(region, words)
	}
	return t
}

func (t *RegionTable) add(region string, words []string) {
	if _, ok := t.keywords[region]; !ok && !t.known(region) {
		t.order = append(t.order, region)
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			t.keywords[region] = append(t.keywords[region], w)
		}
	}
}

func (t *RegionTable) known(region string) bool {
	for _, r := range t.order {
		if r == region {
			return true
		}
	}
	return false
}

// Extend returns a copy of the table with extra keywords appended.
func (t *RegionTable) Extend(extra map[string][]string) *RegionTable {
	out := &RegionTable{
		order:    append([]string(nil), t.order...),
		keywords: make(map[string][]string, len(t.keywords)),
	}
	for region, words := range t.keywords {
		out.keywords[region] = append([]string(nil), words...)
	}
	for region, words := range extra {
		out.add(region, words)
	}
	return out
}

// Detect returns the region for a country name. A keyword equal to the whole
// country wins first; otherwise the first region in priority order with a
// keyword appearing as whole words in the country wins.
func (t *RegionTable) Detect(country string) string {
	c := strings.ToLower(strings.TrimSpace(country))
	if c == "" {
		return ""
	}

	for _, region := range t.order {
		for _, w := range t.keywords[region] {
			if c == w {
				return region
			}
		}
	}

	for _, region := range t.order {
		for _, w := range t.keywords[region] {
			if containsWord(c, w) {
				return region
			}
		}
	}
	return ""
}

// DetectRegion returns the region for a country using DefaultRegions.
func DetectRegion(country string) string {
	return DefaultRegions.Detect(country)
}
