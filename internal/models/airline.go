package models

import "strings"

// Field identifies one AirlineRecord field by its JSON key.
type Field string

// Record field keys. These are the wire names the frontend reads.
const (
	FieldName          Field = "name"
	FieldShortName     Field = "shortName"
	FieldIATA          Field = "iata"
	FieldICAO          Field = "icao"
	FieldCountry       Field = "country"
	FieldRegion        Field = "region"
	FieldFleetSize     Field = "fleet_size"
	FieldAircraftTypes Field = "aircraft_types"
	FieldHeadquarters  Field = "headquarters"
	FieldFounded       Field = "founded"
	FieldWebsite       Field = "website"
	FieldEmail         Field = "email"
	FieldPhone         Field = "phone"
	FieldCallsign      Field = "callsign"
	FieldType          Field = "type"
	FieldStatus        Field = "status"
	FieldCategory      Field = "category"
	FieldEmailSales    Field = "email_sales"
	FieldEmailOps      Field = "email_ops"
	FieldPhoneSales    Field = "phone_sales"
	FieldPhoneOps      Field = "phone_ops"
	FieldLogoURL       Field = "logo_url"
	FieldObservations  Field = "observations"
	FieldCEO           Field = "ceo"
	FieldParentCompany Field = "parent_company"
	FieldDestinations  Field = "destinations"
	FieldHubs          Field = "hubs"
)

// AllFields lists every record field in output order.
var AllFields = []Field{
	FieldName, FieldShortName, FieldIATA, FieldICAO, FieldCountry, FieldRegion,
	FieldFleetSize, FieldAircraftTypes, FieldHeadquarters, FieldFounded,
	FieldWebsite, FieldEmail, FieldPhone, FieldCallsign, FieldType, FieldStatus,
	FieldCategory, FieldEmailSales, FieldEmailOps, FieldPhoneSales, FieldPhoneOps,
	FieldLogoURL, FieldObservations, FieldCEO, FieldParentCompany,
	FieldDestinations, FieldHubs,
}

// ParseField returns the field for a JSON key.
func ParseField(key string) (Field, bool) {
	for _, f := range AllFields {
		if string(f) == key {
			return f, true
		}
	}
	return "", false
}

// AirlineRecord is the normalized airline output. An empty string means the
// field is unknown; every key is always present in JSON.
type AirlineRecord struct {
	Name          string `json:"name" csv:"name"`
	ShortName     string `json:"shortName" csv:"shortName"`
	IATA          string `json:"iata" csv:"iata"`
	ICAO          string `json:"icao" csv:"icao"`
	Country       string `json:"country" csv:"country"`
	Region        string `json:"region" csv:"region"`
	FleetSize     string `json:"fleet_size" csv:"fleet_size"`
	AircraftTypes string `json:"aircraft_types" csv:"aircraft_types"`
	Headquarters  string `json:"headquarters" csv:"headquarters"`
	Founded       string `json:"founded" csv:"founded"`
	Website       string `json:"website" csv:"website"`
	Email         string `json:"email" csv:"email"`
	Phone         string `json:"phone" csv:"phone"`
	Callsign      string `json:"callsign" csv:"callsign"`
	Type          string `json:"type" csv:"type"`
	Status        string `json:"status" csv:"status"`
	Category      string `json:"category" csv:"category"`
	EmailSales    string `json:"email_sales" csv:"email_sales"`
	EmailOps      string `json:"email_ops" csv:"email_ops"`
	PhoneSales    string `json:"phone_sales" csv:"phone_sales"`
	PhoneOps      string `json:"phone_ops" csv:"phone_ops"`
	LogoURL       string `json:"logo_url" csv:"logo_url"`
	Observations  string `json:"observations" csv:"observations"`
	CEO           string `json:"ceo" csv:"ceo"`
	ParentCompany string `json:"parent_company" csv:"parent_company"`
	Destinations  string `json:"destinations" csv:"destinations"`
	Hubs          string `json:"hubs" csv:"hubs"`
}

func (r *AirlineRecord) ptr(f Field) *string {
	switch f {
	case FieldName:
		return &r.Name
	case FieldShortName:
		return &r.ShortName
	case FieldIATA:
		return &r.IATA
	case FieldICAO:
		return &r.ICAO
	case FieldCountry:
		return &r.Country
	case FieldRegion:
		return &r.Region
	case FieldFleetSize:
		return &r.FleetSize
	case FieldAircraftTypes:
		return &r.AircraftTypes
	case FieldHeadquarters:
		return &r.Headquarters
	case FieldFounded:
		return &r.Founded
	case FieldWebsite:
		return &r.Website
	case FieldEmail:
		return &r.Email
	case FieldPhone:
		return &r.Phone
	case FieldCallsign:
		return &r.Callsign
	case FieldType:
		return &r.Type
	case FieldStatus:
		return &r.Status
	case FieldCategory:
		return &r.Category
	case FieldEmailSales:
		return &r.EmailSales
	case FieldEmailOps:
		return &r.EmailOps
	case FieldPhoneSales:
		return &r.PhoneSales
	case FieldPhoneOps:
		return &r.PhoneOps
	case FieldLogoURL:
		return &r.LogoURL
	case FieldObservations:
		return &r.Observations
	case FieldCEO:
		return &r.CEO
	case FieldParentCompany:
		return &r.ParentCompany
	case FieldDestinations:
		return &r.Destinations
	case FieldHubs:
		return &r.Hubs
	}
	return nil
}

// Get returns the value of a field, or "" for an unknown field.
func (r *AirlineRecord) Get(f Field) string {
	if p := r.ptr(f); p != nil {
		return *p
	}
	return ""
}

// Set assigns a trimmed value to a field. Unknown fields are ignored.
func (r *AirlineRecord) Set(f Field, value string) {
	if p := r.ptr(f); p != nil {
		*p = strings.TrimSpace(value)
	}
}

// SetIfEmpty assigns a value only when the field has no value yet.
func (r *AirlineRecord) SetIfEmpty(f Field, value string) {
	if r.Get(f) == "" {
		r.Set(f, value)
	}
}

// IsEmpty reports whether no field carries a value.
func (r *AirlineRecord) IsEmpty() bool {
	for _, f := range AllFields {
		if r.Get(f) != "" {
			return false
		}
	}
	return true
}

// LookupQuery identifies the airline to look up. At least one field is set
// once it has passed validation.
type LookupQuery struct {
	Name string `json:"name,omitempty"`
	IATA string `json:"iata,omitempty"`
	ICAO string `json:"icao,omitempty"`
}

// IsEmpty reports whether no identifying field is present.
func (q LookupQuery) IsEmpty() bool {
	return q.Name == "" && q.IATA == "" && q.ICAO == ""
}

// CacheKey returns the normalized key used by the response cache.
func (q LookupQuery) CacheKey() string {
	return strings.ToLower(strings.TrimSpace(q.Name)) + "|" +
		strings.ToUpper(strings.TrimSpace(q.IATA)) + "|" +
		strings.ToUpper(strings.TrimSpace(q.ICAO))
}

// SearchTerm returns the most specific identifier: IATA, then ICAO, then name.
func (q LookupQuery) SearchTerm() string {
	switch {
	case q.IATA != "":
		return q.IATA
	case q.ICAO != "":
		return q.ICAO
	default:
		return q.Name
	}
}

// EnrichmentKey returns the identifier enrichment pages are keyed by: ICAO,
// then IATA, then name.
func (q LookupQuery) EnrichmentKey() string {
	switch {
	case q.ICAO != "":
		return q.ICAO
	case q.IATA != "":
		return q.IATA
	default:
		return q.Name
	}
}

// TitleSearchTerm returns the term for a full-text title search. The name is
// the most distinctive when present; otherwise SearchTerm is used.
func (q LookupQuery) TitleSearchTerm() string {
	if q.Name != "" {
		return q.Name
	}
	return q.SearchTerm()
}
