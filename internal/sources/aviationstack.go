package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"airlinelookup/internal/models"
)

// AviationStack queries the airlines endpoint of the AviationStack REST API.
type AviationStack struct {
	apiKey string
	f      *fetcher
}

// NewAviationStack creates the AviationStack resolver. The key is sent as the
// access_key query parameter and never logged.
func NewAviationStack(apiKey string, opts Options) *AviationStack {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://api.aviationstack.com/v1"
	}
	return &AviationStack{apiKey: apiKey, f: newFetcher(SourceAviationStack, opts)}
}

// Name returns the source name.
func (a *AviationStack) Name() string { return SourceAviationStack }

// flexString accepts a JSON string, number or null.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(b)
	return nil
}

type asAirline struct {
	AirlineName string     `json:"airline_name"`
	IATACode    string     `json:"iata_code"`
	ICAOCode    string     `json:"icao_code"`
	Callsign    string     `json:"callsign"`
	CountryName string     `json:"country_name"`
	FleetSize   flexString `json:"fleet_size"`
	DateFounded flexString `json:"date_founded"`
	HubCode     string     `json:"hub_code"`
	Status      string     `json:"status"`
	Type        string     `json:"type"`
}

type asAirlinesResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Data []asAirline `json:"data"`
}

// Resolve queries by IATA, then ICAO, then free-text name.
func (a *AviationStack) Resolve(ctx context.Context, q models.LookupQuery) (*models.AirlineRecord, error) {
	params := url.Values{"access_key": {a.apiKey}}
	switch {
	case q.IATA != "":
		params.Set("iata_code", q.IATA)
	case q.ICAO != "":
		params.Set("icao_code", q.ICAO)
	default:
		params.Set("search", q.Name)
	}

	body, err := a.f.get(ctx, a.f.baseURL+"/airlines?"+params.Encode(), "application/json")
	if err != nil {
		return nil, err
	}

	var resp asAirlinesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w: decode response: %v", SourceAviationStack, ErrUpstreamUnavailable, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%s: %w: %s", SourceAviationStack, ErrUpstreamUnavailable, resp.Error.Code)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%s: %w: no airline for %q", SourceAviationStack, ErrNotFound, q.SearchTerm())
	}

	d := resp.Data[0]
	rec := &models.AirlineRecord{}
	rec.Set(models.FieldName, d.AirlineName)
	rec.Set(models.FieldIATA, strings.ToUpper(d.IATACode))
	rec.Set(models.FieldICAO, strings.ToUpper(d.ICAOCode))
	rec.Set(models.FieldCallsign, d.Callsign)
	rec.Set(models.FieldCountry, d.CountryName)
	rec.Set(models.FieldFleetSize, string(d.FleetSize))
	rec.Set(models.FieldFounded, string(d.DateFounded))
	rec.Set(models.FieldHubs, d.HubCode)
	rec.Set(models.FieldStatus, capitalize(d.Status))
	rec.Set(models.FieldType, d.Type)
	return rec, nil
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
