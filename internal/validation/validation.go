package validation

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"

	"airlinelookup/internal/models"
)

// MaxFieldLength bounds every sanitized query field, in characters.
const MaxFieldLength = 100

// ErrInvalidRequest is returned when a lookup carries no identifying field.
var ErrInvalidRequest = errors.New("provide name, iata, or icao")

// stripChars are removed from user input before it is used in upstream URLs.
const stripChars = "<>\"'`"

// SanitizeField trims whitespace, removes injection-prone characters and
// truncates the value to MaxFieldLength characters.
func SanitizeField(value string) string {
	value = strings.Map(func(r rune) rune {
		if strings.ContainsRune(stripChars, r) {
			return -1
		}
		return r
	}, value)
	value = strings.TrimSpace(value)

	if utf8.RuneCountInString(value) > MaxFieldLength {
		value = string([]rune(value)[:MaxFieldLength])
		value = strings.TrimSpace(value)
	}
	return value
}

// SanitizeCode sanitizes a code-like field and uppercases it.
func SanitizeCode(value string) string {
	return strings.ToUpper(SanitizeField(value))
}

// ParseQuery builds a normalized LookupQuery from raw request values.
// It fails with ErrInvalidRequest when every field is empty after sanitizing.
func ParseQuery(name, iata, icao string) (models.LookupQuery, error) {
	q := models.LookupQuery{
		Name: SanitizeField(name),
		IATA: SanitizeCode(iata),
		ICAO: SanitizeCode(icao),
	}
	if q.IsEmpty() {
		return q, ErrInvalidRequest
	}
	return q, nil
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// NormalizeScrapedURL turns a scraped href or src into an absolute http(s)
// URL. Protocol-relative URLs get https, bare hosts get https://, and
// anything that still fails ValidateURL yields "".
func NormalizeScrapedURL(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "//"):
		raw = "https:" + raw
	case !strings.Contains(raw, "://") && !strings.Contains(raw, ":") && strings.Contains(raw, "."):
		raw = "https://" + strings.TrimLeft(raw, "/")
	}

	if ok, _ := ValidateURL(raw); !ok {
		return ""
	}
	return raw
}
