package validation

import (
	"errors"
	"strings"
	"testing"

	"airlinelookup/internal/models"
)

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "TAP Air Portugal", "TAP Air Portugal"},
		{"trims", "   Lufthansa \t\n", "Lufthansa"},
		{"strips angle brackets", "<script>alert(1)</script>", "scriptalert(1)/script"},
		{"strips quotes", `Air "France" 'x'`, "Air France x"},
		{"strips backticks", "`cmd`", "cmd"},
		{"empty", "", ""},
		{"only stripped chars", `<>"'`, ""},
		{"unicode kept", "Aeroméxico", "Aeroméxico"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeField(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFieldTruncates(t *testing.T) {
	long := strings.Repeat("é", MaxFieldLength+20)
	got := SanitizeField(long)
	if n := len([]rune(got)); n != MaxFieldLength {
		t.Errorf("SanitizeField truncated to %d runes, want %d", n, MaxFieldLength)
	}
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name             string
		qName, iata, icao string
		want             models.LookupQuery
		wantErr          bool
	}{
		{"all empty", "", "", "", models.LookupQuery{}, true},
		{"whitespace only", "  ", "\t", " ", models.LookupQuery{}, true},
		{"stripped to nothing", "<>", `""`, "``", models.LookupQuery{}, true},
		{"name", " TAP Air Portugal ", "", "", models.LookupQuery{Name: "TAP Air Portugal"}, false},
		{"iata uppercased", "", " tp ", "", models.LookupQuery{IATA: "TP"}, false},
		{"icao uppercased", "", "", "tap", models.LookupQuery{ICAO: "TAP"}, false},
		{"all fields", "Lufthansa", "lh", "dlh", models.LookupQuery{Name: "Lufthansa", IATA: "LH", ICAO: "DLH"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuery(tt.qName, tt.iata, tt.icao)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Fatalf("ParseQuery() error = %v, want ErrInvalidRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQuery() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseQuery() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"valid https", "https://example.com", true, ""},
		{"valid http", "http://example.com", true, ""},
		{"valid with path", "https://example.com/path/to/page", true, ""},
		{"empty string", "", false, "URL is required"},
		{"javascript scheme", "javascript:alert(1)", false, "URL must use http:// or https:// scheme"},
		{"data scheme", "data:text/html,<script>alert(1)</script>", false, "URL must use http:// or https:// scheme"},
		{"ftp scheme", "ftp://example.com", false, "URL must use http:// or https:// scheme"},
		{"no scheme", "example.com", false, "URL must use http:// or https:// scheme"},
		{"uppercase scheme", "HTTPS://example.com", true, ""},
		{"scheme only", "https://", false, "URL must have a valid host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateURL(tt.url)
			if valid != tt.valid {
				t.Errorf("ValidateURL(%q) valid = %v, want %v", tt.url, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}

func TestNormalizeScrapedURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"protocol relative", "//upload.wikimedia.org/logo.png", "https://upload.wikimedia.org/logo.png"},
		{"absolute", "https://www.flytap.com", "https://www.flytap.com"},
		{"bare host", "www.flytap.com", "https://www.flytap.com"},
		{"javascript", "javascript:alert(1)", ""},
		{"empty", "  ", ""},
		{"relative path", "/wiki/File:Logo.svg", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeScrapedURL(tt.in); got != tt.want {
				t.Errorf("NormalizeScrapedURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
