package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airlinelookup/internal/config"
	"airlinelookup/internal/handlers/api"
	"airlinelookup/internal/models"
)

type stubLookuper struct{}

func (stubLookuper) Lookup(_ context.Context, q models.LookupQuery) (*models.AirlineRecord, error) {
	return &models.AirlineRecord{Name: "Stub Air", IATA: q.IATA}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		ServerAddr:       ":0",
		CORSOrigins:      "*",
		RateLimitMax:     100,
		AviationStackKey: "abcdefgh",
	}
}

func newTestServer(cfg *config.Config) *Server {
	s := New(cfg, nil)
	s.RegisterRoutes(stubLookuper{}, map[string]api.Pinger{})
	return s
}

func TestRoutes(t *testing.T) {
	s := newTestServer(testConfig())

	tests := []struct {
		target string
		want   int
	}{
		{"/", http.StatusOK},
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/check", http.StatusOK},
		{"/airline?iata=TP", http.StatusOK},
		{"/airline", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestUnknownRouteReturnsJSON(t *testing.T) {
	s := newTestServer(testConfig())

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "error", body.Status)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(testConfig())

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get("X-Request-ID"), 36, "uuid request id")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMax = 2
	s := newTestServer(cfg)

	var last *http.Response
	for i := 0; i < 3; i++ {
		resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/airline?iata=TP", nil))
		require.NoError(t, err)
		last = resp
	}
	assert.Equal(t, http.StatusTooManyRequests, last.StatusCode)

	// probes bypass the limiter
	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimitDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMax = 0
	s := newTestServer(cfg)

	for i := 0; i < 5; i++ {
		resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/check", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestCheckDoesNotLeakKey(t *testing.T) {
	s := newTestServer(testConfig())

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/check", nil))
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"keyPrefix":"abcd"`)
	assert.NotContains(t, string(body), "abcdefgh")
}

func TestBuildTLSConfigWithoutCA(t *testing.T) {
	tc := buildTLSConfig(&config.Config{TLSEnabled: true})
	assert.Equal(t, uint16(tls.VersionTLS12), tc.MinVersion)
	assert.Nil(t, tc.ClientCAs)
	assert.Equal(t, tls.NoClientCert, tc.ClientAuth)
}
