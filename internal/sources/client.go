package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"airlinelookup/internal/metrics"
)

// maxBodySize caps how much of an upstream response is read.
const maxBodySize = 8 << 20

// Options configure an adapter's outbound HTTP behavior.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client // Optional; a client with Timeout is built when nil
}

// fetcher performs bounded GET requests on behalf of one source.
type fetcher struct {
	source    string
	baseURL   string
	timeout   time.Duration
	userAgent string
	client    *http.Client
}

func newFetcher(source string, opts Options) *fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "AirlineLookup/1.0"
	}
	return &fetcher{
		source:    source,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		timeout:   timeout,
		userAgent: ua,
		client:    client,
	}
}

// get fetches rawURL and returns the body of a 2xx response. A 404 maps to
// ErrNotFound, an exceeded deadline to ErrTimeout and every other failure to
// ErrUpstreamUnavailable.
func (f *fetcher) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	body, err := f.do(ctx, rawURL, accept)
	metrics.ObserveSource(f.source, Outcome(err), time.Since(start))

	if err != nil {
		slog.Warn("upstream request failed",
			"source", f.source,
			"url", redactURL(rawURL),
			"outcome", Outcome(err),
			"error", err,
		)
	}
	return body, err
}

func (f *fetcher) do(ctx context.Context, rawURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid request: %w", f.source, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, f.classify(ctx, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w (HTTP 404)", f.source, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%s: %w (HTTP %d)", f.source, ErrUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, f.classify(ctx, err)
	}
	return body, nil
}

// classify maps a transport error to ErrTimeout or ErrUpstreamUnavailable.
// The url.Error wrapper is dropped so the request URL (and any key in it)
// never reaches the error text.
func (f *fetcher) classify(ctx context.Context, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%s: %w after %v", f.source, ErrTimeout, f.timeout)
	}
	return fmt.Errorf("%s: %w: %v", f.source, ErrUpstreamUnavailable, err)
}

// redactURL hides credentials carried in query parameters.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	for _, key := range []string{"access_key", "api_key", "apikey", "key"} {
		if q.Has(key) {
			q.Set(key, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
