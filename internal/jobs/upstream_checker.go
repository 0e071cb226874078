package jobs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"airlinelookup/internal/metrics"
	"airlinelookup/internal/validation"
)

// Target is one upstream source probed by the UpstreamChecker.
type Target struct {
	Source string
	URL    string
}

// UpstreamChecker periodically probes each source's base URL and exports the
// result as the airline_upstream_up gauge.
type UpstreamChecker struct {
	targets   []Target
	interval  time.Duration
	userAgent string
	client    *http.Client
}

// NewUpstreamChecker creates a new upstream checker.
func NewUpstreamChecker(targets []Target, interval, timeout time.Duration, userAgent string) *UpstreamChecker {
	return &UpstreamChecker{
		targets:   targets,
		interval:  interval,
		userAgent: userAgent,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

// Start begins the background check loop.
func (u *UpstreamChecker) Start(ctx context.Context) {
	slog.Info("upstream checker started", "interval", u.interval, "targets", len(u.targets))

	// Run immediately on start
	u.CheckAll(ctx)

	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("upstream checker stopped")
			return
		case <-ticker.C:
			u.CheckAll(ctx)
		}
	}
}

// CheckAll probes every target once and returns the results by source.
func (u *UpstreamChecker) CheckAll(ctx context.Context) map[string]bool {
	results := make(map[string]bool, len(u.targets))
	for _, t := range u.targets {
		select {
		case <-ctx.Done():
			return results
		default:
		}

		up, reason := u.check(ctx, t.URL)
		metrics.SetUpstreamUp(t.Source, up)
		results[t.Source] = up
		if !up {
			slog.Warn("upstream unreachable", "source", t.Source, "reason", reason)
		}
	}
	return results
}

// check performs a HEAD request against url. Any HTTP response means the
// source is reachable.
func (u *UpstreamChecker) check(ctx context.Context, url string) (bool, string) {
	if valid, msg := validation.ValidateURL(url); !valid {
		return false, msg
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, "invalid URL: " + err.Error()
	}
	req.Header.Set("User-Agent", u.userAgent)

	resp, err := u.client.Do(req)
	if err != nil {
		return false, "connection failed"
	}
	defer resp.Body.Close()

	return true, ""
}
