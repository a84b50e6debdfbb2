// Package htmlfetch retrieves pages with browser-like headers and reduces HTML to text.
package htmlfetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/pvhub/internal/logger"
)

// DefaultUserAgent is a desktop Chrome user agent. Several of the scraped
// sites serve an empty shell to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	DefaultTimeout      = 15 * time.Second
	DefaultRetries      = 2
	DefaultMaxRedirects = 5
	backoffStep         = 2 * time.Second
)

// Config holds fetcher settings. Zero values take the defaults above.
type Config struct {
	Timeout   time.Duration
	Retries   int
	UserAgent string
}

// Fetcher performs GET requests with retry and linear backoff.
type Fetcher struct {
	client  *resty.Client
	retries int
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewFetcher creates a Fetcher. A negative Retries is treated as zero.
func NewFetcher(cfg Config) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(DefaultMaxRedirects))
	client.SetHeaders(map[string]string{
		"User-Agent":      ua,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8",
		"Referer":         "https://www.google.com/",
	})

	return &Fetcher{
		client:  client,
		retries: retries,
		sleep:   sleepContext,
	}
}

// Backoff returns the wait after the given failed attempt (0-based):
// 2s, 4s, 6s, ...
func Backoff(attempt int) time.Duration {
	return backoffStep * time.Duration(attempt+1)
}

// FetchHTML returns the body of url. Failed attempts are retried up to the
// configured count with linear backoff; once retries are exhausted the last
// error is returned. Non-2xx responses count as failures.
func (f *Fetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		body, err := f.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if attempt == f.retries {
			break
		}

		wait := Backoff(attempt)
		logger.CtxDebug(ctx, "Fetch failed, retrying: url=%s, attempt=%d, wait=%s, error=%v", url, attempt+1, wait, err)
		if err := f.sleep(ctx, wait); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", fmt.Errorf("failed to fetch %s: HTTP %d", url, resp.StatusCode())
	}
	return resp.String(), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
