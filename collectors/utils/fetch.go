package utils

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/xerrors"
)

// DefaultTimeout bounds every single fetch.
const DefaultTimeout = 10 * time.Second

// Fetcher retrieves the raw body behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher issues one GET per call with a fixed timeout. Connections are not
// reused between calls.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher return new fetcher instance
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{DisableKeepAlives: true, Proxy: http.ProxyFromEnvironment},
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, xerrors.Errorf("failed to build request for %s: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, xerrors.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, xerrors.Errorf("failed to fetch %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, xerrors.Errorf("failed to read %s: %w", url, err)
	}
	return body, nil
}
