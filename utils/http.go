// utils/http.go
package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient is the shared client for all connector fetches. Every external
// call is bounded by its timeout; no fetch may block a run indefinitely.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

const fetchUserAgent = "deadpool-stars-aligned/1.0 (+https://github.com/Aggiebryan/deadpool-stars-aligned-sub000)"

// FetchURL GETs a URL with the shared bounded client and returns the body,
// capped at 10MB so a runaway page cannot exhaust memory.
func FetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read body from %s: %w", rawURL, err)
	}
	return body, nil
}
