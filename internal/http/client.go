package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Timeouts are per-request and unconditional: probes answer within 5
// seconds or the coordinate is treated as absent; tile downloads get 10.
const (
	probeTimeout = 5 * time.Second
	fetchTimeout = 10 * time.Second
)

// defaultUserAgent mimics a desktop browser. Tile endpoints are observed to
// reject or throttle obviously non-browser agents.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// ErrNotImage is returned by FetchImage when the response body is not an
// image. Servers commonly answer missing tiles with an HTML error page and
// a 200 status, so the status code alone is not trusted.
var ErrNotImage = errors.New("response is not an image")

// Client wraps HTTP operations with tile-server-specific configuration.
//
// Client provides:
//   - Existence probes (HEAD) for grid boundary discovery
//   - Image downloads with content-type enforcement
//   - Separate probe and download timeouts
//
// Example usage:
//
//	client := NewClient()
//
//	if client.Exists(ctx, probeURL) {
//	    data, err := client.FetchImage(ctx, tileURL)
//	    ...
//	}
type Client struct {
	probeClient *http.Client
	fetchClient *http.Client
	userAgent   string
}

// NewClient creates a new HTTP client configured for tile servers.
func NewClient() *Client {
	return &Client{
		probeClient: &http.Client{Timeout: probeTimeout},
		fetchClient: &http.Client{Timeout: fetchTimeout},
		userAgent:   defaultUserAgent,
	}
}

// Exists reports whether a tile exists at the given URL using a HEAD
// request. Any transport error, timeout, or non-200 response counts as
// absent; probing is a heuristic and callers tolerate false negatives.
func (c *Client) Exists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.probeClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// FetchImage performs a GET request and returns the raw image bytes.
//
// Success requires both an HTTP 2xx status and a Content-Type beginning
// with "image/". Everything else is an error the caller counts as a failed
// tile:
//
//	data, err := client.FetchImage(ctx, tileURL)
//	if err != nil {
//	    tally.Failed++ // transient, never escalated
//	}
func (c *Client) FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.fetchClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return nil, ErrNotImage
	}

	return io.ReadAll(resp.Body)
}
