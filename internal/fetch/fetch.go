// Package fetch retrieves the daily hints page.
package fetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spellgrid/gridder/internal/config"
)

// The page location is kept lightly obfuscated, same as the scraper always
// has; decoded once at startup.
const (
	urlPrefixB64 = "aHR0cHM6Ly93d3cubnl0aW1lcy5jb20="
	urlSuffixB64 = "Y3Jvc3N3b3Jkcy9zcGVsbGluZy1iZWUtZm9ydW0uaHRtbA=="
)

// maxResponseSize caps the page body; the hints page is a few hundred KB.
const maxResponseSize = 8 << 20

var (
	urlPrefix = mustDecode(urlPrefixB64)
	urlSuffix = mustDecode(urlSuffixB64)
)

func mustDecode(s string) string {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		panic(fmt.Sprintf("bad embedded url constant: %v", err))
	}
	return string(b)
}

// Client fetches hints pages over HTTP.
type Client struct {
	http      *http.Client
	userAgent string

	// BaseURL overrides the page host. Tests point it at a local server.
	BaseURL string
}

// NewClient creates a fetch client from configuration.
func NewClient(cfg config.FetchConfig) *Client {
	return &Client{
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		userAgent: cfg.UserAgent,
	}
}

// PageURL returns the hints page URL for a puzzle date.
func (c *Client) PageURL(date time.Time) string {
	base := c.BaseURL
	if base == "" {
		base = urlPrefix
	}
	return fmt.Sprintf("%s/%s/%s", base, date.Format("2006/01/02"), urlSuffix)
}

// ForDate fetches the hints page body for the given puzzle date.
func (c *Client) ForDate(ctx context.Context, date time.Time) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PageURL(date), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get info page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("got bad http status from server (%s)", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}
