// Package sheet fetches a published tab-separated session sheet and stages
// the parsed sessions until the user imports them.
package sheet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// maxErrorBody caps how much of a failed response is quoted in the error.
const maxErrorBody = 200

// Client performs the plain GET against the sheet export.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client. When token is non-empty every request carries
// it as a bearer token.
func NewClient(ctx context.Context, token string, timeout time.Duration) *Client {
	base := &http.Client{Timeout: timeout}
	if token == "" {
		return &Client{httpClient: base}
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	hc.Timeout = timeout
	return &Client{httpClient: hc}
}

// Fetch returns the body of url. There is no retry; any non-200 answer is an
// error.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/tab-separated-values, text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sheet request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return "", fmt.Errorf("sheet error %d: %s", resp.StatusCode, msg)
	}
	return string(body), nil
}
