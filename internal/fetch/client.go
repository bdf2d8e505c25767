// Package fetch performs the single network request of a flight search. It
// knows nothing about the query encoding or the response markup; it moves a
// prepared query string out and a raw document body back.
package fetch

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/avoronov/skyfare/internal/query"
	"github.com/avoronov/skyfare/pkg/logger"
)

// Client fetches search result documents from the flight search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *logger.Logger
}

// NewClient creates a new flight search client.
func NewClient(baseURL, userAgent string, timeout time.Duration, logger *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		userAgent: userAgent,
		logger:    logger.Named("fetch"),
	}
}

// Fetch issues one GET for the encoded query value and returns the raw
// response body. All failures come back as *Error.
func (c *Client) Fetch(ctx context.Context, encoded string) (string, error) {
	url := query.BuildURL(c.baseURL, encoded)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &Error{Kind: KindConnection, URL: url, Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	// Pin the locale: the markup shape varies with it.
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	c.logger.Debug("Fetching flight results",
		logger.String("base_url", c.baseURL),
		logger.Int("query_len", len(encoded)),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyRequestError(url, err)
	}
	defer resp.Body.Close()

	// A redirect onto a consent/challenge host means the search itself was
	// never served.
	if isChallengeHost(resp.Request.URL.Host) {
		return "", &Error{Kind: KindBlocked, Status: resp.StatusCode, URL: url}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return "", &Error{Kind: KindBlocked, Status: resp.StatusCode, URL: url}
	default:
		return "", &Error{Kind: KindHTTPStatus, Status: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyRequestError(url, err)
	}

	c.logger.Debug("Fetched flight results",
		logger.Int("body_bytes", len(body)),
		logger.Duration("duration", time.Since(start)),
	)

	return string(body), nil
}

func classifyRequestError(url string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, URL: url, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, URL: url, Err: err}
	}
	return &Error{Kind: KindConnection, URL: url, Err: err}
}

func isChallengeHost(host string) bool {
	return strings.HasPrefix(host, "consent.") || strings.HasPrefix(host, "sorry.")
}
