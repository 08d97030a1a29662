package collector

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/dealsync/internal/metrics"
	"github.com/rickgao/dealsync/internal/version"
)

// TransportFailure is the status reported when no HTTP response was
// received at all.
const TransportFailure = -1

// maxBodyBytes bounds how much of the collector response is retained.
const maxBodyBytes = 2048

// Outcome is the terminal result of one delivery attempt.
type Outcome struct {
	Status int    // HTTP status, or -1 for a transport-level failure
	Body   string // response body (truncated), empty on transport failure
	Err    error  // non-nil iff Status == -1
}

// Delivered reports whether the collector acknowledged the payload.
func (o Outcome) Delivered() bool {
	return o.Status >= 200 && o.Status < 300
}

// Deliverer sends one payload and classifies the outcome. Implementations
// must not retry: a failed attempt is terminal.
type Deliverer interface {
	Deliver(ctx context.Context, payload []byte) Outcome
}

// Client posts payloads to the collector endpoint.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates a collector client for the given endpoint URL.
func NewClient(url string, opts ...ClientOption) *Client {
	client := &Client{
		url:       url,
		userAgent: "dealsync/" + version.Version,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Deliver posts one payload. Any HTTP status, success or not, is a
// terminal outcome; a transport-level failure is logged and reported as
// status -1. The caller decides nothing based on the outcome beyond
// logging it.
func (c *Client) Deliver(ctx context.Context, payload []byte) Outcome {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return c.fail(start, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(start, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		// The status line arrived; report it with whatever body we got.
		c.logger.Warn("collector response read failed", "error", err)
	}

	elapsed := time.Since(start)
	outcome := Outcome{Status: resp.StatusCode, Body: string(body)}

	if outcome.Delivered() {
		metrics.RecordDelivery("ok", elapsed.Seconds())
		c.logger.Debug("payload delivered",
			"status", resp.StatusCode,
			"duration", elapsed,
		)
	} else {
		metrics.RecordDelivery("http_error", elapsed.Seconds())
		c.logger.Warn("collector rejected payload",
			"status", resp.StatusCode,
			"body", outcome.Body,
		)
	}

	return outcome
}

func (c *Client) fail(start time.Time, err error) Outcome {
	elapsed := time.Since(start)
	metrics.RecordDelivery("transport_error", elapsed.Seconds())
	c.logger.Warn("delivery failed", "error", err, "duration", elapsed)
	return Outcome{Status: TransportFailure, Err: err}
}
