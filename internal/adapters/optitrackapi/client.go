// Package optitrackapi is the typed REST client for the OptiTrack API.
package optitrackapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	apperrors "github.com/optitrack/optitrack-ui/internal/errors"
	"github.com/optitrack/optitrack-ui/internal/observability/metrics"
)

const (
	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 10 * time.Second
	// maxErrorBody caps how much of an error response is read for its message.
	maxErrorBody = 4 << 10
	// maxPlainMessage is the longest plain-text body shown to users verbatim.
	maxPlainMessage = 200
)

// Config configures the API client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second; zero or negative disables limiting
	RateBurst int
	// Transport is the base round tripper; http.DefaultTransport when nil.
	Transport http.RoundTripper
	Logger    *slog.Logger
	Metrics   metrics.Recorder
}

// Client calls the OptiTrack API on behalf of a signed-in user.
// It is safe for concurrent use.
type Client struct {
	base      *url.URL
	timeout   time.Duration
	transport http.RoundTripper
	limiter   *rate.Limiter
	logger    *slog.Logger
	metrics   metrics.Recorder
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("optitrack api: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("optitrack api: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("optitrack api: base URL must be http or https, got %q", base.Scheme)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		base:      base,
		timeout:   timeout,
		transport: transport,
		limiter:   limiter,
		logger:    logger.With("component", "optitrack_api"),
		metrics:   metrics.OrNop(cfg.Metrics),
	}, nil
}

// request describes one API call.
type request struct {
	endpoint string // metric/log label
	method   string
	path     string
	query    url.Values
	token    string // empty for unauthenticated calls
	body     any
	out      any
	// fallback overrides the default user message per status when the API sends none.
	fallback map[int]string
}

// httpClient returns a client that attaches token as a bearer header.
func (c *Client) httpClient(token string) *http.Client {
	rt := c.transport
	if token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.transport,
		}
	}
	return &http.Client{Transport: rt, Timeout: c.timeout}
}

func (c *Client) do(ctx context.Context, req request) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		c.metrics.APIRequest(metrics.APICall{
			Endpoint: req.endpoint,
			Method:   req.method,
			Status:   status,
			Duration: time.Since(start),
			Err:      err,
		})
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return apperrors.FromTransport(ctxErr)
		}
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "Too many requests to the time-tracking service. Please try again.")
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	resp, err := c.httpClient(req.token).Do(httpReq)
	if err != nil {
		c.logger.WarnContext(ctx, "api request failed", "endpoint", req.endpoint, "error", err)
		return apperrors.FromTransport(err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if status < 200 || status > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := errorMessage(body)
		if msg == "" {
			msg = req.fallback[status]
		}
		c.logger.DebugContext(ctx, "api request rejected", "endpoint", req.endpoint, "status", status)
		return apperrors.FromStatus(status, msg)
	}

	if req.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "The time-tracking service returned an empty response.")
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return apperrors.FromTransport(ctxErr)
		}
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, "The time-tracking service returned an unreadable response.")
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req request) (*http.Request, error) {
	u := *c.base
	u.Path = c.base.Path + req.path
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", req.endpoint, err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", req.endpoint, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return httpReq, nil
}

// errorMessage extracts a user-facing message from an error body: a JSON
// "message" or "error" field, or a short plain-text body.
func errorMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	if trimmed[0] == '{' {
		var payload struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return ""
		}
		if m := strings.TrimSpace(payload.Message); m != "" {
			return m
		}
		return strings.TrimSpace(payload.Error)
	}

	text := string(trimmed)
	if len(text) > maxPlainMessage || strings.HasPrefix(text, "<") {
		return ""
	}
	return text
}
