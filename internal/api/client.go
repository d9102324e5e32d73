package api

// Package api is the single chokepoint for authenticated backend calls.
// It attaches the bearer token, coalesces token refreshes, and replays a
// credential-rejected request exactly once before ending the session.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/mediwound/wardview/internal/errors"
	"github.com/mediwound/wardview/internal/observability/statsd"
	"github.com/mediwound/wardview/internal/ports"
)

// SessionController is the slice of the auth service the client needs:
// reading the current token, refreshing it, and ending the session locally
// when credentials are gone for good.
type SessionController interface {
	AccessToken(ctx context.Context) (string, bool)
	Refresh(ctx context.Context) (string, error)
	EndSession(ctx context.Context) error
}

// Options groups dependencies for Client.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// RefreshSkew refreshes proactively when the access token expires
	// within this window. Zero disables proactive refresh.
	RefreshSkew time.Duration

	Session SessionController
	Clock   ports.Clock
	Logger  *slog.Logger

	// Metrics receives request timings and session lifecycle counters.
	// Nil disables emission.
	Metrics statsd.Sink

	// OnSessionExpired runs after the client has cleared a dead session,
	// so the shell can return to the login screen.
	OnSessionExpired func()
}

// Client issues authenticated JSON requests against the backend.
type Client struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	session     SessionController
	clock       ports.Clock
	logger      *slog.Logger
	metrics     statsd.Sink
	refreshSkew time.Duration
	onExpired   func()

	// refreshGroup collapses concurrent refresh attempts into a single
	// backend call; every waiter receives the same new token.
	refreshGroup singleflight.Group
}

// NewClient constructs a Client.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, apperrors.Validation("base URL is required")
	}
	if opts.Session == nil {
		return nil, apperrors.Validation("session controller is required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	clock := opts.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = statsd.Noop{}
	}

	return &Client{
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		userAgent:   opts.UserAgent,
		httpClient:  &http.Client{Timeout: timeout},
		session:     opts.Session,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
		refreshSkew: opts.RefreshSkew,
		onExpired:   opts.OnSessionExpired,
	}, nil
}

// request describes one logical call. The body is held as bytes so the
// replay after a refresh can rebuild the request.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

// Post issues a JSON POST and decodes the response into out (out may be nil).
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return apperrors.Internal("encode request", err)
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: "application/json",
	}, out)
}

// Patch issues a JSON PATCH and decodes the response into out (out may be nil).
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return apperrors.Internal("encode request", err)
	}
	return c.do(ctx, request{
		method:      http.MethodPatch,
		path:        path,
		body:        body,
		contentType: "application/json",
	}, out)
}

// PostMultipart issues a POST with a prebuilt multipart body.
func (c *Client) PostMultipart(ctx context.Context, path string, body []byte, contentType string, out any) error {
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: contentType,
	}, out)
}

// do runs the logical call: attach token, send, and on a credential
// rejection refresh once and replay once. A second rejection ends the
// session. Permission failures (403) pass through untouched.
func (c *Client) do(ctx context.Context, req request, out any) error {
	token, _ := c.session.AccessToken(ctx)
	token = c.maybeProactiveRefresh(ctx, token)

	status, err := c.send(ctx, req, token, out)
	if err != nil {
		return err
	}
	if status != http.StatusUnauthorized {
		return nil
	}

	// Credential rejected: one coalesced refresh, one replay.
	newToken, err := c.refresh(ctx)
	if err != nil {
		if apperrors.IsSessionExpired(err) || apperrors.IsNoSession(err) {
			c.expireSession(ctx)
			return apperrors.SessionExpiredWrap("session expired", err)
		}
		return err
	}

	status, err = c.send(ctx, req, newToken, out)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		// The replay was rejected with a fresh token; do not refresh
		// again, the session is not coming back.
		c.expireSession(ctx)
		return apperrors.SessionExpired("session expired")
	}
	return nil
}

// send issues the HTTP request once. It returns the 401 status instead of
// an error so do can run the refresh-and-replay flow; every other failure
// mode is mapped to the error taxonomy here.
func (c *Client) send(ctx context.Context, req request, token string, out any) (int, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return 0, apperrors.Internal("build request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := c.clock.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.Count("api.transport_error", 1, map[string]string{"method": req.method})
		return 0, apperrors.Network(fmt.Sprintf("%s %s", req.method, req.path), err)
	}
	defer resp.Body.Close()
	c.metrics.Timing("api.request", c.clock.Now().Sub(start), map[string]string{
		"method": req.method,
		"status": strconv.Itoa(resp.StatusCode),
	})

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return resp.StatusCode, apperrors.Internal("decode response", err)
			}
		} else {
			_, _ = io.Copy(io.Discard, resp.Body)
		}
		return resp.StatusCode, nil

	case resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil

	case resp.StatusCode == http.StatusForbidden:
		return resp.StatusCode, apperrors.Forbidden(readErrorMessage(resp.Body, "insufficient permissions"))

	case resp.StatusCode == http.StatusNotFound:
		return resp.StatusCode, apperrors.NotFound(readErrorMessage(resp.Body, "not found"))

	case resp.StatusCode < 500:
		return resp.StatusCode, apperrors.Validation(readErrorMessage(resp.Body, fmt.Sprintf("request rejected (%d)", resp.StatusCode)))

	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, apperrors.Internalf("%s %s: backend returned %d", req.method, req.path, resp.StatusCode)
	}
}

// refresh collapses concurrent refresh attempts into one backend call.
func (c *Client) refresh(ctx context.Context) (string, error) {
	tok, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		c.metrics.Count("api.token_refresh", 1, nil)
		return c.session.Refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return tok.(string), nil
}

// maybeProactiveRefresh refreshes before sending when the token's exp
// claim is inside the skew window. The token is parsed without signature
// verification; the client holds no key and only reads the expiry. Any
// parse or refresh problem falls back to the reactive 401 path.
func (c *Client) maybeProactiveRefresh(ctx context.Context, token string) string {
	if token == "" || c.refreshSkew <= 0 {
		return token
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return token
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return token
	}
	if exp.Time.After(c.clock.Now().Add(c.refreshSkew)) {
		return token
	}

	newToken, err := c.refresh(ctx)
	if err != nil {
		c.logger.DebugContext(ctx, "proactive refresh failed, continuing with current token",
			slog.String("error", err.Error()))
		return token
	}
	return newToken
}

// expireSession clears local state and notifies the shell.
func (c *Client) expireSession(ctx context.Context) {
	c.metrics.Count("api.session_expired", 1, nil)
	if err := c.session.EndSession(ctx); err != nil {
		c.logger.ErrorContext(ctx, "end session failed", slog.String("error", err.Error()))
	}
	if c.onExpired != nil {
		c.onExpired()
	}
}

// readErrorMessage pulls a human-readable message out of a JSON error
// body, falling back when the body is not the expected shape.
func readErrorMessage(r io.Reader, fallback string) string {
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Detail != "" {
			return body.Detail
		}
	}
	return fallback
}
