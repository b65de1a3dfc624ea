// Package apiclient binds the farm backend's REST API to a fixed base address
// and a process-wide bearer credential.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smartfarming/farm-client/internal/core/domain"
	"github.com/smartfarming/farm-client/internal/infrastructure/metrics"
)

const defaultTimeout = 15 * time.Second

// Client calls the farm backend. The credential set with SetCredential is
// attached to every request built after SetCredential returns.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default transport client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New constructs a client for baseURL, e.g. "http://localhost:5000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "apiclient").Logger()
	return c
}

// BaseURL returns the fixed base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetCredential sets the bearer token; an empty token clears it.
func (c *Client) SetCredential(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearCredential removes the bearer token.
func (c *Client) ClearCredential() {
	c.SetCredential("")
}

// Credential returns the bound token, if any.
func (c *Client) Credential() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

// doJSON sends payload (if any) as JSON and decodes a 2xx body into out.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload any, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	// Read the credential as late as possible so a request never leaves with
	// a token that was replaced before it was built.
	token, authenticated := c.Credential()
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ClientRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ClientRequestsTotal.WithLabelValues(method, "error", strconv.FormatBool(authenticated)).Inc()
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	metrics.ClientRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode), strconv.FormatBool(authenticated)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", apiErr.Status).
			Str("message", apiErr.Message).
			Msg("backend returned error")
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError builds an APIError from a non-2xx response. The displayable
// message comes from the body's "message" field, then "error".
func decodeError(resp *http.Response) *domain.APIError {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &body)

	msg := strings.TrimSpace(body.Message)
	if msg == "" {
		msg = strings.TrimSpace(body.Error)
	}
	return &domain.APIError{Status: resp.StatusCode, Message: msg}
}
