package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"

	"github.com/rs/zerolog"
)

// TokenSource supplies bearer tokens and the refresh protocol for
// authenticated requests. Implemented by the session store.
type TokenSource interface {
	// Token returns the current access token, or "" when not signed in.
	Token() string
	// Refresh exchanges the current token for a new one. Callers are
	// serialised by the client; implementations do not need their own
	// single-flight guard.
	Refresh(ctx context.Context) (string, error)
	// Invalidate discards the session after an unrecoverable auth failure.
	Invalidate()
}

// Client is a thin wrapper over the backend REST API. It attaches bearer
// tokens, retries once after a single-flight token refresh on 401/403, and
// decodes the standard { code, message, result } envelope.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a new API client. tokens may be nil for unauthenticated
// use (e.g. the geo lookup service).
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger zerolog.Logger) *Client {
	logger = logger.With().Str("component", "api").Logger()

	var rt http.RoundTripper = http.DefaultTransport
	rt = &metricsTransport{next: rt}
	rt = &loggingTransport{next: rt, logger: logger}
	rt = &correlationTransport{next: rt}
	if tokens != nil {
		rt = newAuthTransport(rt, tokens, logger)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: rt,
			Timeout:   timeout,
		},
		logger: logger,
	}
}

// Do performs a JSON request and returns the decoded response envelope.
// A nil body sends no payload.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*model.Envelope, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req)
}

// Upload performs a multipart upload with a single file field.
func (c *Client) Upload(ctx context.Context, path, field, filename string, file io.Reader) (*model.Envelope, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalise multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(req)
}

func (c *Client) send(req *http.Request) (*model.Envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		// No response received at all; surface as connectivity, keep cause.
		return nil, fmt.Errorf("%w: %v", model.ErrConnectivity, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &model.APIError{Status: resp.StatusCode}
		// Best effort: surface the server's own message verbatim.
		var env model.Envelope
		if json.Unmarshal(data, &env) == nil && env.Message != "" {
			apiErr.Code = env.Code
			apiErr.Message = env.Message
		}
		return nil, apiErr
	}

	var env model.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidResponse, err)
	}
	return &env, nil
}

// Get performs a GET request and decodes the envelope result into T.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	return request[T](ctx, c, http.MethodGet, path, nil)
}

// Post performs a POST request and decodes the envelope result into T.
func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return request[T](ctx, c, http.MethodPost, path, body)
}

// Put performs a PUT request and decodes the envelope result into T.
func Put[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return request[T](ctx, c, http.MethodPut, path, body)
}

// Delete performs a DELETE request and decodes the envelope result into T.
func Delete[T any](ctx context.Context, c *Client, path string) (T, error) {
	return request[T](ctx, c, http.MethodDelete, path, nil)
}

func request[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	env, err := c.Do(ctx, method, path, body)
	if err != nil {
		return zero, err
	}

	var out T
	if len(env.Result) > 0 && string(env.Result) != "null" {
		if err := json.Unmarshal(env.Result, &out); err != nil {
			return zero, fmt.Errorf("%w: %v", model.ErrInvalidResponse, err)
		}
	}
	return out, nil
}
