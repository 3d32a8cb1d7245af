package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// refreshPath is exempt from the retry-after-refresh protocol so a failing
// refresh call cannot recurse into itself.
const refreshPath = "/auth/refresh-token"

// authTransport injects the bearer token and runs the refresh protocol: a
// request failing with 401/403 waits on a single in-flight refresh shared by
// all concurrent failures, then retries exactly once with the new token.
// A failed refresh invalidates the session.
type authTransport struct {
	next   http.RoundTripper
	tokens TokenSource
	group  *singleflight.Group
	logger zerolog.Logger
}

func newAuthTransport(next http.RoundTripper, tokens TokenSource, logger zerolog.Logger) *authTransport {
	return &authTransport{
		next:   next,
		tokens: tokens,
		group:  &singleflight.Group{},
		logger: logger,
	}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	token := t.tokens.Token()
	if token != "" && out.Header.Get("Authorization") == "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.next.RoundTrip(out)
	if err != nil {
		return resp, err
	}

	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}
	if token == "" || strings.HasSuffix(req.URL.Path, refreshPath) {
		return resp, nil
	}

	// Queue behind whichever refresh is already in flight; never start a
	// second one in parallel. The refresh is detached from the winning
	// caller's context: its result is shared by every queued waiter, so one
	// caller's cancellation must not invalidate the session for all of them.
	fresh, refreshErr, shared := t.group.Do("refresh", func() (any, error) {
		return t.tokens.Refresh(context.WithoutCancel(req.Context()))
	})
	if refreshErr != nil {
		t.logger.Warn().Err(refreshErr).Msg("token refresh failed, invalidating session")
		t.tokens.Invalidate()
		return resp, nil
	}

	t.logger.Debug().
		Bool("shared", shared).
		Str("path", req.URL.Path).
		Msg("retrying request with refreshed token")

	// Drop the failed response before retrying.
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	retry := req.Clone(req.Context())
	retry.Header.Set("Authorization", "Bearer "+fresh.(string))
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}

	return t.next.RoundTrip(retry)
}

// correlationTransport tags every outgoing request with a correlation ID.
type correlationTransport struct {
	next http.RoundTripper
}

func (t *correlationTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header.Get("X-Correlation-ID") == "" {
		out.Header.Set("X-Correlation-ID", uuid.New().String())
	}
	return t.next.RoundTrip(out)
}

// loggingTransport logs outgoing requests with timing information.
type loggingTransport struct {
	next   http.RoundTripper
	logger zerolog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start)
	evt := t.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Dur("duration", duration)
	if err != nil {
		evt.Err(err).Msg("http request failed")
		return resp, err
	}
	evt.Int("status", resp.StatusCode).Msg("http request")
	return resp, nil
}
