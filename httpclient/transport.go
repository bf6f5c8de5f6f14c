package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Middleware wraps a RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain applies mw around base. The first middleware is the outermost.
func Chain(base http.RoundTripper, mw ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	chained := base
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chained = mw[i](chained)
	}
	return chained
}

// SessionSource is the view of the session holder the interceptor needs.
type SessionSource interface {
	oauth2.TokenSource
	Clear(ctx context.Context) error
}

// AuthTransport is the auth interceptor. It attaches the bearer token when a
// session is held and forces a logout when the API answers 401. The response
// is always handed back unchanged so the caller still sees the 401.
type AuthTransport struct {
	Base     http.RoundTripper
	Sessions SessionSource
	Log      zerolog.Logger
}

// Auth returns AuthTransport as a Middleware.
func Auth(sessions SessionSource, logger zerolog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return &AuthTransport{Base: next, Sessions: sessions, Log: logger}
	}
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if tok, err := t.Sessions.Token(); err == nil {
		req = req.Clone(req.Context())
		tok.SetAuthHeader(req)
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.Log.Warn().Str("url", req.URL.String()).Msg("Unauthorized response, clearing session")
		if clearErr := t.Sessions.Clear(req.Context()); clearErr != nil {
			t.Log.Err(clearErr).Msg("Failed to clear session after 401")
		}
	}
	return resp, nil
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base == nil {
		return http.DefaultTransport
	}
	return t.Base
}

// RequestID tags every request with an X-Request-ID and logs its outcome.
func RequestID(logger zerolog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("X-Request-ID") == "" {
				req = req.Clone(req.Context())
				req.Header.Set("X-Request-ID", uuid.New().String())
			}

			start := time.Now()
			resp, err := next.RoundTrip(req)

			event := logger.Debug().
				Str("request_id", req.Header.Get("X-Request-ID")).
				Str("method", req.Method).
				Str("url", req.URL.String()).
				Dur("elapsed", time.Since(start))
			if err != nil {
				event.Err(err).Msg("API request error")
				return nil, err
			}
			event.Int("status", resp.StatusCode).Msg("API request")
			return resp, nil
		})
	}
}
