// Package httpclient is the JSON REST plumbing shared by the auth and events
// clients. Every request goes through a RoundTripper chain that carries the
// auth interceptor.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/jrsteele09/go-calendar-client/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json"

// Client sends JSON requests relative to a base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     zerolog.Logger
}

type Option func(*Client)

// WithTransport sets the RoundTripper chain (e.g. Chain(base, AuthTransport...))
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("[httpclient New] invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[httpclient New] base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Transport: http.DefaultTransport},
		log:     log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// URL resolves path and query against the base URL.
func (c *Client) URL(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Do sends body (JSON encoded when non-nil) and decodes a 2xx response into
// out (when non-nil). Transport failures and non-2xx statuses come back as
// *errors.NetworkError. Requests are single-shot: nothing is retried.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.URL(path, query)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("[httpclient Do] encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &apperrors.NetworkError{Method: method, URL: target, Err: err}
	}
	req.Header.Set("Accept", contentTypeJSON)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &apperrors.NetworkError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.NetworkError{Method: method, URL: target, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		netErr := &apperrors.NetworkError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
		c.log.Debug().Err(netErr).Msg("API request failed")
		return netErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &apperrors.NetworkError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
			Err:        err,
		}
	}
	return nil
}

// errorMessage pulls a human readable message out of an error body. The API
// answers either {"message": "..."}, {"error": "..."} or a bare JSON string.
func errorMessage(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return text
	}

	const maxLen = 200
	if len(data) > maxLen {
		data = data[:maxLen]
	}
	return string(data)
}
