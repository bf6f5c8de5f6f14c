package events

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jrsteele09/go-calendar-client/httpclient"
	apperrors "github.com/jrsteele09/go-calendar-client/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const eventsPath = "/events"

// Client is the REST client for /events. Authorization is added by the
// transport of the underlying httpclient.Client.
type Client struct {
	api *httpclient.Client
	log zerolog.Logger
}

type ClientOption func(*Client)

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = logger
	}
}

func NewClient(api *httpclient.Client, options ...ClientOption) *Client {
	c := &Client{
		api: api,
		log: log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// List returns every event visible to the caller.
func (c *Client) List(ctx context.Context) ([]Event, error) {
	var list []Event
	if err := c.api.Do(ctx, http.MethodGet, eventsPath, nil, nil, &list); err != nil {
		return nil, apperrors.Wrapf(err, "[Events List]")
	}
	return list, nil
}

// ListInRange returns the events with at least one occurrence between the
// calendar days of from and to, inclusive.
func (c *Client) ListInRange(ctx context.Context, from, to time.Time) ([]Event, error) {
	list, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	end := midnight(to).AddDate(0, 0, 1)
	var matched []Event
	for i := range list {
		e := &list[i]
		span := e.EndDate.Sub(e.StartDate)
		if len(e.Occurrences(midnight(from).Add(-span), end)) > 0 {
			matched = append(matched, *e)
		}
	}
	return matched, nil
}

// Get fetches one event of a user. The API answers with either the event or a
// one element array; an empty answer is ErrNotFound.
func (c *Client) Get(ctx context.Context, id int64, userID string) (*Event, error) {
	query := url.Values{
		"id":     {strconv.FormatInt(id, 10)},
		"userId": {userID},
	}

	var raw json.RawMessage
	if err := c.api.Do(ctx, http.MethodGet, eventsPath, query, nil, &raw); err != nil {
		return nil, apperrors.Wrapf(err, "[Events Get] event %d", id)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var list []Event
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, apperrors.Wrapf(err, "[Events Get] decode event %d", id)
		}
		if len(list) == 0 {
			return nil, apperrors.Wrapf(apperrors.ErrNotFound, "[Events Get] event %d", id)
		}
		return &list[0], nil
	}

	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, apperrors.Wrapf(err, "[Events Get] decode event %d", id)
	}
	return &e, nil
}

// Create validates and posts a new event.
func (c *Client) Create(ctx context.Context, e *Event) (*Event, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	var created Event
	if err := c.api.Do(ctx, http.MethodPost, eventsPath, nil, e, &created); err != nil {
		return nil, apperrors.Wrapf(err, "[Events Create]")
	}
	c.log.Debug().Object("event", &created).Msg("Event created")
	return &created, nil
}

// Update validates and replaces the event identified by e.ID.
func (c *Client) Update(ctx context.Context, e *Event) (*Event, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	query := url.Values{"id": {strconv.FormatInt(e.ID, 10)}}
	var updated Event
	if err := c.api.Do(ctx, http.MethodPut, eventsPath, query, e, &updated); err != nil {
		return nil, apperrors.Wrapf(err, "[Events Update] event %d", e.ID)
	}
	c.log.Debug().Object("event", &updated).Msg("Event updated")
	return &updated, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	query := url.Values{"id": {strconv.FormatInt(id, 10)}}
	if err := c.api.Do(ctx, http.MethodDelete, eventsPath, query, nil, nil); err != nil {
		return apperrors.Wrapf(err, "[Events Delete] event %d", id)
	}
	return nil
}
