// Package auth is the client side of the calendar API's account endpoints:
// login, registration, availability checks and activation. It also holds the
// route guards and form validation that sit on top of the session holder.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jrsteele09/go-calendar-client/httpclient"
	apperrors "github.com/jrsteele09/go-calendar-client/internal/errors"
	"github.com/jrsteele09/go-calendar-client/sessions"
	"github.com/jrsteele09/go-calendar-client/token/jwt"
	"github.com/jrsteele09/go-calendar-client/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SessionStore is the part of the session holder the client drives.
type SessionStore interface {
	Establish(ctx context.Context, s *sessions.Session) error
	Clear(ctx context.Context) error
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registration is the body of POST /register: new accounts start inactive.
type registration struct {
	RegisterRequest
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"isActive"`
}

// Response is the answer to login and register.
type Response struct {
	AccessToken string `json:"accessToken"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// Client issues the account calls and hands successful logins to the session holder.
type Client struct {
	api      *httpclient.Client
	sessions SessionStore
	log      zerolog.Logger
	nowFunc  func() time.Time
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithNowFunc sets the clock used for registration timestamps (primarily for testing)
func WithNowFunc(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.nowFunc = now
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = logger
	}
}

func NewClient(api *httpclient.Client, sessionStore SessionStore, options ...ClientOption) (*Client, error) {
	if api == nil {
		return nil, errors.Wrap(APIRequiredErr, "[NewClient]")
	}
	if sessionStore == nil {
		return nil, errors.Wrap(SessionsRequiredErr, "[NewClient]")
	}

	c := &Client{
		api:      api,
		sessions: sessionStore,
		log:      log.Logger,
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Login posts the credentials, decodes the returned token and establishes the
// session, then marks the account active. If activation fails the session
// stays established and the returned error wraps ErrActivation.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Response, error) {
	var resp Response
	if err := c.api.Do(ctx, http.MethodPost, "/login", nil, creds, &resp); err != nil {
		return nil, errors.Wrap(err, "[Auth Login]")
	}

	payload, err := jwt.Decode(resp.AccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Auth Login] decode access token")
	}

	session := &sessions.Session{
		ID:        payload.Subject,
		Email:     payload.Email,
		Token:     resp.AccessToken,
		ExpiresAt: payload.Expiration(),
	}
	if session.Email == "" {
		session.Email = resp.User.Email
	}
	if err := c.sessions.Establish(ctx, session); err != nil {
		return nil, errors.Wrap(err, "[Auth Login] establish session")
	}

	userID := resp.User.ID
	if userID == "" {
		userID = payload.Subject
	}
	if _, err := c.ActivateUser(ctx, userID); err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("Logged in but activation failed")
		return &resp, fmt.Errorf("[Auth Login] %w: %w", apperrors.ErrActivation, err)
	}

	c.log.Info().Object("session", session).Msg("Logged in")
	return &resp, nil
}

// Register creates an inactive account. It does not log in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Response, error) {
	body := registration{
		RegisterRequest: req,
		CreatedAt:       c.nowFunc().UTC(),
		IsActive:        false,
	}

	var resp Response
	if err := c.api.Do(ctx, http.MethodPost, "/register", nil, body, &resp); err != nil {
		return nil, errors.Wrap(err, "[Auth Register]")
	}
	c.log.Info().Str("email", req.Email).Msg("Registered")
	return &resp, nil
}

// CheckEmailExists reports whether any account uses email.
func (c *Client) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	list, err := c.listUsers(ctx)
	if err != nil {
		return false, errors.Wrap(err, "[Auth CheckEmailExists]")
	}
	for _, u := range list {
		if u.HasEmail(email) {
			return true, nil
		}
	}
	return false, nil
}

// CheckUsernameExists reports whether any account is called username.
func (c *Client) CheckUsernameExists(ctx context.Context, username string) (bool, error) {
	list, err := c.listUsers(ctx)
	if err != nil {
		return false, errors.Wrap(err, "[Auth CheckUsernameExists]")
	}
	for _, u := range list {
		if u.HasUsername(username) {
			return true, nil
		}
	}
	return false, nil
}

// ActivateUser sets isActive on the account.
func (c *Client) ActivateUser(ctx context.Context, userID string) (*users.User, error) {
	var updated users.User
	path := "/users/" + url.PathEscape(userID)
	if err := c.api.Do(ctx, http.MethodPatch, path, nil, users.Activation{IsActive: true}, &updated); err != nil {
		return nil, errors.Wrapf(err, "[Auth ActivateUser] user %s", userID)
	}
	return &updated, nil
}

// Logout clears the session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.sessions.Clear(ctx); err != nil {
		return errors.Wrap(err, "[Auth Logout]")
	}
	c.log.Info().Msg("Logged out")
	return nil
}

func (c *Client) listUsers(ctx context.Context) ([]users.User, error) {
	var list []users.User
	if err := c.api.Do(ctx, http.MethodGet, "/users", nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}
