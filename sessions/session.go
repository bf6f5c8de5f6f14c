package sessions

import (
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Session is the authenticated identity held for the current client process.
// It is stored as JSON under a single key of the token store.
type Session struct {
	ID        string    `json:"id"`        // Subject of the bearer token (user id)
	Email     string    `json:"email"`     // User's email address
	Token     string    `json:"token"`     // Bearer token presented on every request
	ExpiresAt time.Time `json:"expiresAt"` // Token expiry taken from the exp claim
}

// IsValid reports whether the session is present and not yet expired at now.
func (s *Session) IsValid(now time.Time) bool {
	return s != nil && now.Before(s.ExpiresAt)
}

// Remaining is the time left before expiry, never negative.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// OAuth2Token adapts the session to an oauth2 bearer token.
func (s *Session) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken: s.Token,
		TokenType:   "Bearer",
		Expiry:      s.ExpiresAt,
	}
}

// MarshalZerologObject logs the identity without the bearer token.
func (s *Session) MarshalZerologObject(event *zerolog.Event) {
	event.Str("id", s.ID).
		Str("email", s.Email).
		Time("expires_at", s.ExpiresAt)
}

// State is what listeners receive on every transition.
type State struct {
	Session       *Session
	Authenticated bool
}
