package jwt

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-calendar-client/internal/errors"
)

// Payload is the claim set the calendar API puts in its access tokens.
type Payload struct {
	Email string `json:"email"`
	jwtlib.RegisteredClaims
}

// Expiration returns the exp claim as a time, or the zero time if absent.
func (p *Payload) Expiration() time.Time {
	if p.ExpiresAt == nil {
		return time.Time{}
	}
	return p.ExpiresAt.Time
}

// IssuedAtTime returns the iat claim as a time, or the zero time if absent.
func (p *Payload) IssuedAtTime() time.Time {
	if p.IssuedAt == nil {
		return time.Time{}
	}
	return p.IssuedAt.Time
}

// Decode reads the payload section of a bearer token without checking its
// signature. The server is the only party that can verify it; the client only
// needs the subject and expiry. Errors wrap ErrDecode.
func Decode(rawToken string) (*Payload, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, fmt.Errorf("%w: empty token", apperrors.ErrDecode)
	}

	payload := &Payload{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(rawToken, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDecode, err)
	}

	if payload.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: token missing exp claim", apperrors.ErrDecode)
	}
	if payload.Subject == "" {
		return nil, fmt.Errorf("%w: token missing sub claim", apperrors.ErrDecode)
	}
	return payload, nil
}
