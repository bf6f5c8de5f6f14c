package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Creator signs HS256 access tokens for the development API server.
type Creator struct {
	secret  []byte
	expiry  time.Duration
	nowFunc func() time.Time
}

type CreatorOption func(*Creator)

func WithExpiry(expiry time.Duration) CreatorOption {
	return func(c *Creator) {
		c.expiry = expiry
	}
}

// WithNowFunc overrides the clock used for iat/exp (primarily for testing)
func WithNowFunc(now func() time.Time) CreatorOption {
	return func(c *Creator) {
		c.nowFunc = now
	}
}

// NewCreator creates a new JWT creator
func NewCreator(secret string, options ...CreatorOption) *Creator {
	c := &Creator{
		secret:  []byte(secret),
		expiry:  time.Hour,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// CreateAccessToken creates a token for userID carrying the sub, email, iat and exp claims
func (c *Creator) CreateAccessToken(userID, email string) (string, error) {
	now := c.nowFunc()
	claims := jwtlib.MapClaims{
		"sub":   userID,                   // Users unique ID
		"email": email,                    // Users email address
		"iat":   now.Unix(),               // Issued At: the time at which the token was issued
		"exp":   now.Add(c.expiry).Unix(), // Expiry: when the token will expire
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}
