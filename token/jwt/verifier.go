package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Verifier checks signature and expiry of tokens minted by Creator.
type Verifier struct {
	secret  []byte
	nowFunc func() time.Time
}

// NewVerifier creates a verifier sharing the signing secret of the Creator
func NewVerifier(secret string, now func() time.Time) *Verifier {
	if now == nil {
		now = time.Now
	}
	return &Verifier{
		secret:  []byte(secret),
		nowFunc: now,
	}
}

// Verify validates the token and returns its claims
func (v *Verifier) Verify(rawToken string) (*Payload, error) {
	payload := &Payload{}
	token, err := jwtlib.ParseWithClaims(rawToken, payload, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	},
		jwtlib.WithTimeFunc(v.nowFunc),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return payload, nil
}
