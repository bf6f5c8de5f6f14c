package testfixtures

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// TestSecret signs every token minted by the fixtures and the test API server.
const TestSecret = "test-signing-secret"

// MintToken signs an HS256 token with the sub, email, iat and exp claims.
func MintToken(t *testing.T, sub, email string, iat, exp time.Time) string {
	t.Helper()

	claims := jwtlib.MapClaims{
		"sub":   sub,
		"email": email,
		"iat":   iat.Unix(),
		"exp":   exp.Unix(),
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(TestSecret))
	require.NoError(t, err)
	return signed
}
