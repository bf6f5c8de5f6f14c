package jwt_test

import (
	"encoding/base64"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-calendar-client/internal/errors"
	"github.com/jrsteele09/go-calendar-client/internal/testfixtures"
	"github.com/jrsteele09/go-calendar-client/token/jwt"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	now := testfixtures.ReferenceTime()

	t.Run("reads claims without checking the signature", func(t *testing.T) {
		raw := testfixtures.MintToken(t, "42", "a@b.com", now, now.Add(time.Hour))
		payload, err := jwt.Decode(raw)
		require.NoError(t, err)
		require.Equal(t, "42", payload.Subject)
		require.Equal(t, "a@b.com", payload.Email)
		require.True(t, payload.Expiration().Equal(now.Add(time.Hour)))
		require.True(t, payload.IssuedAtTime().Equal(now))
	})

	t.Run("expired tokens still decode", func(t *testing.T) {
		raw := testfixtures.MintToken(t, "42", "a@b.com", now.Add(-2*time.Hour), now.Add(-time.Hour))
		payload, err := jwt.Decode(raw)
		require.NoError(t, err)
		require.True(t, payload.Expiration().Before(now))
	})

	segment := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	header := segment(`{"alg":"HS256","typ":"JWT"}`)

	for name, raw := range map[string]string{
		"empty":            "",
		"two segments":     "abc.def",
		"not base64":       header + ".!!!.sig",
		"payload not json": header + "." + segment("hello") + ".sig",
		"missing exp":      header + "." + segment(`{"sub":"42"}`) + ".sig",
		"missing sub":      header + "." + segment(`{"exp":1710327000}`) + ".sig",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := jwt.Decode(raw)
			require.ErrorIs(t, err, apperrors.ErrDecode)
		})
	}
}

func TestCreatorVerifier(t *testing.T) {
	clock := testfixtures.NewClock(time.Time{})
	creator := jwt.NewCreator("secret", jwt.WithExpiry(30*time.Minute), jwt.WithNowFunc(clock.Now))
	verifier := jwt.NewVerifier("secret", clock.Now)

	raw, err := creator.CreateAccessToken("7", "b@c.com")
	require.NoError(t, err)

	payload, err := verifier.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "7", payload.Subject)
	require.Equal(t, "b@c.com", payload.Email)
	require.True(t, payload.Expiration().Equal(clock.Now().Add(30*time.Minute)))

	t.Run("wrong secret", func(t *testing.T) {
		_, err := jwt.NewVerifier("other", clock.Now).Verify(raw)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := testfixtures.NewClock(clock.Now().Add(31 * time.Minute))
		_, err := jwt.NewVerifier("secret", later.Now).Verify(raw)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.token")
		require.Error(t, err)
	})
}
