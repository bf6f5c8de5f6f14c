package testfixtures

import (
	"net/http/httptest"
	"testing"
	"time"

	fakeeventrepo "github.com/jrsteele09/go-calendar-client/events/repofake"
	"github.com/jrsteele09/go-calendar-client/internal/config"
	"github.com/jrsteele09/go-calendar-client/server"
	"github.com/jrsteele09/go-calendar-client/users"
	fakeuserrepo "github.com/jrsteele09/go-calendar-client/users/repofake"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// API is the development API server running on an httptest listener.
type API struct {
	*httptest.Server
	Users  *fakeuserrepo.FakeUserRepo
	Events *fakeeventrepo.FakeEventRepo
	Clock  *Clock
}

type apiConfig struct {
	config.EnvVars
	config.Cors
	expiry time.Duration
}

func (apiConfig) GetEnv() string           { return "TEST" }
func (apiConfig) GetPort() string          { return ":0" }
func (apiConfig) GetSigningSecret() string { return TestSecret }

func (c apiConfig) GetAccessTokenExpiry() time.Duration { return c.expiry }

func (apiConfig) GetDemoUser() (string, string, string) { return "", "", "" }

// NewAPIServer starts the API with empty repositories. Tokens are signed with
// TestSecret, last an hour and are timed by clock.
func NewAPIServer(t *testing.T, clock *Clock) *API {
	t.Helper()

	api := &API{
		Users:  fakeuserrepo.NewFakeUserRepo(),
		Events: fakeeventrepo.NewFakeEventRepo(),
		Clock:  clock,
	}
	srv, err := server.New(apiConfig{expiry: time.Hour}, server.Repos{Users: api.Users, Events: api.Events},
		server.WithNowFunc(clock.Now),
		server.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)

	api.Server = httptest.NewServer(srv)
	t.Cleanup(api.Server.Close)
	return api
}

// CreateUser stores an account with a bcrypt hash of password.
func (a *API) CreateUser(t *testing.T, email, username, password string, active bool) *users.User {
	t.Helper()

	hash, err := users.HashPassword(password)
	require.NoError(t, err)
	u := &users.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    a.Clock.Now(),
		IsActive:     active,
	}
	require.NoError(t, a.Users.Create(u))
	return u
}
