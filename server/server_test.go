package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/go-calendar-client/events"
	"github.com/jrsteele09/go-calendar-client/internal/testfixtures"
	"github.com/jrsteele09/go-calendar-client/token/jwt"
	"github.com/stretchr/testify/require"
)

type authResponse struct {
	AccessToken string `json:"accessToken"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func setupAPI(t *testing.T) *testfixtures.API {
	t.Helper()
	return testfixtures.NewAPIServer(t, testfixtures.NewClock(time.Time{}))
}

func doJSON(t *testing.T, api *testfixtures.API, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, api.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := api.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func login(t *testing.T, api *testfixtures.API, email, password string) authResponse {
	t.Helper()
	resp := doJSON(t, api, http.MethodPost, "/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[authResponse](t, resp)
}

func TestLogin(t *testing.T) {
	api := setupAPI(t)
	user := api.CreateUser(t, "a@b.com", "alice", "password1", false)

	t.Run("issues a one hour token for the user", func(t *testing.T) {
		out := login(t, api, "a@b.com", "password1")
		require.Equal(t, user.ID, out.User.ID)
		require.Equal(t, "a@b.com", out.User.Email)

		payload, err := jwt.Decode(out.AccessToken)
		require.NoError(t, err)
		require.Equal(t, user.ID, payload.Subject)
		require.Equal(t, "a@b.com", payload.Email)
		require.Equal(t, time.Hour, payload.Expiration().Sub(payload.IssuedAtTime()))
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := doJSON(t, api, http.MethodPost, "/login", "", map[string]string{"email": "a@b.com", "password": "nope-nope"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "Incorrect password", decode[map[string]string](t, resp)["message"])
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := doJSON(t, api, http.MethodPost, "/login", "", map[string]string{"email": "x@b.com", "password": "password1"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRegister(t *testing.T) {
	api := setupAPI(t)

	resp := doJSON(t, api, http.MethodPost, "/register", "", map[string]any{
		"username": "bob", "email": "bob@example.com", "password": "password1", "isActive": false,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[authResponse](t, resp)
	require.NotEmpty(t, out.AccessToken)

	stored, err := api.Users.GetByID(out.User.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive)
	require.True(t, stored.CheckPassword("password1"))

	t.Run("duplicate email", func(t *testing.T) {
		resp := doJSON(t, api, http.MethodPost, "/register", "", map[string]any{
			"username": "bobby", "email": "bob@example.com", "password": "password1",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "Email already exists", decode[map[string]string](t, resp)["message"])
	})

	t.Run("short password", func(t *testing.T) {
		resp := doJSON(t, api, http.MethodPost, "/register", "", map[string]any{
			"username": "carol", "email": "carol@example.com", "password": "short",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUsers(t *testing.T) {
	api := setupAPI(t)
	alice := api.CreateUser(t, "a@b.com", "alice", "password1", false)
	bob := api.CreateUser(t, "bob@b.com", "bob", "password1", false)

	t.Run("list never exposes hashes", func(t *testing.T) {
		resp := doJSON(t, api, http.MethodGet, "/users", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		list := decode[[]map[string]any](t, resp)
		require.Len(t, list, 2)
		for _, u := range list {
			require.NotContains(t, u, "password")
			require.NotContains(t, u, "PasswordHash")
		}
	})

	token := login(t, api, "a@b.com", "password1").AccessToken

	t.Run("activate requires a token", func(t *testing.T) {
		resp := doJSON(t, api, http.MethodPatch, "/users/"+alice.ID, "", map[string]bool{"isActive": true})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("activate self", func(t *testing.T) {
		resp := doJSON(t, api, http.MethodPatch, "/users/"+alice.ID, token, map[string]bool{"isActive": true})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, true, decode[map[string]any](t, resp)["isActive"])
	})

	t.Run("cannot activate someone else", func(t *testing.T) {
		resp := doJSON(t, api, http.MethodPatch, "/users/"+bob.ID, token, map[string]bool{"isActive": true})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestEvents(t *testing.T) {
	api := setupAPI(t)
	api.CreateUser(t, "a@b.com", "alice", "password1", true)
	api.CreateUser(t, "bob@b.com", "bob", "password1", true)
	alice := login(t, api, "a@b.com", "password1")
	bob := login(t, api, "bob@b.com", "password1")

	start := testfixtures.ReferenceTime()
	event := events.Event{
		Title:      "Standup",
		StartDate:  start,
		EndDate:    start.Add(30 * time.Minute),
		Recurrence: events.Recurrence{Type: events.RecurrenceDaily},
	}

	resp := doJSON(t, api, http.MethodPost, "/events", alice.AccessToken, event)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[events.Event](t, resp)
	require.Equal(t, int64(1), created.ID)
	require.Equal(t, alice.User.ID, created.UserID)

	t.Run("requires a bearer token", func(t *testing.T) {
		resp := doJSON(t, api, http.MethodGet, "/events", "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp = doJSON(t, api, http.MethodGet, "/events", "garbage", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := testfixtures.MintToken(t, alice.User.ID, "a@b.com", start.Add(-2*time.Hour), start.Add(-time.Hour))
		resp := doJSON(t, api, http.MethodGet, "/events", expired, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("list is per user", func(t *testing.T) {
		resp := doJSON(t, api, http.MethodGet, "/events", alice.AccessToken, nil)
		require.Len(t, decode[[]events.Event](t, resp), 1)

		resp = doJSON(t, api, http.MethodGet, "/events", bob.AccessToken, nil)
		require.Empty(t, decode[[]events.Event](t, resp))
	})

	t.Run("filter by id and user", func(t *testing.T) {
		resp := doJSON(t, api, http.MethodGet, "/events?id=1&userId="+alice.User.ID, alice.AccessToken, nil)
		list := decode[[]events.Event](t, resp)
		require.Len(t, list, 1)
		require.Equal(t, "Standup", list[0].Title)

		resp = doJSON(t, api, http.MethodGet, "/events?id=2", alice.AccessToken, nil)
		require.Empty(t, decode[[]events.Event](t, resp))
	})

	t.Run("invalid event", func(t *testing.T) {
		bad := event
		bad.Title = ""
		resp := doJSON(t, api, http.MethodPost, "/events", alice.AccessToken, bad)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("cannot touch another user's event", func(t *testing.T) {
		resp := doJSON(t, api, http.MethodPut, "/events?id=1", bob.AccessToken, event)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp = doJSON(t, api, http.MethodDelete, "/events?id=1", bob.AccessToken, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("update then delete", func(t *testing.T) {
		changed := created
		changed.Title = "Retro"
		resp := doJSON(t, api, http.MethodPut, "/events?id=1", alice.AccessToken, changed)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "Retro", decode[events.Event](t, resp).Title)

		resp = doJSON(t, api, http.MethodDelete, "/events?id=1", alice.AccessToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		_, err := api.Events.Get(1)
		require.ErrorIs(t, err, events.ErrEventNotFound)
	})
}

func TestMiddleware(t *testing.T) {
	api := setupAPI(t)

	t.Run("request id is echoed", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, api.URL+"/users", nil)
		require.NoError(t, err)
		req.Header.Set("X-Request-ID", "abc-123")
		resp, err := api.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
	})

	t.Run("cors preflight from allowed origin", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, api.URL+"/events", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:4200")
		resp, err := api.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		require.Equal(t, "http://localhost:4200", resp.Header.Get("Access-Control-Allow-Origin"))
		require.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("cors ignores unknown origins", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, api.URL+"/users", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://evil.example")
		resp, err := api.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})
}
