package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-calendar-client/auth"
	apperrors "github.com/jrsteele09/go-calendar-client/internal/errors"
	"github.com/jrsteele09/go-calendar-client/internal/testfixtures"
	"github.com/stretchr/testify/require"
)

func requireCodes(t *testing.T, err error, want map[string]string) {
	t.Helper()
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	got := make(map[string]string, len(verr.Fields))
	for field, fe := range verr.Fields {
		got[field] = fe.Code
		require.Equal(t, auth.ValidationMessage(fe.Code), fe.Message)
	}
	require.Equal(t, want, got)
}

func TestLoginForm_Validate(t *testing.T) {
	require.NoError(t, auth.LoginForm{Email: "a@b.com", Password: "password1"}.Validate())

	requireCodes(t, auth.LoginForm{}.Validate(), map[string]string{
		"email":    auth.CodeRequired,
		"password": auth.CodeRequired,
	})
	requireCodes(t, auth.LoginForm{Email: "not-an-email", Password: "short"}.Validate(), map[string]string{
		"email":    auth.CodeEmail,
		"password": auth.CodeMinLength,
	})
}

func TestRegisterForm_Validate(t *testing.T) {
	valid := auth.RegisterForm{Email: "a@b.com", Username: "ann", Password: "password1", ConfirmPassword: "password1"}
	require.NoError(t, valid.Validate())

	requireCodes(t, auth.RegisterForm{}.Validate(), map[string]string{
		"email":           auth.CodeRequired,
		"username":        auth.CodeRequired,
		"password":        auth.CodeRequired,
		"confirmPassword": auth.CodeRequired,
	})

	mismatch := valid
	mismatch.ConfirmPassword = "password2"
	requireCodes(t, mismatch.Validate(), map[string]string{
		"confirmPassword": auth.CodePasswordsDontMatch,
	})
}

func TestValidationMessage(t *testing.T) {
	require.Equal(t, "Min length is 8 characters", auth.ValidationMessage(auth.CodeMinLength))
	require.Equal(t, "Passwords don't match", auth.ValidationMessage(auth.CodePasswordsDontMatch))
	require.Equal(t, "Email does not exists", auth.ValidationMessage(auth.CodeEmailDoesNotExists))
	require.Equal(t, "unknown", auth.ValidationMessage("unknown"))
}

func TestClient_ValidateLogin(t *testing.T) {
	ctx := context.Background()
	clock := testfixtures.NewClock(time.Time{})
	api := testfixtures.NewAPIServer(t, clock)
	api.CreateUser(t, "ann@example.com", "ann", "password1", true)
	f := setupClient(t, api.URL, clock)

	require.NoError(t, f.client.ValidateLogin(ctx, auth.LoginForm{Email: "ann@example.com", Password: "password1"}))

	requireCodes(t, f.client.ValidateLogin(ctx, auth.LoginForm{Email: "bob@example.com", Password: "password1"}), map[string]string{
		"email": auth.CodeEmailDoesNotExists,
	})

	// a malformed email is not looked up
	requireCodes(t, f.client.ValidateLogin(ctx, auth.LoginForm{Email: "bob", Password: "password1"}), map[string]string{
		"email": auth.CodeEmail,
	})
}

func TestClient_ValidateRegister(t *testing.T) {
	ctx := context.Background()
	clock := testfixtures.NewClock(time.Time{})
	api := testfixtures.NewAPIServer(t, clock)
	api.CreateUser(t, "ann@example.com", "ann", "password1", true)
	f := setupClient(t, api.URL, clock)

	form := auth.RegisterForm{Email: "bob@example.com", Username: "bob", Password: "password1", ConfirmPassword: "password1"}
	require.NoError(t, f.client.ValidateRegister(ctx, form))

	taken := form
	taken.Email = "ann@example.com"
	taken.Username = "ANN"
	requireCodes(t, f.client.ValidateRegister(ctx, taken), map[string]string{
		"email":    auth.CodeEmailExists,
		"username": auth.CodeUsernameExists,
	})

	mixed := form
	mixed.Username = "ann"
	mixed.ConfirmPassword = "different1"
	requireCodes(t, f.client.ValidateRegister(ctx, mixed), map[string]string{
		"username":        auth.CodeUsernameExists,
		"confirmPassword": auth.CodePasswordsDontMatch,
	})
}

func TestClient_ValidateServerError(t *testing.T) {
	clock := testfixtures.NewClock(time.Time{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	f := setupClient(t, srv.URL, clock)

	err := f.client.ValidateLogin(context.Background(), auth.LoginForm{Email: "ann@example.com", Password: "password1"})
	requireCodes(t, err, map[string]string{auth.FormField: auth.CodeServerError})
}

func TestLoginFailure(t *testing.T) {
	require.Nil(t, auth.LoginFailure(nil))

	wrong := auth.LoginFailure(&apperrors.NetworkError{StatusCode: http.StatusBadRequest})
	require.Equal(t, auth.CodeWrongCredentials, wrong.Code(auth.FormField))

	server := auth.LoginFailure(&apperrors.NetworkError{StatusCode: http.StatusBadGateway})
	require.Equal(t, auth.CodeServerError, server.Code(auth.FormField))

	offline := auth.LoginFailure(errors.New("dial tcp: refused"))
	require.Equal(t, auth.CodeServerError, offline.Code(auth.FormField))
}
