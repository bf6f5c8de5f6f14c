package server

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/jrsteele09/go-calendar-client/users"
)

const minPasswordLength = 8

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLength, 0)),
	)
}

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type authResponse struct {
	AccessToken string   `json:"accessToken"`
	User        authUser `json:"user"`
}

// LoginHandler exchanges credentials for an access token
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		user, err := s.repos.Users.GetByEmail(req.Email)
		if errors.Is(err, users.ErrUserNotFound) {
			writeError(w, http.StatusBadRequest, "Cannot find user")
			return
		}
		if err != nil {
			s.log.Err(err).Msg("Failed to load user")
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		if !user.CheckPassword(req.Password) {
			writeError(w, http.StatusBadRequest, "Incorrect password")
			return
		}

		s.writeAuthResponse(w, http.StatusOK, user)
	}
}

// RegisterHandler creates an inactive account and answers with a token for it
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			s.log.Err(err).Msg("Failed to hash password")
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}

		user := &users.User{
			Email:        req.Email,
			Username:     req.Username,
			PasswordHash: hash,
			CreatedAt:    s.nowFunc().UTC(),
		}
		switch err := s.repos.Users.Create(user); {
		case errors.Is(err, users.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "Email already exists")
			return
		case errors.Is(err, users.ErrUsernameTaken):
			writeError(w, http.StatusBadRequest, "Username already exists")
			return
		case err != nil:
			s.log.Err(err).Msg("Failed to create user")
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}

		s.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")
		s.writeAuthResponse(w, http.StatusCreated, user)
	}
}

func (s *Server) writeAuthResponse(w http.ResponseWriter, status int, user *users.User) {
	token, err := s.tokens.CreateAccessToken(user.ID, user.Email)
	if err != nil {
		s.log.Err(err).Msg("Failed to create access token")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, status, authResponse{
		AccessToken: token,
		User:        authUser{ID: user.ID, Email: user.Email},
	})
}
