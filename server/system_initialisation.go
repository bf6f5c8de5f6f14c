package server

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/jrsteele09/go-calendar-client/users"
)

const generatedPasswordBytes = 12

// InitialiseSystem seeds the demo account when one is configured. The account
// is created active so it can log in straight away.
func (s *Server) InitialiseSystem() error {
	email, username, password := s.config.GetDemoUser()
	if email == "" {
		return nil
	}

	if _, err := s.repos.Users.GetByEmail(email); err == nil {
		return nil
	} else if !errors.Is(err, users.ErrUserNotFound) {
		return fmt.Errorf("[Server InitialiseSystem] failed to look up demo user: %w", err)
	}

	generated := password == ""
	if generated {
		var err error
		if password, err = generatePassword(); err != nil {
			return fmt.Errorf("[Server InitialiseSystem] failed to generate password: %w", err)
		}
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to hash password: %w", err)
	}
	user := &users.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.nowFunc().UTC(),
		IsActive:     true,
	}
	if err := s.repos.Users.Create(user); err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to create demo user: %w", err)
	}

	event := s.log.Info().Str("email", email).Str("user_id", user.ID)
	if generated {
		event = event.Str("password", password)
	}
	event.Msg("Demo user created")
	return nil
}

func generatePassword() (string, error) {
	b := make([]byte, generatedPasswordBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
