package users

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the account record served by GET /users.
type User struct {
	ID           string    `json:"id,omitempty"`         // Unique identifier for the user, the token subject
	Email        string    `json:"email,omitempty"`      // User's email address
	Username     string    `json:"username,omitempty"`   // Unique username
	PasswordHash string    `json:"-"`                    // Hashed version of the user's password - never serialize
	CreatedAt    time.Time `json:"created_at,omitempty"` // Date and time when the user registered
	IsActive     bool      `json:"isActive"`             // Set by the client after the first successful login
}

// Activation is the PATCH /users/{id} body.
type Activation struct {
	IsActive bool `json:"isActive"`
}

// NormaliseEmail lower-cases and trims an address so lookups are case-insensitive.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the user's hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

// HasEmail reports whether the user owns email, ignoring case.
func (u *User) HasEmail(email string) bool {
	return NormaliseEmail(u.Email) == NormaliseEmail(email)
}

// HasUsername reports whether the user is called username, ignoring case.
func (u *User) HasUsername(username string) bool {
	return strings.EqualFold(strings.TrimSpace(u.Username), strings.TrimSpace(username))
}
