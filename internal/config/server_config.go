package config

import (
	"fmt"
	"time"
)

// ServerConfig configures the development API server.
type ServerConfig interface {
	GetPort() string
	GetSigningSecret() string
	GetAccessTokenExpiry() time.Duration
	GetDemoUser() (email, username, password string)
}

type Server struct{}

var _ ServerConfig = Server{}

func (Server) GetPort() string {
	port := GetEnv("PORT", "3000")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (Server) GetSigningSecret() string {
	return GetEnv("JWT_SECRET", "dev-secret-change-me")
}

func (Server) GetAccessTokenExpiry() time.Duration {
	return GetDuration("ACCESS_TOKEN_EXPIRY", 1*time.Hour)
}

// GetDemoUser returns the account the development server seeds at startup.
// An empty email disables seeding; an empty password is generated.
func (Server) GetDemoUser() (email, username, password string) {
	return GetEnv("DEMO_USER_EMAIL", ""), GetEnv("DEMO_USER_NAME", "demo"), GetEnv("DEMO_USER_PASSWORD", "")
}
