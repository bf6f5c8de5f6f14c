package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	appNameVar   = "APP_NAME"
	apiURLVar    = "API_URL"
	folderEnvVar = "FOLDER"
	timeoutVar   = "REQUEST_TIMEOUT"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Calendar")
}

// GetAPIURL returns the base URL of the calendar REST API (e.g., "http://localhost:3000")
func (EnvVars) GetAPIURL() string {
	return GetEnv(apiURLVar, "http://localhost:3000")
}

func (EnvVars) GetDataFolder() string {
	if folder := os.Getenv(folderEnvVar); folder != "" {
		return folder
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "go-calendar")
	}
	return "./data"
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetRequestTimeout bounds a single API call made by the CLI. Zero disables it.
func (EnvVars) GetRequestTimeout() time.Duration {
	return GetDuration(timeoutVar, 30*time.Second)
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}
