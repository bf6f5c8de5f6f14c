package config

import "time"

type Config interface {
	EnvConfig
	StoreConfig
	AuthConfig
	CalendarConfig
	ServerConfig
	CorsConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIURL() string
	GetDataFolder() string
	GetEnv() string
	GetRequestTimeout() time.Duration
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Store
	Auth
	Calendar
	Server
	Cors
}

func New() Config {
	return mainConfig{}
}
