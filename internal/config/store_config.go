package config

import "path/filepath"

// Token store backends
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type StoreConfig interface {
	GetTokenStore() string
	GetTokenKey() string
	GetSQLitePath() string
	GetRedisAddr() string
	GetRedisPassword() string
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetTokenStore() string {
	return GetEnv("TOKEN_STORE", StoreSQLite)
}

// GetTokenKey is the single key the serialized session is stored under.
func (Store) GetTokenKey() string {
	return GetEnv("TOKEN_KEY", "authToken")
}

func (Store) GetSQLitePath() string {
	return GetEnv("SQLITE_PATH", filepath.Join(EnvVars{}.GetDataFolder(), "storage.db"))
}

func (Store) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Store) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}
