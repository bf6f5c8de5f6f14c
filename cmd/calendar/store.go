package main

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-calendar-client/internal/config"
	"github.com/jrsteele09/go-calendar-client/token"
	"github.com/jrsteele09/go-calendar-client/token/redisstore"
	tokenfakerepo "github.com/jrsteele09/go-calendar-client/token/repofake"
	"github.com/jrsteele09/go-calendar-client/token/sqlitestore"
)

// openStore picks the session store backend. memory forgets the session when
// the process exits.
func openStore(ctx context.Context, cfg config.StoreConfig) (token.Store, func() error, error) {
	switch backend := cfg.GetTokenStore(); backend {
	case config.StoreSQLite:
		s, err := sqlitestore.Open(ctx, cfg.GetSQLitePath(), cfg.GetTokenKey())
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.StoreRedis:
		s, err := redisstore.Dial(ctx, cfg.GetRedisAddr(), cfg.GetRedisPassword(), cfg.GetTokenKey())
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.StoreMemory:
		return tokenfakerepo.NewFakeTokenStore(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown token store %q", backend)
	}
}
