// Package storage provides the cache.Store backends: memory, redis, postgres and sqlite.
package storage

import (
	"fmt"

	"github.com/iWorld-y/search_relay/app/search_relay/pkg/cache"
	"github.com/iWorld-y/search_relay/app/search_relay/pkg/config"
)

// NewStorage 根据 cache.driver 创建存储
func NewStorage(cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(cfg.Redis)
	case "postgres":
		return NewPostgres(cfg.SQL.DSN)
	case "sqlite":
		return NewSQLite(cfg.SQL.Path)
	default:
		return nil, fmt.Errorf("unknown cache driver: %s", cfg.Driver)
	}
}
