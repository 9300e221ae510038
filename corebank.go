package corebank

import (
	"embed"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/firstchoicebank/corebank/cache"
	"github.com/firstchoicebank/corebank/config"
	"github.com/firstchoicebank/corebank/database"
	redis_db "github.com/firstchoicebank/corebank/internal/redis-db"
)

// Corebank is the transfer engine. It owns the datasource for all durable
// state, a redis client for per-account locks, and a cache for idempotency
// receipts.
type Corebank struct {
	redis      redis.UniversalClient
	datasource database.IDataSource
	receipts   cache.Cache
}

//go:embed sql/*.sql
var SQLFiles embed.FS

// NewCorebank initializes the engine with the provided datasource.
func NewCorebank(db database.IDataSource) (*Corebank, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)})
	if err != nil {
		return nil, err
	}
	receipts, err := cache.NewCache()
	if err != nil {
		return nil, err
	}
	return &Corebank{datasource: db, redis: redisClient.Client(), receipts: receipts}, nil
}

func (c *Corebank) cache() cache.Cache {
	return c.receipts
}
