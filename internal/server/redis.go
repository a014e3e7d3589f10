package server

import (
	"github.com/redis/go-redis/v9"

	"github.com/golf-alone/teetime-service/internal/config"
)

// newRedisClient returns nil when no cache address is configured. The client connects lazily.
func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.Cache.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
}

// cacheClient avoids handing a typed nil to the caching provider.
func cacheClient(client *redis.Client) redis.Cmdable {
	if client == nil {
		return nil
	}
	return client
}
