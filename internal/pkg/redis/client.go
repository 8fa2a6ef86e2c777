// internal/pkg/redis/client.go
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"

	"warehouse/internal/pkg/config"
)

// NewClient 创建 Redis 客户端并做一次连通性检查。连接池大小来自配置。
func NewClient(ctx context.Context, c config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
		PoolSize: c.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", c.Addr, err)
	}
	zlog.Info().Str("addr", c.Addr).Msg("✅ Connected to Redis.")
	return client, nil
}
