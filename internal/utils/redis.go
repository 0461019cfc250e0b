package utils

import (
	"context"

	"github.com/redis/go-redis/v9"

	"place-map/internal/config"
	"place-map/internal/logger"
)

// OpenRedis：打开地点缓存客户端
// 约束：探活失败只记录日志并照常返回客户端，缓存装饰器会回退到内层来源
func OpenRedis(ctx context.Context, c config.Redis) *redis.Client {
	rc := redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
	if err := rc.Ping(ctx).Err(); err != nil {
		logger.L().Warn("redis_ping_error", "addr", c.Addr, "db", c.DB, "err", err)
	} else {
		logger.L().Info("redis_ping_ok", "addr", c.Addr, "db", c.DB)
	}
	return rc
}
