package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"place-map/internal/entity"
	"place-map/internal/logger"
	"place-map/internal/metrics"
)

const DefaultPlacesCacheKey = "places:v1"

// CachedPlaceRepository：Redis 读穿缓存
// 背景：地点列表变化频率低，缓存可避免每次加载都访问上游文件或数据库
// 约束：Redis 读写失败只记录日志并回退到内层来源；内层失败不写缓存
type CachedPlaceRepository struct {
	inner PlaceRepository
	rc    *redis.Client
	key   string
	ttl   time.Duration
}

func NewCachedPlaceRepository(inner PlaceRepository, rc *redis.Client, ttl time.Duration) *CachedPlaceRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedPlaceRepository{inner: inner, rc: rc, key: DefaultPlacesCacheKey, ttl: ttl}
}

func (c *CachedPlaceRepository) LoadPlace(ctx context.Context) ([]entity.Place, error) {
	if c.rc != nil {
		s, err := c.rc.Get(ctx, c.key).Result()
		switch {
		case err == nil:
			var places []entity.Place
			if e := json.Unmarshal([]byte(s), &places); e == nil {
				metrics.PlaceCacheTotal.WithLabelValues("hit").Inc()
				logger.L().Debug("places_cache_hit", "count", len(places))
				return places, nil
			}
			logger.L().Warn("places_cache_corrupt", "key", c.key)
		case err == redis.Nil:
		default:
			logger.L().Warn("places_cache_get_error", "err", err)
		}
		metrics.PlaceCacheTotal.WithLabelValues("miss").Inc()
	}
	places, err := c.inner.LoadPlace(ctx)
	if err != nil {
		return nil, err
	}
	if c.rc != nil {
		b, _ := json.Marshal(places)
		if err := c.rc.Set(ctx, c.key, b, c.ttl).Err(); err != nil {
			logger.L().Warn("places_cache_set_error", "err", err)
		}
	}
	return places, nil
}

// Invalidate：删除缓存，导入新数据后调用
func (c *CachedPlaceRepository) Invalidate(ctx context.Context) error {
	if c.rc == nil {
		return nil
	}
	return c.rc.Del(ctx, c.key).Err()
}
