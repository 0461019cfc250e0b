// 包 middleware：HTTP 入口中间件
package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"place-map/internal/config"
	"place-map/internal/logger"
)

// 文档注释：按客户端 IP 的令牌桶限流中间件
// 背景：页面与标记点击接口对外暴露，限速避免资源源站与地点后端被突发请求压垮。
// 约束：不排队，超限直接返回 429；空闲超过 idleTTL 的条目定期清理。
type Limiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu    sync.Mutex
	byKey map[string]*limiterEntry
	hits  uint64
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter：参数非法时返回 nil（nil 限流器放行一切）
func NewLimiter(rps float64, burst int) *Limiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return &Limiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		byKey:   make(map[string]*limiterEntry),
	}
}

// Allow：key 在 now 时刻能否消耗一个令牌
func (l *Limiter) Allow(key string, now time.Time) bool {
	if l == nil || key == "" {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.byKey[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}
	return allowed
}

// Wrap：按配置包裹限流；未启用时原样返回 next
func Wrap(next http.Handler, cfg config.RateLimit) http.Handler {
	if !cfg.Enabled {
		return next
	}
	lim := NewLimiter(cfg.RPS, cfg.Burst)
	if lim == nil {
		logger.L().Warn("rate_limit_config_invalid", "rps", cfg.RPS, "burst", cfg.Burst)
		return next
	}
	logger.L().Info("rate_limit_enabled", "rps", cfg.RPS, "burst", cfg.Burst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !lim.Allow(ip, time.Now()) {
			logger.L().Debug("rate_limited", "ip", ip, "path", r.URL.Path)
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP：优先 X-Forwarded-For 的首个地址，其次 RemoteAddr
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
