// 包 config：进程配置，统一从环境变量读取并给出默认值
// 背景：.env 由入口先行加载（godotenv），此处只读环境变量
package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// 地点数据源
const (
	SourceJSON     = "json"
	SourcePostgres = "postgres"
	SourceElastic  = "elastic"
)

// RateLimit：入口限流配置
type RateLimit struct {
	Enabled bool
	RPS     float64
	Burst   int
}

// Postgres：地点库连接参数
type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string
	MaxOpen  int
	MaxIdle  int
}

// DSN：拼接 lib/pq 可识别的 URL 形式；用户名与密码按 URL 规则转义
func (p Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.DB,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	if p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	} else {
		u.User = url.User(p.User)
	}
	return u.String()
}

// Redis：地点缓存连接参数
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Config：服务配置
type Config struct {
	Addr    string
	APIBase string

	// 资源来源：AssetsBaseURL 非空时经 HTTP 获取，否则读取 AssetsDir
	AssetsBaseURL string
	AssetsDir     string

	// 服务端无浏览器语言时使用的 Accept-Language
	AcceptLanguage string

	PlacesSource   string
	PlacesIndex    string
	ElasticURL     string
	Postgres       Postgres
	RedisEnabled   bool
	Redis          Redis
	PlacesCacheTTL time.Duration

	AnalyticsEndpoint string
	FetchTimeout      time.Duration

	RateLimit RateLimit
}

// Load：读取环境变量
// 约束：数值解析失败时回退默认值，不报错
func Load() Config {
	c := Config{
		Addr:              envOr("ADDR", ":8080"),
		APIBase:           strings.TrimRight(envOr("API_BASE", "/api"), "/"),
		AssetsBaseURL:     os.Getenv("ASSETS_BASE_URL"),
		AssetsDir:         envOr("ASSETS_DIR", "docs"),
		AcceptLanguage:    envOr("APP_ACCEPT_LANGUAGE", "en-US"),
		PlacesSource:      strings.ToLower(envOr("PLACES_SOURCE", SourceJSON)),
		PlacesIndex:       envOr("ES_INDEX", "places"),
		ElasticURL:        envOr("ES_URL", "http://127.0.0.1:9200"),
		Postgres: Postgres{
			Host:     envOr("PG_HOST", "localhost"),
			Port:     envOr("PG_PORT", "5432"),
			User:     envOr("PG_USER", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			DB:       envOr("PG_DB", "places"),
			SSLMode:  envOr("PG_SSLMODE", "disable"),
			MaxOpen:  envInt("PG_MAX_OPEN_CONNS", 10),
			MaxIdle:  envInt("PG_MAX_IDLE_CONNS", 5),
		},
		RedisEnabled: os.Getenv("REDIS_ENABLED") == "true",
		Redis: Redis{
			Addr:     net.JoinHostPort(envOr("REDIS_HOST", "127.0.0.1"), envOr("REDIS_PORT", "6379")),
			Password: os.Getenv("REDIS_PASS"),
			DB:       envInt("REDIS_DB", 0),
		},
		PlacesCacheTTL:    time.Duration(envInt("PLACES_CACHE_TTL_S", 300)) * time.Second,
		AnalyticsEndpoint: os.Getenv("ANALYTICS_ENDPOINT"),
		FetchTimeout:      time.Duration(envInt("FETCH_TIMEOUT_S", 30)) * time.Second,
		RateLimit: RateLimit{
			Enabled: os.Getenv("RATE_LIMIT_ENABLED") == "true",
			RPS:     envFloat("RATE_LIMIT_RPS", 20),
			Burst:   envInt("RATE_LIMIT_BURST", 40),
		},
	}
	if c.APIBase == "" {
		c.APIBase = "/api"
	}
	return c
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}
