package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"place-map/internal/assets"
	"place-map/internal/config"
	"place-map/internal/logger"
	"place-map/internal/migrate"
	"place-map/internal/repository"
	"place-map/internal/store"
	"place-map/internal/utils"
)

// 文档注释：地点导入
// 背景：以 places.json 为唯一来源，整体替换 PostgreSQL 与 Elasticsearch 中的地点，保留文件中的顺序。
// 约束：IMPORT_TARGETS 为逗号分隔的 postgres/elastic；任一目标失败即退出；成功后清理 Redis 缓存。
func main() {
	_ = godotenv.Load(".env")
	l := logger.Setup()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var fetcher assets.Fetcher = assets.DirFetcher{Root: cfg.AssetsDir}
	if cfg.AssetsBaseURL != "" {
		fetcher = assets.NewHTTPFetcher(cfg.AssetsBaseURL, nil)
	}
	places, err := repository.NewJSONPlaceRepository(fetcher).LoadPlace(ctx)
	if err != nil {
		l.Error("places_load_error", "err", err)
		os.Exit(1)
	}
	l.Info("places_loaded", "count", len(places))

	targets := os.Getenv("IMPORT_TARGETS")
	if targets == "" {
		targets = config.SourcePostgres
	}
	for _, t := range strings.Split(targets, ",") {
		switch strings.TrimSpace(strings.ToLower(t)) {
		case config.SourcePostgres:
			db, err := utils.OpenPostgres(ctx, cfg.Postgres)
			if err != nil {
				l.Error("db_open_error", "err", err)
				os.Exit(1)
			}
			if err := migrate.EnsureSchema(db); err != nil {
				l.Error("schema_error", "err", err)
				os.Exit(1)
			}
			st := store.AttachDB(db)
			if err := st.ReplacePlaces(ctx, places); err != nil {
				l.Error("pg_import_error", "err", err)
				os.Exit(1)
			}
			n, _ := st.Count(ctx)
			l.Info("pg_import_done", "rows", n)
			_ = db.Close()
		case config.SourceElastic:
			es, err := utils.OpenElastic(cfg.ElasticURL)
			if err != nil {
				l.Error("es_open_error", "err", err)
				os.Exit(1)
			}
			repo := repository.NewElasticPlaceRepository(es, cfg.PlacesIndex)
			if err := repo.EnsureIndex(ctx); err != nil {
				l.Error("es_index_error", "err", err)
				os.Exit(1)
			}
			if err := repo.Replace(ctx, places); err != nil {
				l.Error("es_import_error", "err", err)
				os.Exit(1)
			}
			l.Info("es_import_done", "index", cfg.PlacesIndex, "docs", len(places))
		case "":
		default:
			l.Warn("import_target_unknown", "target", t)
		}
	}

	if cfg.RedisEnabled {
		rc := utils.OpenRedis(ctx, cfg.Redis)
		defer rc.Close()
		cache := repository.NewCachedPlaceRepository(nil, rc, cfg.PlacesCacheTTL)
		if err := cache.Invalidate(ctx); err != nil {
			l.Warn("places_cache_invalidate_error", "err", err)
		} else {
			l.Info("places_cache_invalidated")
		}
	}
}
