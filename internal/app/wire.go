// 包 app：组合根，按配置构建仓储与用例并完成启动流程
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"place-map/internal/analytics"
	"place-map/internal/assets"
	"place-map/internal/config"
	"place-map/internal/entity"
	"place-map/internal/i18n"
	"place-map/internal/logger"
	"place-map/internal/migrate"
	"place-map/internal/notification"
	"place-map/internal/repository"
	"place-map/internal/settings"
	"place-map/internal/store"
	"place-map/internal/usecase"
	"place-map/internal/utils"
)

// Wire：进程内唯一的对象图
type Wire struct {
	Config    config.Config
	HTTP      *http.Client
	Fetcher   assets.Fetcher
	Settings  *settings.Settings
	Localizer *i18n.Localizer
	Analytics *analytics.Analytics
	Center    *notification.Center

	MapRepo *repository.MapImplRepository
	Places  repository.PlaceRepository

	App  *usecase.ApplicationUseCase
	Map  *usecase.MapUseCase
	Top  *usecase.TopUseCase
	Root *usecase.RootUseCase

	mu       sync.RWMutex
	selected *entity.Place
	closers  []func() error
}

// NewWire：按 cfg 构建依赖；外部连接只建立客户端，不做初始化请求
func NewWire(cfg config.Config) (*Wire, error) {
	client := &http.Client{}
	var fetcher assets.Fetcher
	if cfg.AssetsBaseURL != "" {
		fetcher = assets.NewHTTPFetcher(cfg.AssetsBaseURL, client)
	} else {
		fetcher = assets.DirFetcher{Root: cfg.AssetsDir}
	}
	w := &Wire{
		Config:    cfg,
		HTTP:      client,
		Fetcher:   fetcher,
		Settings:  settings.New(),
		Localizer: i18n.NewLocalizer(),
		Analytics: analytics.New(cfg.AnalyticsEndpoint, client),
		Center:    notification.NewCenter(),
	}
	places, err := w.openPlaces(cfg)
	if err != nil {
		w.Close()
		return nil, err
	}
	w.Places = places
	w.MapRepo = repository.NewMapImplRepository(w.Settings, client)
	w.App = usecase.NewApplicationUseCase(fetcher, w.Settings, w.Localizer, w.Analytics, w.Center)
	w.Map = usecase.NewMapUseCase(w.MapRepo, places)
	w.Top = usecase.NewTopUseCase(w.Center)
	w.Root = usecase.NewRootUseCase(w.Center)
	return w, nil
}

// NewWireWith：以给定的仓储构建对象图，供测试与离线工具注入
func NewWireWith(cfg config.Config, f assets.Fetcher, mapRepo *repository.MapImplRepository, s *settings.Settings, places repository.PlaceRepository, tr usecase.Tracker) *Wire {
	w := &Wire{
		Config:    cfg,
		HTTP:      http.DefaultClient,
		Fetcher:   f,
		Settings:  s,
		Localizer: i18n.NewLocalizer(),
		Center:    notification.NewCenter(),
		MapRepo:   mapRepo,
		Places:    places,
	}
	w.App = usecase.NewApplicationUseCase(f, s, w.Localizer, tr, w.Center)
	w.Map = usecase.NewMapUseCase(mapRepo, places)
	w.Top = usecase.NewTopUseCase(w.Center)
	w.Root = usecase.NewRootUseCase(w.Center)
	return w
}

// openPlaces：按 PLACES_SOURCE 选择地点来源，REDIS_ENABLED 时外包缓存
func (w *Wire) openPlaces(cfg config.Config) (repository.PlaceRepository, error) {
	l := logger.L()
	var repo repository.PlaceRepository
	switch cfg.PlacesSource {
	case config.SourceJSON, "":
		repo = repository.NewJSONPlaceRepository(w.Fetcher)
	case config.SourcePostgres:
		db, err := utils.OpenPostgres(context.Background(), cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		w.closers = append(w.closers, db.Close)
		if err := migrate.EnsureSchema(db); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		repo = store.AttachDB(db)
	case config.SourceElastic:
		es, err := utils.OpenElastic(cfg.ElasticURL)
		if err != nil {
			return nil, fmt.Errorf("open elastic: %w", err)
		}
		repo = repository.NewElasticPlaceRepository(es, cfg.PlacesIndex)
	default:
		return nil, fmt.Errorf("unknown PLACES_SOURCE %q", cfg.PlacesSource)
	}
	l.Info("places_source", "source", cfg.PlacesSource)

	if !cfg.RedisEnabled {
		l.Info("redis_disabled")
		return repo, nil
	}
	rc := utils.OpenRedis(context.Background(), cfg.Redis)
	w.closers = append(w.closers, rc.Close)
	return repository.NewCachedPlaceRepository(repo, rc, cfg.PlacesCacheTTL), nil
}

// Start：应用初始化后并行加载地图与地点，再放置标记并调整视野
// 约束：初始化失败直接返回，不加载地图
func (w *Wire) Start(ctx context.Context) error {
	preferred := i18n.PreferredLanguages(w.Config.AcceptLanguage)
	if err := w.App.Initialize(ctx, preferred); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	w.Map.SetMarkerClickHandler(w.onMarkerClick)

	var places []entity.Place
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := w.Map.Load(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		places, err = w.Map.LoadPlace(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	w.Map.PutPlaces(places)
	w.Map.FitBounds()
	logger.L().Info("app_started", "places", len(places), "lang", w.App.Language())
	return nil
}

// onMarkerClick：渲染选中地点的信息窗并通知标题变化
func (w *Wire) onMarkerClick(place *entity.Place) {
	w.mu.Lock()
	w.selected = place
	w.mu.Unlock()
	if place == nil {
		logger.L().Debug("marker_click_unresolved")
		return
	}
	content, err := RenderInfoWindow(*place, w.Localizer)
	if err != nil {
		logger.L().Error("info_window_render_error", "title", place.Title, "err", err)
		return
	}
	w.Map.SetInfoWindowContent(content)
	w.Center.Post(notification.ContentTitleChange, place.Title)
}

// Selected：最近一次标记点击解析出的地点
func (w *Wire) Selected() *entity.Place {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.selected
}

// Close：按打开的逆序关闭外部连接
func (w *Wire) Close() {
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i](); err != nil {
			logger.L().Warn("close_error", "err", err)
		}
	}
	w.closers = nil
}
