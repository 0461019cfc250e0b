package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"place-map/internal/assets"
	"place-map/internal/i18n"
	"place-map/internal/logger"
	"place-map/internal/metrics"
	"place-map/internal/notification"
	"place-map/internal/settings"
)

// Tracker：访问统计会话
type Tracker interface {
	Start(trackingID string) error
	Send(ctx context.Context, hitType string, extra url.Values) error
}

// ApplicationUseCase：应用启动初始化
// 流程：并行下载设置与本地化资源 → 全部成功后提交设置、安装翻译、开始统计并上报 pageview
type ApplicationUseCase struct {
	fetcher   assets.Fetcher
	settings  *settings.Settings
	localizer *i18n.Localizer
	tracker   Tracker
	center    *notification.Center

	mu   sync.RWMutex
	lang string
}

func NewApplicationUseCase(f assets.Fetcher, s *settings.Settings, l *i18n.Localizer, t Tracker, c *notification.Center) *ApplicationUseCase {
	return &ApplicationUseCase{fetcher: f, settings: s, localizer: l, tracker: t, center: c}
}

// Initialize：执行初始化，preferred 为按优先级排序的语言列表
// 约束：两路请求各只尝试一次；任一失败即返回首个错误，另一路结果被丢弃（其上下文被取消）；
// 失败时设置与翻译均不被写入。除调用方 ctx 外没有超时。
func (u *ApplicationUseCase) Initialize(ctx context.Context, preferred []string) error {
	lang := i18n.ResolveLanguage(preferred)
	l := logger.L()
	l.Info("app_initialize_begin", "lang", lang)
	u.post(notification.NetworkActiveStateChange, true)
	defer u.post(notification.NetworkActiveStateChange, false)

	var (
		rawSettings map[string]json.RawMessage
		messages    map[string]any
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := u.fetcher.Fetch(gctx, assets.SettingsPath)
		if err != nil {
			l.Error("app_settings_fetch_error", "err", err)
			return fmt.Errorf("request settings: %w", err)
		}
		if err := json.Unmarshal(b, &rawSettings); err != nil {
			l.Error("app_settings_decode_error", "err", err)
			return fmt.Errorf("request settings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		b, err := u.fetcher.Fetch(gctx, i18n.LocalizePath(lang))
		if err != nil {
			l.Error("app_localize_fetch_error", "lang", lang, "err", err)
			return fmt.Errorf("request localize file: %w", err)
		}
		if err := json.Unmarshal(b, &messages); err != nil {
			l.Error("app_localize_decode_error", "lang", lang, "err", err)
			return fmt.Errorf("request localize file: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.InitializeTotal.WithLabelValues("fail").Inc()
		l.Error("app_initialize_error", "err", err)
		return err
	}

	// 翻译先编译后提交：任一步失败时设置与翻译都保持原状
	res, err := i18n.Prepare(lang, i18n.Flatten(messages))
	if err != nil {
		metrics.InitializeTotal.WithLabelValues("fail").Inc()
		return err
	}
	if err := u.settings.Set(rawSettings); err != nil {
		metrics.InitializeTotal.WithLabelValues("fail").Inc()
		return err
	}
	u.localizer.Use(res)
	u.mu.Lock()
	u.lang = lang
	u.mu.Unlock()

	u.startAnalytics(ctx)
	metrics.InitializeTotal.WithLabelValues("ok").Inc()
	l.Info("app_initialize_ok", "lang", lang)
	return nil
}

// startAnalytics：开始统计会话并上报 pageview；失败只记录日志
func (u *ApplicationUseCase) startAnalytics(ctx context.Context) {
	if u.tracker == nil {
		return
	}
	l := logger.L()
	tid, err := u.settings.TrackingID()
	if err != nil {
		l.Warn("analytics_settings_missing", "err", err)
		return
	}
	if err := u.tracker.Start(tid); err != nil {
		l.Warn("analytics_start_error", "err", err)
		return
	}
	if err := u.tracker.Send(ctx, "pageview", nil); err != nil {
		l.Warn("analytics_send_error", "err", err)
	}
}

// Language：初始化成功后解析出的语言
func (u *ApplicationUseCase) Language() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.lang
}

func (u *ApplicationUseCase) post(key string, param any) {
	if u.center != nil {
		u.center.Post(key, param)
	}
}
