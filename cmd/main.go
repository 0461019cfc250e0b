// 程序入口：仅负责读取配置、构建对象图、执行启动流程并提供 HTTP 服务；路由注册在 internal/api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"place-map/internal/api"
	"place-map/internal/app"
	"place-map/internal/config"
	"place-map/internal/logger"
	"place-map/internal/middleware"
	"place-map/internal/version"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Debug("log_init_ok")

	cfg := config.Load()
	l.Debug("config_loaded",
		"addr", cfg.Addr,
		"api_base", cfg.APIBase,
		"assets_base_url", cfg.AssetsBaseURL,
		"assets_dir", cfg.AssetsDir,
		"places_source", cfg.PlacesSource,
	)

	w, err := app.NewWire(cfg)
	if err != nil {
		l.Error("wire_error", "err", err)
		os.Exit(1)
	}
	defer w.Close()

	// 路由先于启动流程构建，以便导航状态收到初始化期间的通知
	srv := api.NewServer(w)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	err = w.Start(ctx)
	cancel()
	if err != nil {
		l.Error("start_error", "err", err)
		os.Exit(1)
	}

	handler := logger.AccessMiddleware(l)(srv.Handler())
	handler = middleware.Wrap(handler, cfg.RateLimit)
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		_ = s.Shutdown(sctx)
	}()

	l.Info("listening", "addr", cfg.Addr, "commit", version.Commit)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("listen_error", "err", err)
		os.Exit(1)
	}
}
