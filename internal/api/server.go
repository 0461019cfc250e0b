// 包 api：集中注册 HTTP 路由，页面只负责渲染，地图状态由服务端持有
package api

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"sync"

	"place-map/internal/app"
	"place-map/internal/logger"
	"place-map/internal/metrics"
	"place-map/internal/version"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Server：HTTP 层，持有组合根
type Server struct {
	wire *app.Wire
	nav  *navigation

	// 标记点击串行化：点击回调与选中地点的读取需成对执行
	clickMu sync.Mutex
}

func NewServer(w *app.Wire) *Server {
	return &Server{wire: w, nav: newNavigation(w)}
}

// Handler：完整路由，API 挂载在 APIBase 前缀下
func (s *Server) Handler() http.Handler {
	cfg := s.wire.Config
	mux := http.NewServeMux()
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, s.Routes()))
	mux.Handle("GET "+cfg.APIBase+"/metrics", metrics.Handler())
	mux.HandleFunc("GET /config.js", s.handleConfigJS)
	if cfg.AssetsBaseURL == "" && cfg.AssetsDir != "" {
		mux.Handle("GET /assets/", counted("assets", http.FileServer(http.Dir(cfg.AssetsDir))))
	}
	mux.HandleFunc("GET /{$}", s.handlePage)
	return mux
}

// Routes：API 路由，独立 ServeMux 便于在主入口挂载到前缀
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /map", counted("map", http.HandlerFunc(s.handleMap)))
	mux.Handle("GET /places", counted("places", http.HandlerFunc(s.handlePlaces)))
	mux.Handle("POST /markers/click", counted("marker_click", http.HandlerFunc(s.handleMarkerClick)))
	mux.Handle("POST /map/fit-bounds", counted("fit_bounds", http.HandlerFunc(s.handleFitBounds)))
	mux.Handle("POST /map/refresh", counted("refresh", http.HandlerFunc(s.handleRefresh)))
	mux.Handle("GET /navigation", counted("navigation", http.HandlerFunc(s.handleNavigation)))
	mux.Handle("POST /navigation", counted("navigation", http.HandlerFunc(s.handleNavigationPost)))
	mux.Handle("GET /i18n", counted("i18n", http.HandlerFunc(s.handleI18n)))
	return mux
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	metrics.HTTPRequestsTotal.WithLabelValues("page").Inc()
	loc := s.wire.Localizer
	data := struct {
		Lang    string
		Title   string
		Places  any
		APIBase string
	}{
		Lang:    loc.Language(),
		Title:   loc.T("title"),
		Places:  s.wire.Map.Places(),
		APIBase: s.wire.Config.APIBase,
	}
	if data.Lang == "" {
		data.Lang = "en"
	}
	w.Header().Set("content-type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		logger.L().Error("page_render_error", "err", err)
	}
}

// handleConfigJS：向前端暴露 API 基础路径与构建信息，避免硬编码
func (s *Server) handleConfigJS(w http.ResponseWriter, r *http.Request) {
	base, _ := json.Marshal(s.wire.Config.APIBase)
	commit, _ := json.Marshal(version.Commit)
	w.Header().Set("content-type", "application/javascript; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write([]byte("window.__API_BASE__=" + string(base) + "\n"))
	_, _ = w.Write([]byte("window.__COMMIT_SHA__=" + string(commit) + "\n"))
}

func counted(route string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsTotal.WithLabelValues(route).Inc()
		h.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
