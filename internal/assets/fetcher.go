// 包 assets：读取前端 JSON 资源（settings / places / i18n），来源可为 HTTP 基址或本地目录
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"place-map/internal/logger"
	"place-map/internal/metrics"
)

// 资源相对路径
const (
	SettingsPath = "assets/json/settings.json"
	PlacesPath   = "assets/json/places.json"
)

// 单个资源体积上限
const maxBody = 8 << 20

// Fetcher：按相对路径读取资源字节
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// StatusError：HTTP 非 2xx 响应
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Code)
}

// HTTPFetcher：以基址拼接相对路径发起 GET
// 约束：单次请求不重试；超时由调用方 ctx 决定，client 为空时使用默认客户端
type HTTPFetcher struct {
	Base   string
	Client *http.Client
}

func NewHTTPFetcher(base string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{Base: strings.TrimRight(base, "/"), Client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	u := f.Base + "/" + strings.TrimLeft(path.Clean("/"+name), "/")
	t0 := time.Now()
	b, err := f.get(ctx, u)
	metrics.AssetFetchDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	metrics.AssetFetchTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		logger.L().Debug("asset_fetch_error", "url", u, "err", err)
		return nil, err
	}
	logger.L().Debug("asset_fetch_ok", "url", u, "bytes", len(b))
	return b, nil
}

func (f *HTTPFetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: u, Code: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

// DirFetcher：从本地目录读取，供离线工具与无前端托管的部署使用
type DirFetcher struct {
	Root string
}

var ErrOutsideRoot = errors.New("assets: path escapes root")

func (f DirFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := filepath.FromSlash(path.Clean("/" + name))
	p := filepath.Join(f.Root, clean)
	if rel, err := filepath.Rel(f.Root, p); err != nil || strings.HasPrefix(rel, "..") {
		return nil, ErrOutsideRoot
	}
	b, err := os.ReadFile(p)
	metrics.AssetFetchTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	logger.L().Debug("asset_read_ok", "path", p, "bytes", len(b))
	return b, nil
}
