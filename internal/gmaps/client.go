// 包 gmaps：地图服务 SDK 引导请求（JSONP 脚本加载）
package gmaps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"place-map/internal/logger"
	"place-map/internal/metrics"
)

var (
	ErrMissingURL = errors.New("gmaps: missing sdk url")
	ErrMissingKey = errors.New("gmaps: missing api key")
)

// DefaultCallback：JSONP 回调参数名
const DefaultCallback = "callback"

// Bootstrap：加载地图 SDK 脚本，确认服务可用且密钥被接受
// 背景：对应浏览器端以 JSONP 方式加载 SDK；服务端只校验可达性与响应状态，不执行脚本
// 参数：
// - client 为空时使用 5s 超时的默认客户端；
// - callback 为 JSONP 回调名，空时使用 DefaultCallback。
// 返回：脚本字节数；非 2xx 返回带状态码的错误。
func Bootstrap(ctx context.Context, client *http.Client, sdkURL, apiKey, callback string) (int, error) {
	if sdkURL == "" {
		return 0, ErrMissingURL
	}
	if apiKey == "" {
		return 0, ErrMissingKey
	}
	if callback == "" {
		callback = DefaultCallback
	}
	u, err := url.Parse(sdkURL)
	if err != nil {
		return 0, fmt.Errorf("gmaps: bad sdk url: %w", err)
	}
	q := u.Query()
	q.Set("key", apiKey)
	q.Set(DefaultCallback, callback)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, err
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	t0 := time.Now()
	logger.L().Debug("gmaps_bootstrap_req", "host", u.Host)
	n, err := do(client, req)
	dur := time.Since(t0).Milliseconds()
	metrics.MapBootstrapDurationMs.Observe(float64(dur))
	metrics.MapBootstrapTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		logger.L().Error("gmaps_bootstrap_error", "err", err, "duration_ms", dur)
		return 0, err
	}
	logger.L().Info("gmaps_bootstrap_ok", "bytes", n, "duration_ms", dur)
	return n, nil
}

func do(client *http.Client, req *http.Request) (int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	n, err := io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("gmaps: %s", http.StatusText(resp.StatusCode))
	}
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
