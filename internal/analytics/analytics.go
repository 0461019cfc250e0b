// 包 analytics：访问统计上报（Measurement Protocol），替代浏览器端统计脚本
package analytics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"

	"place-map/internal/logger"
	"place-map/internal/metrics"
)

const DefaultEndpoint = "https://www.google-analytics.com/collect"

var (
	ErrNotStarted = errors.New("analytics: not started")
	ErrNoTracking = errors.New("analytics: empty tracking id")
)

// Analytics：统计会话
// 背景：由组合根构造并注入，Start 后以固定的客户端 ID 上报事件
// 约束：上报失败只返回错误，不影响调用方主流程
type Analytics struct {
	endpoint string
	client   *http.Client

	mu         sync.RWMutex
	trackingID string
	clientID   string
}

func New(endpoint string, client *http.Client) *Analytics {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Analytics{endpoint: endpoint, client: client}
}

// Start：以跟踪 ID 建立会话并生成客户端 ID
func (a *Analytics) Start(trackingID string) error {
	if strings.TrimSpace(trackingID) == "" {
		return ErrNoTracking
	}
	a.mu.Lock()
	a.trackingID = trackingID
	a.clientID = uuid.NewString()
	a.mu.Unlock()
	logger.L().Info("analytics_start", "tid", trackingID)
	return nil
}

// Started：会话是否已建立
func (a *Analytics) Started() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.trackingID != ""
}

// Send：上报一次命中（如 pageview）；extra 追加到表单参数
func (a *Analytics) Send(ctx context.Context, hitType string, extra url.Values) error {
	a.mu.RLock()
	tid, cid := a.trackingID, a.clientID
	a.mu.RUnlock()
	if tid == "" {
		return ErrNotStarted
	}
	form := url.Values{}
	for k, vs := range extra {
		form[k] = append([]string(nil), vs...)
	}
	form.Set("v", "1")
	form.Set("tid", tid)
	form.Set("cid", cid)
	form.Set("t", hitType)
	err := a.post(ctx, form)
	metrics.AnalyticsHitsTotal.WithLabelValues(hitType, metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	logger.L().Debug("analytics_sent", "t", hitType)
	return nil
}

func (a *Analytics) post(ctx context.Context, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("analytics: unexpected status %d", resp.StatusCode)
	}
	return nil
}
