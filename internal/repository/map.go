package repository

import (
	"context"
	"html/template"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"place-map/internal/entity"
	"place-map/internal/gmaps"
	"place-map/internal/logger"
	"place-map/internal/settings"
)

// InfoWindowMaxWidth：信息窗最大宽度（像素）
const InfoWindowMaxWidth = 250

// MapRepository：地图服务抽象
type MapRepository interface {
	// Load：加载地图；已加载时直接返回缓存的视图，不再发起 SDK 引导
	Load(ctx context.Context) (*View, error)
	IsLoaded() bool
	// Refresh：触发重绘；未加载时无操作
	Refresh()
	// SetMarkers：追加标记，不做删除与差异比较
	SetMarkers(locations []entity.Location)
	// SetMarkerClickHandler：设置唯一的标记点击回调，后设置者生效
	SetMarkerClickHandler(handler func(entity.Location))
	// SetInfoWindowContent：替换共享信息窗内容，信息窗首次调用时创建
	SetInfoWindowContent(content template.HTML)
	// FitBounds：将视野调整为包含全部标记；无标记时无操作
	FitBounds()
}

// View：已构建的地图视图，创建后不变
type View struct {
	Center            entity.Location `json:"center"`
	Zoom              float64         `json:"zoom"`
	MapTypeControl    bool            `json:"mapTypeControl"`
	StreetViewControl bool            `json:"streetViewControl"`
}

// Marker：地图标记
type Marker struct {
	Position entity.Location `json:"position"`
}

// InfoWindow：共享信息窗
type InfoWindow struct {
	MaxWidth int              `json:"maxWidth"`
	Content  template.HTML    `json:"content"`
	Open     bool             `json:"open"`
	Anchor   *entity.Location `json:"anchor,omitempty"`
}

// Bounds：视野范围
type Bounds struct {
	SouthWest entity.Location `json:"southWest"`
	NorthEast entity.Location `json:"northEast"`
}

// State：地图可渲染状态的快照
type State struct {
	Loaded     bool        `json:"loaded"`
	View       *View       `json:"view,omitempty"`
	Markers    []Marker    `json:"markers"`
	InfoWindow *InfoWindow `json:"infoWindow,omitempty"`
	Bounds     *Bounds     `json:"bounds,omitempty"`
	Resizes    int         `json:"resizes"`
}

// BootstrapFunc：SDK 引导调用，测试中可替换
type BootstrapFunc func(ctx context.Context, sdkURL, apiKey string) error

// MapImplRepository：以设置中的地图服务为后端的 MapRepository
// 背景：服务端持有地图状态，浏览器页面按快照渲染并回传点击事件
// 约束：方法可并发调用；回调在锁外执行
type MapImplRepository struct {
	settings  *settings.Settings
	bootstrap BootstrapFunc
	group     singleflight.Group

	mu         sync.Mutex
	view       *View
	markers    []Marker
	onClick    func(entity.Location)
	infoWindow *InfoWindow
	bounds     *Bounds
	resizes    int
}

func NewMapImplRepository(s *settings.Settings, client *http.Client) *MapImplRepository {
	return NewMapImplRepositoryWith(s, func(ctx context.Context, sdkURL, apiKey string) error {
		_, err := gmaps.Bootstrap(ctx, client, sdkURL, apiKey, "")
		return err
	})
}

func NewMapImplRepositoryWith(s *settings.Settings, bootstrap BootstrapFunc) *MapImplRepository {
	return &MapImplRepository{settings: s, bootstrap: bootstrap}
}

func (r *MapImplRepository) Load(ctx context.Context) (*View, error) {
	r.mu.Lock()
	v := r.view
	r.mu.Unlock()
	if v != nil {
		return v, nil
	}
	res, err, _ := r.group.Do("load", func() (any, error) {
		r.mu.Lock()
		v := r.view
		r.mu.Unlock()
		if v != nil {
			return v, nil
		}
		ms, err := r.settings.Map()
		if err != nil {
			return nil, err
		}
		if err := r.bootstrap(ctx, ms.URL, ms.APIKey); err != nil {
			return nil, err
		}
		v = &View{
			Center: entity.NewLocation(ms.Center.Latitude, ms.Center.Longitude),
			Zoom:   ms.Zoom,
		}
		r.mu.Lock()
		r.view = v
		r.mu.Unlock()
		logger.L().Info("map_loaded", "zoom", v.Zoom, "lat", v.Center.Latitude, "lon", v.Center.Longitude)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*View), nil
}

func (r *MapImplRepository) IsLoaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view != nil
}

func (r *MapImplRepository) Refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.view == nil {
		return
	}
	r.resizes++
	logger.L().Debug("map_resize", "count", r.resizes)
}

func (r *MapImplRepository) SetMarkers(locations []entity.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range locations {
		r.markers = append(r.markers, Marker{Position: l})
	}
	logger.L().Debug("map_markers_added", "added", len(locations), "total", len(r.markers))
}

func (r *MapImplRepository) SetMarkerClickHandler(handler func(entity.Location)) {
	r.mu.Lock()
	r.onClick = handler
	r.mu.Unlock()
}

func (r *MapImplRepository) SetInfoWindowContent(content template.HTML) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.infoWindow == nil {
		r.infoWindow = &InfoWindow{MaxWidth: InfoWindowMaxWidth}
	}
	r.infoWindow.Content = content
}

func (r *MapImplRepository) FitBounds() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.markers) == 0 {
		return
	}
	first := r.markers[0].Position
	b := Bounds{SouthWest: first, NorthEast: first}
	for _, m := range r.markers[1:] {
		p := m.Position
		if p.Latitude < b.SouthWest.Latitude {
			b.SouthWest.Latitude = p.Latitude
		}
		if p.Longitude < b.SouthWest.Longitude {
			b.SouthWest.Longitude = p.Longitude
		}
		if p.Latitude > b.NorthEast.Latitude {
			b.NorthEast.Latitude = p.Latitude
		}
		if p.Longitude > b.NorthEast.Longitude {
			b.NorthEast.Longitude = p.Longitude
		}
	}
	r.bounds = &b
}

// Click：模拟标记点击事件
// 约束：先执行点击回调，再在该标记上打开信息窗（回调中设置的内容会随之显示）；
// 坐标处无标记时返回 false
func (r *MapImplRepository) Click(location entity.Location) bool {
	r.mu.Lock()
	found := false
	for _, m := range r.markers {
		if m.Position.Equal(location) {
			found = true
			break
		}
	}
	handler := r.onClick
	r.mu.Unlock()
	if !found {
		return false
	}
	if handler != nil {
		handler(location)
	}
	r.mu.Lock()
	if r.infoWindow != nil {
		anchor := location
		r.infoWindow.Open = true
		r.infoWindow.Anchor = &anchor
	}
	r.mu.Unlock()
	return true
}

// Snapshot：返回当前状态的副本
func (r *MapImplRepository) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := State{
		Loaded:  r.view != nil,
		View:    r.view,
		Markers: append([]Marker{}, r.markers...),
		Resizes: r.resizes,
	}
	if r.infoWindow != nil {
		iw := *r.infoWindow
		st.InfoWindow = &iw
	}
	if r.bounds != nil {
		b := *r.bounds
		st.Bounds = &b
	}
	return st
}
