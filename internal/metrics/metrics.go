package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000}

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placemap_http_requests_total",
		Help: "HTTP requests by route",
	}, []string{"route"})
	AssetFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placemap_asset_fetch_total",
		Help: "JSON asset fetches by result",
	}, []string{"result"})
	AssetFetchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "placemap_asset_fetch_duration_ms",
		Help:    "JSON asset fetch duration in milliseconds",
		Buckets: durationBuckets,
	})
	MapBootstrapTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placemap_map_bootstrap_total",
		Help: "Map SDK bootstrap calls by result",
	}, []string{"result"})
	MapBootstrapDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "placemap_map_bootstrap_duration_ms",
		Help:    "Map SDK bootstrap duration in milliseconds",
		Buckets: durationBuckets,
	})
	MarkerClicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placemap_marker_clicks_total",
		Help: "Marker clicks by resolution",
	}, []string{"resolved"})
	PlacesLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "placemap_places_loaded",
		Help: "Number of places currently put on the map",
	})
	PlaceCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placemap_place_cache_total",
		Help: "Place list cache lookups by result",
	}, []string{"result"})
	AnalyticsHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placemap_analytics_hits_total",
		Help: "Analytics hits by type and result",
	}, []string{"type", "result"})
	InitializeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "placemap_initialize_total",
		Help: "Application initialization runs by result",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		AssetFetchTotal,
		AssetFetchDurationMs,
		MapBootstrapTotal,
		MapBootstrapDurationMs,
		MarkerClicksTotal,
		PlacesLoaded,
		PlaceCacheTotal,
		AnalyticsHitsTotal,
		InitializeTotal,
	)
}

// Handler：Prometheus 抓取入口，挂载在 API 前缀下的 /metrics
func Handler() http.Handler { return promhttp.Handler() }

// Result：将错误映射为 ok/fail 标签
func Result(err error) string {
	if err != nil {
		return "fail"
	}
	return "ok"
}
