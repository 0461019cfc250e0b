package settings

import "errors"

// MapSettings：settings.json 的 map 段
type MapSettings struct {
	URL    string  `json:"url"`
	APIKey string  `json:"apiKey"`
	Zoom   float64 `json:"zoom"`
	Center struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"center"`
}

// AnalyticsSettings：settings.json 的 analytics 段
type AnalyticsSettings struct {
	TrackingID string `json:"trackingID"`
}

// Map：读取地图设置
// 约束：url 为空视为配置错误，避免地图加载阶段发出无目标请求
func (s *Settings) Map() (MapSettings, error) {
	var m MapSettings
	if err := s.Decode("map", &m); err != nil {
		return m, err
	}
	if m.URL == "" {
		return m, errors.New("settings: map.url is empty")
	}
	return m, nil
}

// TrackingID：读取统计跟踪 ID，可为空
func (s *Settings) TrackingID() (string, error) {
	var a AnalyticsSettings
	if err := s.Decode("analytics", &a); err != nil {
		return "", err
	}
	return a.TrackingID, nil
}
