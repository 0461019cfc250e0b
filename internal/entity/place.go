package entity

// Place：地点信息（名称、类别、邮编、地址、电话、链接与坐标）
// 约束：独占持有 Location 值；列表整体替换，不做增量更新
type Place struct {
	Title      string   `json:"title"`
	Type       string   `json:"type"`
	PostalCode string   `json:"postalCode"`
	Address    string   `json:"address"`
	Tel        string   `json:"tel"`
	URL        string   `json:"url"`
	Location   Location `json:"location"`
}

// Locations：按列表顺序提取坐标，用于地图标记
func Locations(places []Place) []Location {
	out := make([]Location, 0, len(places))
	for _, p := range places {
		out = append(out, p.Location)
	}
	return out
}
