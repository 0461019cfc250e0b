// 包 entity：地点与坐标的值对象，供仓储与用例层共享
package entity

// Location：经纬度坐标（WGS84）
// 约束：值语义，创建后不修改；相等判定为精确比较，不做容差
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewLocation：构造坐标
func NewLocation(latitude, longitude float64) Location {
	return Location{Latitude: latitude, Longitude: longitude}
}

// Equal：两坐标纬度与经度均完全相等时为真
// 背景：标记点击回传的坐标与地点坐标来自同一份数据，直接比较即可定位地点
func (l Location) Equal(other Location) bool {
	return l.Latitude == other.Latitude && l.Longitude == other.Longitude
}
