// 包 repository：外部数据源与地图服务的仓储抽象及实现，负责把网络/SDK 结果转换为领域实体
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"place-map/internal/assets"
	"place-map/internal/entity"
	"place-map/internal/logger"
)

// ErrPlacesBroken：地点文件不是 JSON 数组
var ErrPlacesBroken = errors.New("Places file broken")

// PlaceRepository：地点列表来源
// 约束：单次尝试不重试；失败如何处理由调用方决定
type PlaceRepository interface {
	LoadPlace(ctx context.Context) ([]entity.Place, error)
}

// placeRecord：places.json 中的一条记录
type placeRecord struct {
	Title      string           `json:"title"`
	Type       string           `json:"type"`
	PostalCode string           `json:"postalCode"`
	Address    string           `json:"address"`
	Tel        string           `json:"tel"`
	URL        string           `json:"url"`
	Location   *entity.Location `json:"location"`
}

// DecodePlaces：解析地点 JSON；顶层必须为数组，按输入顺序返回
// 约束：任一记录缺少 location 时整体失败
func DecodePlaces(b []byte) ([]entity.Place, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("places: invalid json")
		}
		return nil, ErrPlacesBroken
	}
	var recs []placeRecord
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return nil, fmt.Errorf("places: decode: %w", err)
	}
	places := make([]entity.Place, 0, len(recs))
	for i, r := range recs {
		if r.Location == nil {
			return nil, fmt.Errorf("places: record %d has no location", i)
		}
		places = append(places, entity.Place{
			Title:      r.Title,
			Type:       r.Type,
			PostalCode: r.PostalCode,
			Address:    r.Address,
			Tel:        r.Tel,
			URL:        r.URL,
			Location:   entity.NewLocation(r.Location.Latitude, r.Location.Longitude),
		})
	}
	return places, nil
}

// JSONPlaceRepository：从 assets/json/places.json 读取地点
type JSONPlaceRepository struct {
	fetcher assets.Fetcher
	path    string
}

func NewJSONPlaceRepository(f assets.Fetcher) *JSONPlaceRepository {
	return &JSONPlaceRepository{fetcher: f, path: assets.PlacesPath}
}

func (r *JSONPlaceRepository) LoadPlace(ctx context.Context) ([]entity.Place, error) {
	b, err := r.fetcher.Fetch(ctx, r.path)
	if err != nil {
		return nil, err
	}
	places, err := DecodePlaces(b)
	if err != nil {
		logger.L().Error("places_decode_error", "path", r.path, "err", err)
		return nil, err
	}
	logger.L().Debug("places_loaded", "source", "json", "count", len(places))
	return places, nil
}
