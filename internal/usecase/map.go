// 包 usecase：组合仓储完成面向用户的操作
package usecase

import (
	"context"
	"html/template"
	"sync"

	"place-map/internal/entity"
	"place-map/internal/metrics"
	"place-map/internal/repository"
)

// MapUseCase：地图与地点的组合用例
type MapUseCase struct {
	mapRepo   repository.MapRepository
	placeRepo repository.PlaceRepository

	mu     sync.RWMutex
	places []entity.Place
}

func NewMapUseCase(mapRepo repository.MapRepository, placeRepo repository.PlaceRepository) *MapUseCase {
	return &MapUseCase{mapRepo: mapRepo, placeRepo: placeRepo}
}

func (u *MapUseCase) Load(ctx context.Context) (*repository.View, error) {
	return u.mapRepo.Load(ctx)
}

func (u *MapUseCase) IsLoaded() bool { return u.mapRepo.IsLoaded() }

func (u *MapUseCase) LoadPlace(ctx context.Context) ([]entity.Place, error) {
	return u.placeRepo.LoadPlace(ctx)
}

// PutPlaces：保存地点列表，并把坐标交给地图追加标记
func (u *MapUseCase) PutPlaces(places []entity.Place) {
	u.mu.Lock()
	u.places = places
	u.mu.Unlock()
	metrics.PlacesLoaded.Set(float64(len(places)))
	u.mapRepo.SetMarkers(entity.Locations(places))
}

// Places：当前保存的地点列表
func (u *MapUseCase) Places() []entity.Place {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return append([]entity.Place{}, u.places...)
}

// SetMarkerClickHandler：标记点击时按坐标找到地点后回调
// 约束：按列表顺序线性查找，坐标相同的多个地点取第一个；无匹配或尚未加载列表时传 nil
func (u *MapUseCase) SetMarkerClickHandler(handler func(place *entity.Place)) {
	u.mapRepo.SetMarkerClickHandler(func(location entity.Location) {
		place := u.findPlace(location)
		if place != nil {
			metrics.MarkerClicksTotal.WithLabelValues("true").Inc()
		} else {
			metrics.MarkerClicksTotal.WithLabelValues("false").Inc()
		}
		handler(place)
	})
}

func (u *MapUseCase) findPlace(location entity.Location) *entity.Place {
	u.mu.RLock()
	defer u.mu.RUnlock()
	for i := range u.places {
		if u.places[i].Location.Equal(location) {
			p := u.places[i]
			return &p
		}
	}
	return nil
}

func (u *MapUseCase) SetInfoWindowContent(content template.HTML) {
	u.mapRepo.SetInfoWindowContent(content)
}

func (u *MapUseCase) FitBounds() { u.mapRepo.FitBounds() }

func (u *MapUseCase) Refresh() { u.mapRepo.Refresh() }
