package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/olivere/elastic/v7"

	"place-map/internal/entity"
	"place-map/internal/logger"
)

const DefaultPlacesIndex = "places"

// ElasticPlace：索引文档；Position 保留导入顺序，Location 映射为 geo_point
type ElasticPlace struct {
	Position   int              `json:"position"`
	Title      string           `json:"title"`
	Type       string           `json:"type"`
	PostalCode string           `json:"postalCode"`
	Address    string           `json:"address"`
	Tel        string           `json:"tel"`
	URL        string           `json:"url"`
	Location   elastic.GeoPoint `json:"location"`
}

// PlacesMapping：places 索引映射
const PlacesMapping = `{
  "settings": {"index": {"max_result_window": 20000}},
  "mappings": {
    "properties": {
      "position":   {"type": "integer"},
      "title":      {"type": "text"},
      "type":       {"type": "keyword"},
      "postalCode": {"type": "keyword"},
      "address":    {"type": "text"},
      "tel":        {"type": "keyword"},
      "url":        {"type": "keyword"},
      "location":   {"type": "geo_point"}
    }
  }
}`

// ElasticPlaceRepository：从 Elasticsearch 索引读取地点
// 约束：按 position 升序返回；文档数超过 maxPlaces 或任一文档无法解码时整体失败
type ElasticPlaceRepository struct {
	client *elastic.Client
	index  string
}

const maxPlaces = 10000

func NewElasticPlaceRepository(client *elastic.Client, index string) *ElasticPlaceRepository {
	if index == "" {
		index = DefaultPlacesIndex
	}
	return &ElasticPlaceRepository{client: client, index: index}
}

func (r *ElasticPlaceRepository) LoadPlace(ctx context.Context) ([]entity.Place, error) {
	res, err := r.client.Search().
		Index(r.index).
		Query(elastic.NewMatchAllQuery()).
		Sort("position", true).
		Size(maxPlaces).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("places: elastic search: %w", err)
	}
	if total := res.TotalHits(); total > maxPlaces {
		return nil, fmt.Errorf("places: elastic index %s holds %d documents, limit %d", r.index, total, maxPlaces)
	}
	places := make([]entity.Place, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc ElasticPlace
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			logger.L().Warn("places_elastic_decode_error", "id", hit.Id, "err", err)
			return nil, fmt.Errorf("places: elastic decode %s: %w", hit.Id, err)
		}
		places = append(places, FromElastic(doc))
	}
	logger.L().Debug("places_loaded", "source", "elastic", "count", len(places))
	return places, nil
}

// EnsureIndex：索引不存在时按 PlacesMapping 创建
func (r *ElasticPlaceRepository) EnsureIndex(ctx context.Context) error {
	exists, err := r.client.IndexExists(r.index).Do(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	res, err := r.client.CreateIndex(r.index).BodyString(PlacesMapping).Do(ctx)
	if err != nil {
		return err
	}
	if !res.Acknowledged {
		logger.L().Warn("places_index_not_acknowledged", "index", r.index)
	}
	return nil
}

// Replace：以 places 整体替换索引内容
func (r *ElasticPlaceRepository) Replace(ctx context.Context, places []entity.Place) error {
	if _, err := r.client.DeleteByQuery(r.index).Query(elastic.NewMatchAllQuery()).Refresh("true").Do(ctx); err != nil {
		return fmt.Errorf("places: elastic clear: %w", err)
	}
	if len(places) == 0 {
		return nil
	}
	bulk := r.client.Bulk().Index(r.index).Refresh("true")
	for i, p := range places {
		bulk.Add(elastic.NewBulkIndexRequest().Id(fmt.Sprint(i)).Doc(ToElastic(i, p)))
	}
	res, err := bulk.Do(ctx)
	if err != nil {
		return fmt.Errorf("places: elastic bulk: %w", err)
	}
	if failed := res.Failed(); len(failed) > 0 {
		return fmt.Errorf("places: elastic bulk: %d items failed: %s", len(failed), failed[0].Error.Reason)
	}
	return nil
}

func ToElastic(pos int, p entity.Place) ElasticPlace {
	return ElasticPlace{
		Position:   pos,
		Title:      p.Title,
		Type:       p.Type,
		PostalCode: p.PostalCode,
		Address:    p.Address,
		Tel:        p.Tel,
		URL:        p.URL,
		Location:   elastic.GeoPoint{Lat: p.Location.Latitude, Lon: p.Location.Longitude},
	}
}

func FromElastic(d ElasticPlace) entity.Place {
	return entity.Place{
		Title:      d.Title,
		Type:       d.Type,
		PostalCode: d.PostalCode,
		Address:    d.Address,
		Tel:        d.Tel,
		URL:        d.URL,
		Location:   entity.NewLocation(d.Location.Lat, d.Location.Lon),
	}
}
