// 包 store：PostgreSQL 地点数据访问层
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"place-map/internal/entity"
	"place-map/internal/logger"
)

// Store：持有连接池，提供地点读取与整体替换
type Store struct {
	db *sql.DB
}

// AttachDB：包装已打开的连接池，连接的生命周期归调用方
func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// LoadPlace：按导入顺序读取全部地点
func (s *Store) LoadPlace(ctx context.Context) ([]entity.Place, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT title, type, postal_code, address, tel, url, latitude, longitude
        FROM _places ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("places: query: %w", err)
	}
	defer rows.Close()
	var out []entity.Place
	for rows.Next() {
		var p entity.Place
		var lat, lon float64
		if err := rows.Scan(&p.Title, &p.Type, &p.PostalCode, &p.Address, &p.Tel, &p.URL, &lat, &lon); err != nil {
			return nil, fmt.Errorf("places: scan: %w", err)
		}
		p.Location = entity.NewLocation(lat, lon)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.L().Debug("places_loaded", "source", "postgres", "count", len(out))
	return out, nil
}

// ReplacePlaces：事务内清空并按顺序写入地点
// 约束：任一写入失败整体回滚，表内容保持原样
func (s *Store) ReplacePlaces(ctx context.Context, places []entity.Place) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM _places`); err != nil {
		return fmt.Errorf("places: clear: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO _places(position, title, type, postal_code, address, tel, url, latitude, longitude)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, p := range places {
		if _, err := stmt.ExecContext(ctx, i, p.Title, p.Type, p.PostalCode, p.Address, p.Tel, p.URL,
			p.Location.Latitude, p.Location.Longitude); err != nil {
			return fmt.Errorf("places: insert %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.L().Info("places_replaced", "count", len(places))
	return nil
}

// Count：当前地点数量
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM _places`).Scan(&n)
	return n, err
}
