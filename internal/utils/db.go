// 包 utils：外部连接工具，参数统一来自 config
package utils

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"place-map/internal/config"
	"place-map/internal/logger"
)

// OpenPostgres：打开地点库连接池并探活
// 约束：探活失败关闭连接池并返回错误，调用方不必再做清理
func OpenPostgres(ctx context.Context, c config.Postgres) (*sql.DB, error) {
	db, err := sql.Open("postgres", c.DSN())
	if err != nil {
		return nil, err
	}
	if c.MaxOpen > 0 {
		db.SetMaxOpenConns(c.MaxOpen)
	}
	if c.MaxIdle > 0 {
		db.SetMaxIdleConns(c.MaxIdle)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.L().Info("db_open_ok", "host", c.Host, "db", c.DB)
	return db, nil
}
