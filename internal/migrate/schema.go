package migrate

import (
	"database/sql"

	"place-map/internal/logger"
)

// EnsureSchema：首次运行创建地点表与索引
// 约束：使用 IF NOT EXISTS，可重复执行
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _places (
            position INT PRIMARY KEY,
            title TEXT NOT NULL,
            type TEXT NOT NULL DEFAULT '',
            postal_code TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            tel TEXT NOT NULL DEFAULT '',
            url TEXT NOT NULL DEFAULT '',
            latitude DOUBLE PRECISION NOT NULL,
            longitude DOUBLE PRECISION NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_places_latlon ON _places(latitude, longitude)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
