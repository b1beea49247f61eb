package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// DB wraps the SQLite database holding the offline station index.
type DB struct {
	*sql.DB
}

// Open creates or opens a SQLite database at the given path and applies migrations.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{DB: sqlDB}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	log.Info().Str("path", path).Msg("Station database opened")
	return db, nil
}

func (db *DB) migrate() error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// station_key is the directory id when known, the name otherwise.
	// x/y are NULL for stations the directory cannot place.
	`CREATE TABLE IF NOT EXISTS stations (
		station_key TEXT PRIMARY KEY,
		station_id  TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		name_lower  TEXT NOT NULL,
		x           REAL,
		y           REAL,
		updated_at  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stations_name_lower ON stations(name_lower)`,
	`CREATE INDEX IF NOT EXISTS idx_stations_xy ON stations(x, y)`,
}
