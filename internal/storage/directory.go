package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationmap/internal/directory"
	"github.com/bbernstein/stationmap/internal/geo"
	"github.com/bbernstein/stationmap/internal/models"
)

const (
	defaultNameLimit    = 10
	defaultNearbyLimit  = 10
	defaultNearbyRadius = 2.0 // km
)

// SQLiteDirectory serves station lookups from the local index, for use
// without network access to the remote directory.
type SQLiteDirectory struct {
	db           *DB
	nameLimit    int
	nearbyLimit  int
	nearbyRadius float64
}

func NewSQLiteDirectory(db *DB) *SQLiteDirectory {
	return &SQLiteDirectory{
		db:           db,
		nameLimit:    defaultNameLimit,
		nearbyLimit:  defaultNearbyLimit,
		nearbyRadius: defaultNearbyRadius,
	}
}

// SearchByName returns stations whose name starts with text, followed by
// stations containing it elsewhere, shorter names first.
func (d *SQLiteDirectory) SearchByName(ctx context.Context, text string) ([]models.Station, error) {
	needle := escapeLike(strings.ToLower(strings.TrimSpace(text)))
	if needle == "" {
		return []models.Station{}, nil
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT station_id, name, x, y
		FROM stations
		WHERE name_lower LIKE '%' || ? || '%' ESCAPE '\'
		ORDER BY CASE WHEN name_lower LIKE ? || '%' ESCAPE '\' THEN 0 ELSE 1 END,
		         length(name), name
		LIMIT ?`,
		needle, needle, d.nameLimit,
	)
	if err != nil {
		return nil, directory.NewLookupFailedError(directory.OpSearchByName, text, err)
	}
	defer rows.Close()

	stations, err := scanStations(rows)
	if err != nil {
		return nil, directory.NewLookupFailedError(directory.OpSearchByName, text, err)
	}
	return stations, nil
}

// SearchByLocation returns positioned stations within the search radius of
// (x, y), nearest first, with Distance set in metres.
func (d *SQLiteDirectory) SearchByLocation(ctx context.Context, x, y float64) ([]models.Station, error) {
	label := fmt.Sprintf("%f,%f", x, y)
	latDeg, lonDeg := geo.BoundingBox(x, d.nearbyRadius)

	rows, err := d.db.QueryContext(ctx, `
		SELECT station_id, name, x, y
		FROM stations
		WHERE x IS NOT NULL AND y IS NOT NULL
		  AND x BETWEEN ? AND ?
		  AND y BETWEEN ? AND ?`,
		x-latDeg, x+latDeg, y-lonDeg, y+lonDeg,
	)
	if err != nil {
		return nil, directory.NewLookupFailedError(directory.OpSearchByLocation, label, err)
	}
	defer rows.Close()

	candidates, err := scanStations(rows)
	if err != nil {
		return nil, directory.NewLookupFailedError(directory.OpSearchByLocation, label, err)
	}

	nearby := make([]models.Station, 0, len(candidates))
	for _, s := range candidates {
		km := geo.DistanceKm(x, y, *s.Coordinate.X, *s.Coordinate.Y)
		if km > d.nearbyRadius {
			continue
		}
		meters := km * 1000
		s.Distance = &meters
		nearby = append(nearby, s)
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return *nearby[i].Distance < *nearby[j].Distance
	})
	if len(nearby) > d.nearbyLimit {
		nearby = nearby[:d.nearbyLimit]
	}
	return nearby, nil
}

// UpsertStations inserts or refreshes stations in the index.
func (d *SQLiteDirectory) UpsertStations(ctx context.Context, stations []models.Station) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Warn().Err(err).Msg("Rolling back station upsert")
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stations (station_key, station_id, name, name_lower, x, y, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(station_key) DO UPDATE SET
			station_id = excluded.station_id,
			name       = excluded.name,
			name_lower = excluded.name_lower,
			x          = excluded.x,
			y          = excluded.y,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, s := range stations {
		if s.Name == "" {
			continue
		}
		key := s.ID
		if key == "" {
			key = s.Name
		}
		if _, err := stmt.ExecContext(ctx, key, s.ID, s.Name, strings.ToLower(s.Name),
			nullFloat(s.Coordinate.X), nullFloat(s.Coordinate.Y), now); err != nil {
			return fmt.Errorf("upsert station %q: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Debug().Int("station_count", len(stations)).Msg("Upserted stations into offline index")
	return nil
}

// Count returns the number of indexed stations.
func (d *SQLiteDirectory) Count(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stations`).Scan(&n)
	return n, err
}

func scanStations(rows *sql.Rows) ([]models.Station, error) {
	stations := make([]models.Station, 0)
	for rows.Next() {
		var (
			s    models.Station
			x, y sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &s.Name, &x, &y); err != nil {
			return nil, err
		}
		if x.Valid {
			s.Coordinate.X = &x.Float64
		}
		if y.Valid {
			s.Coordinate.Y = &y.Float64
		}
		s.Source = models.SourceOffline
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
