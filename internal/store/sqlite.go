package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/i474232898/meteobeguda/internal/store/migrate"
	"github.com/i474232898/meteobeguda/internal/weather"
)

//go:embed sql/insert-reading.sql
var insertReadingSQL string

//go:embed sql/get-readings.sql
var getReadingsSQL string

//go:embed sql/get-latest-reading.sql
var getLatestReadingSQL string

//go:embed sql/prune-readings-before.sql
var pruneReadingsBeforeSQL string

//go:embed sql/prune-readings-over-count.sql
var pruneReadingsOverCountSQL string

//go:embed sql/count-readings.sql
var countReadingsSQL string

// tsLayout is fixed-width so that text order in SQLite equals time order.
const tsLayout = "2006-01-02T15:04:05Z"

// OpenSQLite opens (creating if needed) the database at path and applies
// pending migrations. ":memory:" opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn, err := buildDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	// Every pooled connection to :memory: would see its own empty database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if err := migrate.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return db, nil
}

func buildDSN(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	params := []string{
		"_busy_timeout=5000",
		"_journal_mode=WAL",
	}
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}
	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}

// SQLiteStore is a weather.Store backed by a SQLite database. Timestamps are
// stored in UTC and returned in UTC.
type SQLiteStore struct {
	db         *sql.DB
	maxHistory int
	maxAge     time.Duration
	now        func() time.Time
}

// NewSQLiteStore wraps an open, migrated database. Retention limits behave as
// in NewMemoryStore.
func NewSQLiteStore(db *sql.DB, maxHistory int, maxAge time.Duration) *SQLiteStore {
	return &SQLiteStore{
		db:         db,
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveReadings upserts readings by timestamp and enforces retention, all in
// one transaction.
func (s *SQLiteStore) SaveReadings(ctx context.Context, readings []weather.Reading) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertReadingSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			slog.Error("close insert statement", "error", err)
		}
	}()

	for _, r := range readings {
		if _, err := stmt.ExecContext(ctx, readingArgs(r)...); err != nil {
			return fmt.Errorf("insert reading %s: %w", r.Timestamp.UTC().Format(tsLayout), err)
		}
	}

	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge).UTC().Format(tsLayout)
		if _, err := tx.ExecContext(ctx, pruneReadingsBeforeSQL, cutoff); err != nil {
			return fmt.Errorf("prune by age: %w", err)
		}
	}
	if s.maxHistory > 0 {
		if _, err := tx.ExecContext(ctx, pruneReadingsOverCountSQL, s.maxHistory); err != nil {
			return fmt.Errorf("prune by count: %w", err)
		}
	}
	return tx.Commit()
}

// GetLatest returns the most recent reading.
func (s *SQLiteStore) GetLatest(ctx context.Context) (weather.Reading, error) {
	rows, err := s.db.QueryContext(ctx, getLatestReadingSQL)
	if err != nil {
		return weather.Reading{}, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close latest reading rows", "error", err)
		}
	}()
	out, err := scanReadings(rows)
	if err != nil {
		return weather.Reading{}, err
	}
	if len(out) == 0 {
		return weather.Reading{}, ErrNotFound
	}
	return out[0], nil
}

// GetRange returns all readings between from and to (inclusive), oldest first.
func (s *SQLiteStore) GetRange(ctx context.Context, from, to time.Time) ([]weather.Reading, error) {
	rows, err := s.db.QueryContext(ctx, getReadingsSQL,
		from.UTC().Format(tsLayout),
		to.UTC().Format(tsLayout),
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close readings rows", "error", err)
		}
	}()
	out, err := scanReadings(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Count returns the number of stored readings.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countReadingsSQL).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// readingArgs follows the column order of insert-reading.sql.
func readingArgs(r weather.Reading) []any {
	m := r.Measurements
	return []any{
		r.Timestamp.UTC().Format(tsLayout),
		nullableReal(m.Temperature),
		nullableReal(m.TemperatureMax),
		nullableReal(m.TemperatureMin),
		m.Humidity,
		nullableReal(m.Dew),
		nullableReal(m.Windspeed),
		string(m.WindDirection),
		nullableReal(m.WindRec),
		nullableReal(m.WindspeedMax),
		string(m.WindspeedMaxDirection),
		nullableReal(m.TemperatureFeeling),
		nullableReal(m.HeatIndex),
		nullableReal(m.ThwIndex),
		nullableReal(m.Pressure),
		nullableReal(m.Rain),
		nullableReal(m.RainIntensity),
		nullableReal(m.HeatDegrees),
		nullableReal(m.ColdDegrees),
		nullableReal(m.TemperatureInterior),
		m.HumidityInterior,
		nullableReal(m.DewInterior),
		nullableReal(m.HeatIndexInterior),
		nullableReal(m.AirDensityInterior),
		nullableReal(m.WindDirectionDegrees),
		m.TxWind,
		m.IssReception,
		nullableReal(m.ArcInterior),
	}
}

// nullableReal maps NaN to NULL; SQLite has no NaN.
func nullableReal(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// nanFloat scans a nullable REAL, reading NULL back as NaN.
type nanFloat struct{ dst *float64 }

func (n nanFloat) Scan(src any) error {
	var f sql.NullFloat64
	if err := f.Scan(src); err != nil {
		return err
	}
	if !f.Valid {
		*n.dst = math.NaN()
		return nil
	}
	*n.dst = f.Float64
	return nil
}

func scanReadings(rows *sql.Rows) ([]weather.Reading, error) {
	var out []weather.Reading
	for rows.Next() {
		var (
			r               weather.Reading
			ts, dir, maxDir string
		)
		m := &r.Measurements
		err := rows.Scan(
			&ts,
			nanFloat{&m.Temperature},
			nanFloat{&m.TemperatureMax},
			nanFloat{&m.TemperatureMin},
			&m.Humidity,
			nanFloat{&m.Dew},
			nanFloat{&m.Windspeed},
			&dir,
			nanFloat{&m.WindRec},
			nanFloat{&m.WindspeedMax},
			&maxDir,
			nanFloat{&m.TemperatureFeeling},
			nanFloat{&m.HeatIndex},
			nanFloat{&m.ThwIndex},
			nanFloat{&m.Pressure},
			nanFloat{&m.Rain},
			nanFloat{&m.RainIntensity},
			nanFloat{&m.HeatDegrees},
			nanFloat{&m.ColdDegrees},
			nanFloat{&m.TemperatureInterior},
			&m.HumidityInterior,
			nanFloat{&m.DewInterior},
			nanFloat{&m.HeatIndexInterior},
			nanFloat{&m.AirDensityInterior},
			nanFloat{&m.WindDirectionDegrees},
			&m.TxWind,
			&m.IssReception,
			nanFloat{&m.ArcInterior},
		)
		if err != nil {
			return nil, err
		}
		t, err := time.Parse(tsLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parse stored timestamp %q: %w", ts, err)
		}
		r.Timestamp = t
		m.WindDirection = weather.CompassCode(dir)
		m.WindspeedMaxDirection = weather.CompassCode(maxDir)
		out = append(out, r)
	}
	return out, rows.Err()
}
