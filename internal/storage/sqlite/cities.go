package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avoronov/skyfare/internal/cities"
	"github.com/avoronov/skyfare/pkg/logger"
)

// CityStorage persists discovered city-to-airport entries so fallback
// lookups only ever happen once per city across restarts. The preloaded
// table is never written here; only discoveries are.
type CityStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewCityStorage creates a new SQLite city storage.
func NewCityStorage(db *sql.DB, log *logger.Logger) (*CityStorage, error) {
	storage := &CityStorage{
		db:     db,
		logger: log.Named("sqlite-cities"),
	}
	if err := storage.initDB(); err != nil {
		return nil, err
	}
	return storage, nil
}

// initDB initializes the database tables
func (s *CityStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS discovered_cities (
			city TEXT PRIMARY KEY,
			airport_code TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create discovered_cities table: %w", err)
	}
	return nil
}

// LoadDiscovered returns every persisted discovered entry.
func (s *CityStorage) LoadDiscovered(ctx context.Context) ([]cities.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT city, airport_code FROM discovered_cities ORDER BY city`)
	if err != nil {
		return nil, fmt.Errorf("failed to query discovered cities: %w", err)
	}
	defer rows.Close()

	var entries []cities.Entry
	for rows.Next() {
		var entry cities.Entry
		if err := rows.Scan(&entry.City, &entry.AirportCode); err != nil {
			return nil, fmt.Errorf("failed to scan discovered city: %w", err)
		}
		entry.Source = cities.SourceDiscovered
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read discovered cities: %w", err)
	}

	return entries, nil
}

// SaveDiscovered upserts one discovered entry. Re-saving the same city is
// harmless: the resolver's idempotent insert maps onto the upsert.
func (s *CityStorage) SaveDiscovered(ctx context.Context, entry cities.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO discovered_cities (city, airport_code, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(city) DO UPDATE SET airport_code = excluded.airport_code`,
		entry.City,
		entry.AirportCode,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert discovered city: %w", err)
	}

	s.logger.Debug("Persisted discovered city",
		logger.String("city", entry.City),
		logger.String("code", entry.AirportCode),
	)
	return nil
}
