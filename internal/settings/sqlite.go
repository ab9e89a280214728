package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bobby-s-dev/current-weather/internal/models"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// WAL keeps readers unblocked while the admin form writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: set WAL mode: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS settings (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        city_name TEXT NOT NULL,
        country_code TEXT NOT NULL,
        api_endpoint TEXT NOT NULL,
        api_key TEXT NOT NULL,
        updated_at TEXT NOT NULL
    );`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Load(ctx context.Context) (models.Settings, bool, error) {
	var (
		s         models.Settings
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT city_name, country_code, api_endpoint, api_key, updated_at FROM settings WHERE id = 1`,
	).Scan(&s.CityName, &s.CountryCode, &s.APIEndpoint, &s.APIKey, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, false, nil
	}
	if err != nil {
		return models.Settings{}, false, fmt.Errorf("sqlite: load settings: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return models.Settings{}, false, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	s.UpdatedAt = ts
	return s, true, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, s models.Settings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings(id, city_name, country_code, api_endpoint, api_key, updated_at) VALUES(1,?,?,?,?,?)`,
		s.CityName, s.CountryCode, s.APIEndpoint, s.APIKey, s.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite: save settings: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
