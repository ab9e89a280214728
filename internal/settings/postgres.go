package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bobby-s-dev/current-weather/internal/models"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: failed to connect: %w", err)
	}

	repo := NewPostgresRepository(pool)
	if err := repo.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

// NewPostgresRepository wraps an existing pool. The caller creates the schema.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS settings (
			id SMALLINT PRIMARY KEY CHECK (id = 1),
			city_name TEXT NOT NULL,
			country_code TEXT NOT NULL,
			api_endpoint TEXT NOT NULL,
			api_key TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("postgres: failed to create settings table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Load(ctx context.Context) (models.Settings, bool, error) {
	query := `
		SELECT city_name, country_code, api_endpoint, api_key, updated_at
		FROM settings
		WHERE id = 1
	`

	var s models.Settings
	err := r.pool.QueryRow(ctx, query).Scan(&s.CityName, &s.CountryCode, &s.APIEndpoint, &s.APIKey, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Settings{}, false, nil
	}
	if err != nil {
		return models.Settings{}, false, fmt.Errorf("postgres: failed to load settings: %w", err)
	}
	return s, true, nil
}

func (r *PostgresRepository) Save(ctx context.Context, s models.Settings) error {
	query := `
		INSERT INTO settings (id, city_name, country_code, api_endpoint, api_key, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			city_name = EXCLUDED.city_name,
			country_code = EXCLUDED.country_code,
			api_endpoint = EXCLUDED.api_endpoint,
			api_key = EXCLUDED.api_key,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, s.CityName, s.CountryCode, s.APIEndpoint, s.APIKey, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: failed to save settings: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
