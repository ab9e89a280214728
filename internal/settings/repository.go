package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobby-s-dev/current-weather/internal/models"
)

var ErrUnknownDriver = errors.New("unknown settings driver")

// Repository persists the single settings record.
type Repository interface {
	// Load returns false when nothing has been saved yet.
	Load(ctx context.Context) (models.Settings, bool, error)
	Save(ctx context.Context, s models.Settings) error
	Close() error
}

// Open returns the repository for driver ("sqlite" or "postgres").
func Open(ctx context.Context, driver, dsn string) (Repository, error) {
	switch driver {
	case "", "sqlite":
		repo, err := NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "postgres", "postgresql":
		repo, err := NewPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
