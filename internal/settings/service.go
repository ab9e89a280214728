package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/current-weather/internal/models"
)

var validate = validator.New()

// ValidationError lists the fields that failed validation, keyed by their
// JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid settings: %d field(s) failed validation", len(e.Fields))
}

// Listener is called after every successful update.
type Listener func(s models.Settings)

// Service keeps the current settings in memory and persists changes through
// the repository.
type Service struct {
	repo      Repository
	logger    *zap.Logger
	mu        sync.RWMutex
	current   models.Settings
	listeners []Listener
}

// NewService loads the stored settings, seeding the repository with
// defaults when it is empty.
func NewService(ctx context.Context, repo Repository, defaults models.Settings, logger *zap.Logger) (*Service, error) {
	s := &Service{
		repo:   repo,
		logger: logger,
	}

	stored, ok, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		defaults.UpdatedAt = time.Now().UTC()
		// Defaults may be incomplete; the fetch path reports what is missing.
		if err := repo.Save(ctx, defaults); err != nil {
			return nil, err
		}
		stored = defaults
		logger.Info("Settings seeded from environment",
			zap.String("city", defaults.CityName),
			zap.String("country", defaults.CountryCode))
	}

	s.current = stored
	return s, nil
}

// Current returns a copy of the active settings.
func (s *Service) Current() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn to run after each update.
func (s *Service) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Update validates, persists and activates next, then notifies listeners.
func (s *Service) Update(ctx context.Context, next models.Settings) (models.Settings, error) {
	if err := Validate(next); err != nil {
		return models.Settings{}, err
	}
	next.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, next); err != nil {
		return models.Settings{}, err
	}

	s.mu.Lock()
	s.current = next
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.logger.Info("Settings updated",
		zap.String("city", next.CityName),
		zap.String("country", next.CountryCode),
		zap.String("api_endpoint", next.APIEndpoint))

	for _, fn := range listeners {
		fn(next)
	}
	return next, nil
}

// Validate checks the admin-editable fields.
func Validate(s models.Settings) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonName(fe.Field())] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

func jsonName(field string) string {
	switch field {
	case "CityName":
		return "city_name"
	case "CountryCode":
		return "country_code"
	case "APIEndpoint":
		return "api_endpoint"
	case "APIKey":
		return "api_key"
	default:
		return field
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "url":
		return "must be an absolute URL"
	default:
		return "is invalid"
	}
}
