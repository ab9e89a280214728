package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/current-weather/internal/models"
)

const (
	MessageSuccess            = "Got valid weather results."
	MessageMissingCredentials = "No valid API key and/or API endpoint supplied!"
	MessageInvalidQuery       = "Invalid city name and/or country code!"
	MessageUpstreamFailure    = "No results found for given search parameters, service error or API key invalid."
)

var (
	ErrMissingCredentials = errors.New("missing API key or endpoint")
	ErrInvalidQuery       = errors.New("invalid query")
	ErrUpstreamFailure    = errors.New("weather provider failure")
	ErrFlagUnavailable    = errors.New("flag unavailable")
)

type WeatherClient interface {
	GetCurrentWeather(ctx context.Context, q models.QueryParameters) (*models.CurrentConditions, error)
}

type FlagClient interface {
	GetFlag(ctx context.Context, countryCode string) (string, error)
}

// WeatherService performs one current-weather fetch. Build a new one per
// request; it is not safe for concurrent use.
type WeatherService struct {
	query   models.QueryParameters
	weather WeatherClient
	flags   FlagClient
	logger  *zap.Logger
}

func NewWeatherService(settings models.Settings, weather WeatherClient, flags FlagClient, logger *zap.Logger) *WeatherService {
	return &WeatherService{
		query:   settings.Query(),
		weather: weather,
		flags:   flags,
		logger:  logger,
	}
}

// SetQueryParameters overrides the configured city and country.
func (s *WeatherService) SetQueryParameters(cityName, countryCode string) {
	s.query.CityName = cityName
	s.query.CountryCode = countryCode
}

func (s *WeatherService) CityName() string {
	return s.query.CityName
}

func (s *WeatherService) CountryCode() string {
	return s.query.CountryCode
}

func (s *WeatherService) HasAPIEndpoint() bool {
	return s.query.APIEndpoint != ""
}

func (s *WeatherService) HasAPIKey() bool {
	return s.query.APIKey != ""
}

// FetchCurrentWeather always returns a normalized result. The error is nil on
// success and otherwise wraps ErrMissingCredentials, ErrInvalidQuery or
// ErrUpstreamFailure. Its text may contain the API key and must not reach
// end users.
func (s *WeatherService) FetchCurrentWeather(ctx context.Context) (*models.WeatherResult, error) {
	result := &models.WeatherResult{}

	if !s.HasAPIKey() || !s.HasAPIEndpoint() {
		result.Status = models.StatusFailure
		result.Message = MessageMissingCredentials
		return result, ErrMissingCredentials
	}

	if s.query.CityName == "" {
		result.Status = models.StatusFailure
		result.Message = MessageInvalidQuery
		return result, ErrInvalidQuery
	}

	current, err := s.weather.GetCurrentWeather(ctx, s.query)
	if err != nil {
		s.logger.Error("HTTP client error",
			zap.String("city", s.query.CityName),
			zap.String("country", s.query.CountryCode),
			zap.Error(err))

		result.Status = models.StatusFailure
		result.Message = MessageUpstreamFailure
		return result, fmt.Errorf("%w: %w", ErrUpstreamFailure, err)
	}

	result.CityName = current.City
	result.CountryCode = current.CountryCode
	result.CurrentTemperature = int(math.Floor(current.Temperature))
	result.Icon = current.Icon
	// the provider's country code is authoritative for the flag
	result.Flag = s.fetchFlag(ctx, current.CountryCode)
	result.Status = models.StatusSuccess
	result.Message = MessageSuccess

	return result, nil
}

// fetchFlag is best effort: any failure is logged and yields "".
func (s *WeatherService) fetchFlag(ctx context.Context, countryCode string) string {
	if countryCode == "" {
		return ""
	}

	flag, err := s.flags.GetFlag(ctx, countryCode)
	if err != nil {
		s.logger.Warn("Country flag lookup failed",
			zap.String("country", countryCode),
			zap.Error(fmt.Errorf("%w: %w", ErrFlagUnavailable, err)))
		return ""
	}
	return flag
}
