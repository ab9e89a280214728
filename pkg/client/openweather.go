package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/current-weather/internal/models"
)

var validate = validator.New()

type OpenWeatherClient struct {
	*BaseClient
}

// OpenWeatherCurrentResponse lists only the fields the page needs. Pointers
// tell an absent field apart from a zero value.
type OpenWeatherCurrentResponse struct {
	Name string `json:"name" validate:"required"`
	Sys  *struct {
		Country *string `json:"country" validate:"required"`
	} `json:"sys" validate:"required"`
	Main *struct {
		Temp *float64 `json:"temp" validate:"required"`
	} `json:"main" validate:"required"`
	Weather []struct {
		Icon string `json:"icon" validate:"required"`
	} `json:"weather" validate:"required,min=1,dive"`
}

func NewOpenWeatherClient(config ClientConfig, logger *zap.Logger) *OpenWeatherClient {
	return &OpenWeatherClient{
		BaseClient: NewBaseClient("openweather", config, logger),
	}
}

// GetCurrentWeather queries the configured endpoint for the city/country in q.
func (c *OpenWeatherClient) GetCurrentWeather(ctx context.Context, q models.QueryParameters) (*models.CurrentConditions, error) {
	requestURL, err := BuildWeatherURL(q)
	if err != nil {
		return nil, err
	}

	data, err := c.Get(ctx, requestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	var response OpenWeatherCurrentResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrMalformedResponse, err)
	}
	if err := validate.Struct(response); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &models.CurrentConditions{
		City:        response.Name,
		CountryCode: *response.Sys.Country,
		Temperature: *response.Main.Temp,
		Icon:        response.Weather[0].Icon,
	}, nil
}

// BuildWeatherURL merges q, appid and units into the configured endpoint,
// keeping any query parameters the endpoint already carries.
func BuildWeatherURL(q models.QueryParameters) (string, error) {
	u, err := url.Parse(q.APIEndpoint)
	if err != nil {
		return "", fmt.Errorf("%w: invalid API endpoint: %v", ErrTransport, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: API endpoint must be an absolute URL", ErrTransport)
	}

	values := u.Query()
	values.Set("q", q.CityName+","+q.CountryCode)
	values.Set("appid", q.APIKey)
	values.Set("units", "metric")
	u.RawQuery = values.Encode()

	return u.String(), nil
}
