package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

type CountryClient struct {
	*BaseClient
	baseURL string
}

type countryResponse struct {
	Flag string `json:"flag"`
}

func NewCountryClient(baseURL string, config ClientConfig, logger *zap.Logger) *CountryClient {
	return &CountryClient{
		BaseClient: NewBaseClient("countries", config, logger),
		baseURL:    baseURL,
	}
}

// GetFlag returns the flag image URL of the first country matching code.
func (c *CountryClient) GetFlag(ctx context.Context, code string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid country info URL: %v", ErrTransport, err)
	}
	values := u.Query()
	values.Set("codes", code)
	u.RawQuery = values.Encode()

	data, err := c.Get(ctx, u.String())
	if err != nil {
		return "", fmt.Errorf("failed to fetch country info: %w", err)
	}

	var response []countryResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return "", fmt.Errorf("%w: failed to parse country info: %v", ErrMalformedResponse, err)
	}
	if len(response) == 0 || response[0].Flag == "" {
		return "", fmt.Errorf("%w: no flag for country %q", ErrMalformedResponse, code)
	}

	return response[0].Flag, nil
}
