package models

import (
	"encoding/json"
	"time"
)

// Status is the terminal state of a weather fetch.
type Status int

const (
	StatusUnset Status = iota
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unset"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	if s == StatusUnset {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

// QueryParameters drive a single fetch. City and country may be overridden
// per request, endpoint and key only come from settings.
type QueryParameters struct {
	CityName    string
	CountryCode string
	APIEndpoint string
	APIKey      string
}

// Settings is the persisted configuration edited through the admin endpoint.
type Settings struct {
	CityName    string    `json:"city_name" form:"city_name" validate:"required,max=128"`
	CountryCode string    `json:"country_code" form:"country_code" validate:"required,max=128"`
	APIEndpoint string    `json:"api_endpoint" form:"api_endpoint" validate:"required,url,max=255"`
	APIKey      string    `json:"api_key" form:"api_key" validate:"required,max=128"`
	UpdatedAt   time.Time `json:"updated_at" form:"-"`
}

// Query returns the default query parameters described by the settings.
func (s Settings) Query() QueryParameters {
	return QueryParameters{
		CityName:    s.CityName,
		CountryCode: s.CountryCode,
		APIEndpoint: s.APIEndpoint,
		APIKey:      s.APIKey,
	}
}

// Masked returns a copy safe to show on the admin page.
func (s Settings) Masked() Settings {
	if n := len(s.APIKey); n > 8 {
		s.APIKey = "****" + s.APIKey[n-4:]
	} else if n > 0 {
		s.APIKey = "****"
	}
	return s
}

// CurrentConditions is what the weather provider client extracts from a
// successful upstream response.
type CurrentConditions struct {
	City        string
	CountryCode string
	Temperature float64
	Icon        string
}

// WeatherResult is the normalized record handed to the presentation layer.
type WeatherResult struct {
	CityName           string `json:"city_name"`
	CountryCode        string `json:"country_code"`
	CurrentTemperature int    `json:"current_temp"`
	Icon               string `json:"icon"`
	Flag               string `json:"flag"`
	Status             Status `json:"status"`
	Message            string `json:"message"`
}

// Succeeded reports whether the fetch ended with a success status.
func (r *WeatherResult) Succeeded() bool {
	return r.Status == StatusSuccess
}
