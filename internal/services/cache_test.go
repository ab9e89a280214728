package services

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/current-weather/internal/models"
)

func TestCacheTagsInvalidate(t *testing.T) {
	tags := NewCacheTags(zap.NewNop())

	if got := tags.Revision(WeatherCacheTag); got != 0 {
		t.Fatalf("expected revision 0, got %d", got)
	}

	tags.Invalidate(WeatherCacheTag)
	tags.Invalidate(WeatherCacheTag, "other")

	if got := tags.Revision(WeatherCacheTag); got != 2 {
		t.Fatalf("expected revision 2, got %d", got)
	}
	if got := tags.Revision("other"); got != 1 {
		t.Fatalf("expected revision 1 for other, got %d", got)
	}
	if stats := tags.GetStats(); len(stats) != 2 {
		t.Fatalf("expected stats for 2 tags, got %d", len(stats))
	}
}

type staticSettings struct {
	s models.Settings
}

func (s *staticSettings) Current() models.Settings {
	return s.s
}

func TestWeatherFactoryAppliesOverride(t *testing.T) {
	src := &staticSettings{s: validSettings()}
	weather := &fakeWeatherClient{current: londonConditions()}
	factory := NewWeatherFactoryWithClients(src, weather, &fakeFlagClient{}, zap.NewNop())

	if _, err := factory.Fetch(context.Background(), "Oslo", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if weather.lastQ.CityName != "Oslo" || weather.lastQ.CountryCode != "" {
		t.Fatalf("override not applied: %+v", weather.lastQ)
	}

	if _, err := factory.Fetch(context.Background(), "", "NO"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if weather.lastQ.CityName != "London" || weather.lastQ.CountryCode != "GB" {
		t.Fatalf("empty city must keep configured defaults: %+v", weather.lastQ)
	}
}

func TestWeatherFactoryReadsLatestSettings(t *testing.T) {
	src := &staticSettings{s: validSettings()}
	weather := &fakeWeatherClient{current: londonConditions()}
	factory := NewWeatherFactoryWithClients(src, weather, &fakeFlagClient{}, zap.NewNop())

	src.s.APIKey = ""
	result, err := factory.Fetch(context.Background(), "", "")
	if err == nil || result.Message != MessageMissingCredentials {
		t.Fatalf("expected missing credentials after settings change, got %v / %+v", err, result)
	}
}
