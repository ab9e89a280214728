package settings

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/bobby-s-dev/current-weather/internal/models"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLite(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleSettings() models.Settings {
	return models.Settings{
		CityName:    "London",
		CountryCode: "GB",
		APIEndpoint: "https://api.openweathermap.org/data/2.5/weather",
		APIKey:      "0123456789abcdef",
	}
}

func TestSQLiteLoadEmpty(t *testing.T) {
	repo := newTestRepo(t)

	_, ok, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok {
		t.Fatalf("expected no stored settings")
	}
}

func TestSQLiteSaveAndLoad(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := sampleSettings()
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := first
	second.CityName = "Zagreb"
	second.CountryCode = "HR"
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, ok, err := repo.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load failed: ok=%v err=%v", ok, err)
	}
	if got.CityName != "Zagreb" || got.CountryCode != "HR" || got.APIKey != first.APIKey || got.APIEndpoint != first.APIEndpoint {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestSQLiteLoadRejectsCorruptTimestamp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleSettings()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := repo.db.ExecContext(ctx, `UPDATE settings SET updated_at = 'garbage' WHERE id = 1`); err != nil {
		t.Fatalf("corrupting row failed: %v", err)
	}

	_, found, err := repo.Load(ctx)
	if err == nil {
		t.Fatal("expected an error for an unparseable updated_at")
	}
	if !strings.Contains(err.Error(), "parse updated_at") {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("corrupt row must not be reported as found")
	}
}

func TestServiceSeedsDefaults(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	svc, err := NewService(ctx, repo, sampleSettings(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	if got := svc.Current(); got.CityName != "London" || got.UpdatedAt.IsZero() {
		t.Fatalf("unexpected current settings %+v", got)
	}

	stored, ok, err := repo.Load(ctx)
	if err != nil || !ok || stored.CityName != "London" {
		t.Fatalf("defaults not persisted: %+v ok=%v err=%v", stored, ok, err)
	}

	// A second start keeps what is stored instead of the new defaults.
	other := sampleSettings()
	other.CityName = "Paris"
	svc, err = NewService(ctx, repo, other, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	if svc.Current().CityName != "London" {
		t.Fatalf("stored settings must win over defaults, got %q", svc.Current().CityName)
	}
}

func TestServiceUpdateNotifiesListeners(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	svc, err := NewService(ctx, repo, sampleSettings(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	var notified []string
	svc.Subscribe(func(s models.Settings) { notified = append(notified, s.CityName) })

	next := sampleSettings()
	next.CityName = "Split"
	next.CountryCode = "HR"
	if _, err := svc.Update(ctx, next); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(notified) != 1 || notified[0] != "Split" {
		t.Fatalf("unexpected notifications %v", notified)
	}
	if svc.Current().CityName != "Split" {
		t.Fatalf("current settings not swapped")
	}
	if stored, _, _ := repo.Load(ctx); stored.CityName != "Split" {
		t.Fatalf("update not persisted, got %q", stored.CityName)
	}
}

func TestServiceUpdateRejectsInvalidSettings(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	svc, err := NewService(ctx, repo, sampleSettings(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	var notified bool
	svc.Subscribe(func(models.Settings) { notified = true })

	bad := models.Settings{
		CityName:    strings.Repeat("x", 129),
		APIEndpoint: "not-a-url",
	}
	_, err = svc.Update(ctx, bad)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"city_name", "country_code", "api_endpoint", "api_key"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("expected %s to fail validation, got %v", field, verr.Fields)
		}
	}
	if notified {
		t.Fatalf("listeners must not run on a rejected update")
	}
	if svc.Current().CityName != "London" {
		t.Fatalf("rejected update must not change current settings")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "mongo", ""); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
}

func TestMaskedHidesAPIKey(t *testing.T) {
	got := sampleSettings().Masked()
	if got.APIKey != "****cdef" {
		t.Fatalf("unexpected masked key %q", got.APIKey)
	}

	short := models.Settings{APIKey: "abc"}.Masked()
	if short.APIKey != "****" {
		t.Fatalf("unexpected masked short key %q", short.APIKey)
	}
}
