package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jgoikoetxea/mileatlas/internal/core/domain"
)

// ---- Mock cache store ----

type mockCacheStore struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	setKeys []string
}

func newMockCacheStore() *mockCacheStore {
	return &mockCacheStore{data: map[string][]byte{}}
}

func (m *mockCacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *mockCacheStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.setKeys = append(m.setKeys, key)
	return nil
}

func (m *mockCacheStore) Remove(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func storeMap(t *testing.T, store *mockCacheStore, key string, m map[string]string) {
	t.Helper()
	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	store.data[key] = raw
}

// ---- Tests ----

func TestGeoCache_LoadRoundTrip(t *testing.T) {
	store := newMockCacheStore()
	storeMap(t, store, "coordCountryCache", map[string]string{"52.520,13.405": "Germany"})
	storeMap(t, store, "coordCityCache", map[string]string{"52.520,13.405": "Berlin"})

	cache := NewGeoCache(store)
	cache.Load(context.Background())

	country, city, ok := cache.Lookup("52.520,13.405")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if country != "Germany" || city != "Berlin" {
		t.Errorf("got %q/%q, want Germany/Berlin", country, city)
	}
}

func TestGeoCache_CorruptedMapDiscarded(t *testing.T) {
	store := newMockCacheStore()
	store.data["coordCountryCache"] = []byte(`{"broken json`)
	storeMap(t, store, "coordCityCache", map[string]string{"52.520,13.405": "Berlin"})

	cache := NewGeoCache(store)
	cache.Load(context.Background())

	if cache.Len() != 0 {
		t.Errorf("corrupted country map should load empty, got %d entries", cache.Len())
	}
	// The city entry is orphaned without its country and must go too.
	if _, _, ok := cache.Lookup("52.520,13.405"); ok {
		t.Error("orphaned city entry should not produce a hit")
	}
}

func TestGeoCache_LoadStoreError(t *testing.T) {
	store := newMockCacheStore()
	store.getErr = errors.New("connection refused")

	cache := NewGeoCache(store)
	cache.Load(context.Background())

	if cache.Len() != 0 {
		t.Errorf("unreachable store should load empty, got %d entries", cache.Len())
	}
}

func TestGeoCache_CleanupRenormalizesCountries(t *testing.T) {
	store := newMockCacheStore()
	storeMap(t, store, "coordCountryCache", map[string]string{
		"52.520,13.405":  "Deutschland",
		"40.713,-74.006": "usa",
		"48.857,2.352":   "France",
	})
	storeMap(t, store, "coordCityCache", map[string]string{
		"52.520,13.405": "Berlin",
	})

	cache := NewGeoCache(store)
	cache.Load(context.Background())

	country, _, _ := cache.Lookup("52.520,13.405")
	if country != "Germany" {
		t.Errorf("Deutschland should renormalize to Germany, got %q", country)
	}
	country, _, _ = cache.Lookup("40.713,-74.006")
	if country != "United States" {
		t.Errorf("usa should renormalize to United States, got %q", country)
	}
	country, _, _ = cache.Lookup("48.857,2.352")
	if country != "France" {
		t.Errorf("France should pass through, got %q", country)
	}
}

func TestGeoCache_CleanupDropsOrphanCities(t *testing.T) {
	store := newMockCacheStore()
	storeMap(t, store, "coordCountryCache", map[string]string{
		"52.520,13.405": "Germany",
	})
	storeMap(t, store, "coordCityCache", map[string]string{
		"52.520,13.405": "Berlin",
		"51.507,-0.128": "London", // no country entry
	})

	cache := NewGeoCache(store)
	cache.Load(context.Background())

	if err := cache.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	var cities map[string]string
	if err := json.Unmarshal(store.data["coordCityCache"], &cities); err != nil {
		t.Fatal(err)
	}
	if _, ok := cities["51.507,-0.128"]; ok {
		t.Error("orphan city entry should not survive cleanup")
	}
	if cities["52.520,13.405"] != "Berlin" {
		t.Error("valid city entry should survive cleanup")
	}
}

func TestGeoCache_LookupMissingCity(t *testing.T) {
	store := newMockCacheStore()
	storeMap(t, store, "coordCountryCache", map[string]string{"52.520,13.405": "Germany"})

	cache := NewGeoCache(store)
	cache.Load(context.Background())

	country, city, ok := cache.Lookup("52.520,13.405")
	if !ok || country != "Germany" {
		t.Fatalf("expected Germany hit, got %q ok=%v", country, ok)
	}
	if city != domain.UnknownLabel {
		t.Errorf("missing city should read %q, got %q", domain.UnknownLabel, city)
	}
}

func TestGeoCache_PutNormalizes(t *testing.T) {
	cache := NewGeoCache(newMockCacheStore())

	cache.Put("51.507,-0.128", "uk", "London")
	country, city, ok := cache.Lookup("51.507,-0.128")
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if country != "United Kingdom" || city != "London" {
		t.Errorf("got %q/%q, want United Kingdom/London", country, city)
	}
}

func TestGeoCache_SaveWritesBothMaps(t *testing.T) {
	store := newMockCacheStore()
	cache := NewGeoCache(store)
	cache.Put("52.520,13.405", "Germany", "Berlin")

	if err := cache.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(store.setKeys) != 2 {
		t.Fatalf("expected 2 persisted maps, got %v", store.setKeys)
	}

	reloaded := NewGeoCache(store)
	reloaded.Load(context.Background())
	if reloaded.Len() != 1 {
		t.Errorf("reloaded cache should have 1 entry, got %d", reloaded.Len())
	}
}

func TestGeoCache_SaveStoreError(t *testing.T) {
	store := newMockCacheStore()
	store.setErr = errors.New("connection refused")

	cache := NewGeoCache(store)
	cache.Put("52.520,13.405", "Germany", "Berlin")

	if err := cache.Save(context.Background()); err == nil {
		t.Error("expected error when the store is unreachable")
	}
}
