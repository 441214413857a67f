package weather

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	raw           RawConditions
	resolveErr    error
	conditionsErr error
	calls         int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) ResolveLocation(ctx context.Context, q Query) (Location, error) {
	if p.resolveErr != nil {
		return Location{}, p.resolveErr
	}
	return Location{Name: q.City, Lookups: 1}, nil
}

func (p *stubProvider) CurrentConditions(ctx context.Context, loc Location, q Query) (RawConditions, error) {
	p.calls++
	if p.conditionsErr != nil {
		return RawConditions{}, p.conditionsErr
	}
	raw := p.raw
	raw.APICalls = loc.Lookups + 1
	return raw, nil
}

type mapCache struct {
	entries map[string]WeatherRecord
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]WeatherRecord)}
}

func (c *mapCache) Get(key string) (WeatherRecord, bool) {
	rec, ok := c.entries[key]
	return rec, ok
}

func (c *mapCache) Put(key string, rec WeatherRecord) {
	c.entries[key] = rec
}

func TestServiceCacheHitSkipsProvider(t *testing.T) {
	provider := &stubProvider{raw: sampleRaw(UnitsMetric)}
	svc := NewService(provider, newMapCache(), nil)

	q := Query{City: "London", Units: UnitsMetric, Language: "en"}

	first, err := svc.CurrentWeather(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Meta.APICallsUsed != 2 {
		t.Errorf("expected 2 api calls on a cold fetch, got %d", first.Meta.APICallsUsed)
	}

	second, err := svc.CurrentWeather(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("expected provider to be called once, got %d", provider.calls)
	}
	if second.Meta.APICallsUsed != 0 {
		t.Errorf("cache hit should report 0 api calls, got %d", second.Meta.APICallsUsed)
	}
}

func TestServiceCacheKeyIncludesUnits(t *testing.T) {
	provider := &stubProvider{raw: sampleRaw(UnitsMetric)}
	svc := NewService(provider, newMapCache(), nil)

	if _, err := svc.CurrentWeather(context.Background(), Query{City: "London", Units: UnitsMetric, Language: "en"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CurrentWeather(context.Background(), Query{City: "London", Units: UnitsImperial, Language: "en"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.calls != 2 {
		t.Errorf("different units must not share a cache entry; provider called %d times", provider.calls)
	}
}

func TestServicePropagatesProviderErrors(t *testing.T) {
	provider := &stubProvider{conditionsErr: ErrRateLimited}
	svc := NewService(provider, nil, nil)

	_, err := svc.CurrentWeather(context.Background(), Query{City: "London", Units: UnitsMetric, Language: "en"})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	provider = &stubProvider{resolveErr: ErrLocationNotFound}
	svc = NewService(provider, nil, nil)

	_, err = svc.CurrentWeather(context.Background(), Query{City: "Nowhere", Units: UnitsMetric, Language: "en"})
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}
