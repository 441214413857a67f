package weather

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Cache is the contract the response cache must satisfy. Keys identify a
// (city, units, language) combination.
type Cache interface {
	Get(key string) (WeatherRecord, bool)
	Put(key string, rec WeatherRecord)
}

// Service runs the fetch-normalize pipeline: resolve the city, fetch current
// conditions from the configured provider, normalize into a WeatherRecord.
// It is stateless apart from the injected cache and safe for concurrent use.
type Service struct {
	provider Provider
	cache    Cache
	log      *logrus.Logger

	// now supplies capture time; injectable for deterministic tests.
	now func() time.Time
}

// NewService creates a new Service.
func NewService(p Provider, c Cache, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		provider: p,
		cache:    c,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CurrentWeather returns the normalized current conditions for the query.
// Cache hits skip the provider entirely and report zero API calls used.
func (s *Service) CurrentWeather(ctx context.Context, q Query) (WeatherRecord, error) {
	key := cacheKey(q)

	if s.cache != nil {
		if rec, ok := s.cache.Get(key); ok {
			rec.Meta.APICallsUsed = 0
			s.log.WithFields(logrus.Fields{
				"city":  q.City,
				"units": q.Units,
			}).Debug("serving weather from cache")
			return rec, nil
		}
	}

	loc, err := s.provider.ResolveLocation(ctx, q)
	if err != nil {
		return WeatherRecord{}, err
	}

	raw, err := s.provider.CurrentConditions(ctx, loc, q)
	if err != nil {
		return WeatherRecord{}, err
	}

	rec := Normalize(raw, q, s.now())

	if s.cache != nil {
		s.cache.Put(key, rec)
	}

	s.log.WithFields(logrus.Fields{
		"city":     rec.City,
		"country":  rec.Country,
		"provider": s.provider.Name(),
		"calls":    raw.APICalls,
	}).Info("fetched current weather")

	return rec, nil
}

// cacheKey builds the cache key for a query. City matching is
// case-insensitive; units and language are part of the identity because they
// change the response body.
func cacheKey(q Query) string {
	return strings.ToLower(strings.TrimSpace(q.City)) + "|" + string(q.Units) + "|" + q.Language
}
