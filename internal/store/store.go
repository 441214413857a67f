package store

import (
	"context"
	"sync"

	"github.com/mkravets/city-weather-service/internal/weather"
)

// Status is the lifecycle state of the current fetch.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Fetcher is the boundary the store talks to.
type Fetcher interface {
	FetchWeather(ctx context.Context, city string) (weather.WeatherRecord, error)
}

// State is a point-in-time snapshot of the store. Exactly one of Record and
// Err is meaningful: Record on success, Err on failure, neither otherwise.
type State struct {
	Status  Status
	City    string
	Record  *weather.WeatherRecord
	Err     string
	History []string
}

// Store holds the current weather record, the fetch status, and a bounded
// search history for one client session. Each transition is a single atomic
// state replacement under the mutex.
type Store struct {
	mu sync.Mutex

	fetcher      Fetcher
	historyLimit int

	// seq orders fetches by issue time. A settled fetch commits its outcome
	// only while it is still the most recently issued one, so an older
	// response can never overwrite a newer request's state.
	seq uint64

	status  Status
	city    string
	record  *weather.WeatherRecord
	errMsg  string
	history []string
}

// DefaultHistoryLimit bounds the search history when no limit is configured.
const DefaultHistoryLimit = 10

// New creates a Store backed by the given fetcher.
func New(fetcher Fetcher, historyLimit int) *Store {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Store{
		fetcher:      fetcher,
		historyLimit: historyLimit,
		status:       StatusIdle,
	}
}

// Fetch runs the fetch lifecycle for city: loading, then success or failed.
// It blocks until the fetch settles; callers wanting the asynchronous flow
// run it in a goroutine. Issuing a new Fetch before a prior one settles
// supersedes the prior one: whatever the prior fetch returns is discarded.
func (s *Store) Fetch(ctx context.Context, city string) {
	s.mu.Lock()
	s.seq++
	token := s.seq
	s.status = StatusLoading
	s.city = city
	s.errMsg = ""
	s.mu.Unlock()

	record, err := s.fetcher.FetchWeather(ctx, city)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.seq {
		// Superseded by a newer fetch; drop this outcome.
		return
	}

	if err != nil {
		s.status = StatusFailed
		s.record = nil
		s.errMsg = err.Error()
		return
	}

	s.status = StatusSuccess
	s.record = &record
	s.errMsg = ""
}

// AddToHistory puts city at the front of the search history, removing any
// existing exact-match entry and trimming to the limit. It never fails.
func (s *Store) AddToHistory(city string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, 0, len(s.history)+1)
	next = append(next, city)
	for _, c := range s.history {
		if c != city {
			next = append(next, c)
		}
	}
	if len(next) > s.historyLimit {
		next = next[:s.historyLimit]
	}
	s.history = next
}

// ClearHistory empties the search history.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// ClearError resets a failed store back to idle. It has no effect in other
// states.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusFailed {
		s.status = StatusIdle
		s.errMsg = ""
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		Status: s.status,
		City:   s.city,
		Err:    s.errMsg,
	}
	if s.record != nil {
		record := *s.record
		state.Record = &record
	}
	state.History = append([]string(nil), s.history...)
	return state
}
