package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/sony/gobreaker"

	"github.com/mkravets/city-weather-service/internal/weather"
)

// RetryConfig controls the bounded retry loop around outbound calls.
// MaxRetries counts additional attempts after the first; the delay between
// attempts is fixed.
type RetryConfig struct {
	MaxRetries int
	Delay      time.Duration
}

// defaultRetry is the retry budget applied per outbound call: one initial
// attempt plus at most two retries, one second apart.
var defaultRetry = RetryConfig{
	MaxRetries: 2,
	Delay:      1 * time.Second,
}

// HTTPClientConfig bundles the HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client *http.Client
	Retry  RetryConfig
}

var errNoHTTPClient = errors.New("http client not configured")

func newCircuit(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequestWithRetry executes an HTTP request through the circuit breaker
// with an explicit bounded retry loop. Only transient transport failures
// (timeout, connection refused, DNS) are retried; a response of any HTTP
// status is handed back to the caller for classification and never retried.
func doRequestWithRetry(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	attempts := cfg.Retry.MaxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			timer := time.NewTimer(cfg.Retry.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			return cfg.Client.Do(req)
		})
		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", weather.ErrUnavailable, err)
		}

		lastErr = err
		if !isTransient(err) {
			return nil, fmt.Errorf("%w: %v", weather.ErrUnavailable, err)
		}
	}

	return nil, fmt.Errorf("%w: retries exhausted: %v", weather.ErrUnavailable, lastErr)
}

// isTransient reports whether a transport error is worth retrying.
// Application-level responses never reach this function.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// classifyResponse maps a non-2xx provider response to the error taxonomy and
// closes the body. A 2xx response returns nil and leaves the body open.
func classifyResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()

	msg := readErrorMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return weather.ErrLocationNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return weather.ErrUnauthorized
	case http.StatusTooManyRequests:
		return weather.ErrRateLimited
	default:
		return &weather.UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}
}

// readErrorMessage extracts a human-readable message from a provider error
// body. OpenWeatherMap uses "message", Open-Meteo uses "reason".
func readErrorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Reason != "" {
			return payload.Reason
		}
	}
	return ""
}

// getJSON fetches a URL with retries, classifies the response, and decodes
// the body into out.
func getJSON(ctx context.Context, cfg HTTPClientConfig, cb *gobreaker.CircuitBreaker, u string, out interface{}) error {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithRetry(ctx, cfg, cb, buildRequest)
	if err != nil {
		return err
	}

	if err := classifyResponse(resp); err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}
