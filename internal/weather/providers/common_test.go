package providers

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/mkravets/city-weather-service/internal/weather"
)

type fakeTransport struct {
	calls int
	fn    func(call int) (*http.Response, error)
}

func (t *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.calls++
	return t.fn(t.calls)
}

func testConfig(transport http.RoundTripper) HTTPClientConfig {
	return HTTPClientConfig{
		Client: &http.Client{Transport: transport},
		Retry:  RetryConfig{MaxRetries: 2, Delay: time.Millisecond},
	}
}

func buildTestRequest() (*http.Request, error) {
	return http.NewRequest(http.MethodGet, "http://provider.test/weather", nil)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestRetryExhaustsOnTransientFailure(t *testing.T) {
	transport := &fakeTransport{fn: func(int) (*http.Response, error) {
		return nil, &net.DNSError{Err: "no such host", Name: "provider.test", IsNotFound: true}
	}}

	_, err := doRequestWithRetry(context.Background(), testConfig(transport), newCircuit("test-dns"), buildTestRequest)
	if !errors.Is(err, weather.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	// Retry budget of 2 means exactly 3 outbound attempts.
	if transport.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", transport.calls)
	}
}

func TestRetryRecoversMidwayThroughBudget(t *testing.T) {
	transport := &fakeTransport{fn: func(call int) (*http.Response, error) {
		if call < 3 {
			return nil, &net.DNSError{Err: "timeout", IsTimeout: true}
		}
		return jsonResponse(http.StatusOK, `{}`), nil
	}}

	resp, err := doRequestWithRetry(context.Background(), testConfig(transport), newCircuit("test-recover"), buildTestRequest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if transport.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", transport.calls)
	}
}

func TestNoRetryOnHTTPStatus(t *testing.T) {
	transport := &fakeTransport{fn: func(int) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"message":"city not found"}`), nil
	}}

	resp, err := doRequestWithRetry(context.Background(), testConfig(transport), newCircuit("test-404"), buildTestRequest)
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}

	if transport.calls != 1 {
		t.Fatalf("4xx responses must not be retried; got %d attempts", transport.calls)
	}

	if err := classifyResponse(resp); !errors.Is(err, weather.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestNoRetryOnNonTransientTransportError(t *testing.T) {
	transport := &fakeTransport{fn: func(int) (*http.Response, error) {
		return nil, errors.New("tls handshake failure")
	}}

	_, err := doRequestWithRetry(context.Background(), testConfig(transport), newCircuit("test-tls"), buildTestRequest)
	if !errors.Is(err, weather.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if transport.calls != 1 {
		t.Fatalf("non-transient transport errors must not be retried; got %d attempts", transport.calls)
	}
}

func TestClassifyResponseTaxonomy(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusUnauthorized, `{"message":"invalid api key"}`, weather.ErrUnauthorized},
		{http.StatusForbidden, `{}`, weather.ErrUnauthorized},
		{http.StatusTooManyRequests, `{}`, weather.ErrRateLimited},
		{http.StatusNotFound, `{}`, weather.ErrLocationNotFound},
	}

	for _, tc := range cases {
		err := classifyResponse(jsonResponse(tc.status, tc.body))
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: got %v, want %v", tc.status, err, tc.want)
		}
	}
}

func TestClassifyResponseUpstreamError(t *testing.T) {
	err := classifyResponse(jsonResponse(http.StatusBadGateway, `{"message":"backend down"}`))

	var upstream *weather.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusBadGateway {
		t.Errorf("unexpected status %d", upstream.StatusCode)
	}
	if upstream.Message != "backend down" {
		t.Errorf("unexpected message %q", upstream.Message)
	}
}

func TestClassifyResponseReadsOpenMeteoReason(t *testing.T) {
	err := classifyResponse(jsonResponse(http.StatusBadRequest, `{"error":true,"reason":"invalid coordinates"}`))

	var upstream *weather.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Message != "invalid coordinates" {
		t.Errorf("unexpected message %q", upstream.Message)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	transport := &fakeTransport{fn: func(int) (*http.Response, error) {
		cancel()
		return nil, &net.DNSError{Err: "timeout", IsTimeout: true}
	}}

	_, err := doRequestWithRetry(ctx, testConfig(transport), newCircuit("test-cancel"), buildTestRequest)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if transport.calls != 1 {
		t.Fatalf("expected 1 attempt before cancellation, got %d", transport.calls)
	}
}
