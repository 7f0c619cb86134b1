package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/sony/gobreaker"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrCircuitOpen      = errors.New("circuit breaker open")
	ErrEnvelopeCode     = errors.New("unexpected envelope code")
	ErrEmptyData        = errors.New("envelope has no data")

	errNoHTTPClient = errors.New("http client not configured")
)

// NewHTTPClient builds the outbound client. With cache enabled, responses go through
// an RFC 7234 cache: on disk when cacheDir is set, in memory otherwise.
func NewHTTPClient(timeout time.Duration, cache bool, cacheDir string) *http.Client {
	client := &http.Client{Timeout: timeout}
	if !cache {
		return client
	}

	var c httpcache.Cache = httpcache.NewMemoryCache()
	if cacheDir != "" {
		c = diskcache.New(cacheDir)
	}
	client.Transport = httpcache.NewTransport(c)
	return client
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Hour,
		Timeout:     5 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
}

// doRequest executes one GET through the circuit breaker. Failed fetches are not
// retried; the next trigger tries again. Only a 200 response is a success.
func doRequest(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req.WithContext(ctx))
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
