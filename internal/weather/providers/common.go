package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// delay returns the wait before retry number attempt, starting at zero.
func (b BackoffConfig) delay(attempt int) time.Duration {
	d := b.InitialInterval << attempt
	if b.MaxInterval > 0 && (d > b.MaxInterval || d <= 0) {
		d = b.MaxInterval
	}
	return d
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Backoff BackoffConfig
	// MaxBodyBytes caps how much of a response is read. Zero means 8 MiB.
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 8 << 20

var (
	errRateLimited   = errors.New("rate limited")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
	errBodyTooLarge  = errors.New("response body too large")
)

// fetcher downloads whole documents through a circuit breaker, retrying
// transient failures with exponential backoff.
type fetcher struct {
	client  *http.Client
	backoff BackoffConfig
	maxBody int64
	breaker *gobreaker.CircuitBreaker
}

func newFetcher(name string, cfg HTTPClientConfig) *fetcher {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &fetcher{
		client:  cfg.Client,
		backoff: cfg.Backoff,
		maxBody: maxBody,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
	}
}

// get returns the body of url. Only rate limiting, server errors and
// transport failures are retried.
func (f *fetcher) get(ctx context.Context, url string) ([]byte, error) {
	if f.client == nil {
		return nil, errNoHTTPClient
	}
	if f.backoff.MaxRetries < 0 || f.backoff.InitialInterval <= 0 {
		return nil, errInvalidConfig
	}

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := f.once(ctx, url)
		switch {
		case err == nil:
			return body, nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		case !retryable(err) || attempt >= f.backoff.MaxRetries:
			return nil, err
		}

		timer := time.NewTimer(f.backoff.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// once performs a single request inside the breaker. The body is read there
// too, so truncated downloads count as failures.
func (f *fetcher) once(ctx context.Context, url string) ([]byte, error) {
	result, err := f.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, errRateLimited
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
		if err != nil {
			return nil, err
		}
		if int64(len(body)) > f.maxBody {
			return nil, errBodyTooLarge
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return body, nil
}

func retryable(err error) bool {
	return !errors.Is(err, errUnexpected) &&
		!errors.Is(err, errBodyTooLarge) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
