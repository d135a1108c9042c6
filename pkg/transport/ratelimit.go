package transport

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

type rateLimitTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
	vendor  string
}

// NewRateLimitTransport blocks each request until the token bucket admits it.
// rps <= 0 disables limiting.
func NewRateLimitTransport(next http.RoundTripper, vendor string, rps float64, burst int) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		vendor:  vendor,
	}
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("%s: rate limiter wait: %w", t.vendor, err)
	}
	return t.next.RoundTrip(req)
}
