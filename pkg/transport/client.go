package transport

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/honeycarbs/company-hunter/pkg/logging"
)

// Options describes the outbound HTTP stack for one upstream API
type Options struct {
	Vendor  string
	Timeout time.Duration
	RPS     float64
	Burst   int
	Retry   RetryPolicy
	Base    http.RoundTripper
	Logger  *logging.Logger
}

// NewClient builds an http.Client that traces, retries and rate limits.
// Every retry attempt passes through the limiter.
func NewClient(opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var rt http.RoundTripper = NewRateLimitTransport(opts.Base, opts.Vendor, opts.RPS, opts.Burst)
	rt = NewRetryTransport(rt, opts.Vendor, opts.Retry, opts.Logger)
	rt = otelhttp.NewTransport(rt,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return opts.Vendor + " " + r.Method
		}),
	)

	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
	}
}
