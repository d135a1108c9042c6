package transport

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/honeycarbs/company-hunter/pkg/apierror"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

// RetryPolicy controls how transient upstream failures are retried
type RetryPolicy struct {
	MaxRetries int           // additional attempts after the first
	BaseDelay  time.Duration // doubled on each retry
	MaxDelay   time.Duration // caps backoff and Retry-After
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 250 * time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 5 * time.Second
	}
	return p
}

type retryTransport struct {
	next   http.RoundTripper
	policy RetryPolicy
	vendor string
	logger *logging.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewRetryTransport retries 429, 5xx and network failures with exponential
// backoff and jitter. Requests whose body cannot be replayed are sent once.
func NewRetryTransport(next http.RoundTripper, vendor string, policy RetryPolicy, logger *logging.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &retryTransport{
		next:   next,
		policy: policy.withDefaults(),
		vendor: vendor,
		logger: logging.OrNop(logger),
		sleep:  sleepCtx,
	}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	attemptReq := req

	for attempt := 0; ; attempt++ {
		resp, err := t.next.RoundTrip(attemptReq)
		if attempt >= t.policy.MaxRetries || !retryable(ctx, resp, err) {
			return resp, err
		}
		if req.Body != nil && req.GetBody == nil {
			return resp, err
		}

		delay := t.backoff(attempt+1, resp)
		if resp != nil {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
			_ = resp.Body.Close()
		}

		t.logger.Warn("retrying upstream request",
			"vendor", t.vendor,
			"attempt", attempt+1,
			"max_retries", t.policy.MaxRetries,
			"delay", delay,
			"status", statusOf(resp),
			"err", err,
		)

		if err := t.sleep(ctx, delay); err != nil {
			return nil, err
		}

		attemptReq = req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}
	}
}

// backoff honors Retry-After, otherwise BaseDelay*2^(attempt-1) with ±30% jitter
func (t *retryTransport) backoff(attempt int, resp *http.Response) time.Duration {
	if resp != nil {
		if d := apierror.ParseRetryAfter(resp.Header.Get("Retry-After")); d > 0 {
			return min(d, t.policy.MaxDelay)
		}
	}

	delay := t.policy.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)

	return min(delay, t.policy.MaxDelay)
}

func retryable(ctx context.Context, resp *http.Response, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
