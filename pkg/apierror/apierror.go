package apierror

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const maxBody = 4096

// HTTPError is a non-success response from an upstream API
type HTTPError struct {
	Vendor     string
	StatusCode int
	RetryAfter time.Duration // zero if the header was absent
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: API error (%d): %s", e.Vendor, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: API error (%d)", e.Vendor, e.StatusCode)
}

// Retryable reports whether the status is worth another attempt (429 and 5xx)
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// FromResponse returns an *HTTPError for non-2xx responses, nil otherwise.
// It reads at most 4KiB of the body and leaves closing to the caller.
func FromResponse(vendor string, resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	return &HTTPError{
		Vendor:     vendor,
		StatusCode: resp.StatusCode,
		RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After")),
		Body:       strings.TrimSpace(string(body)),
	}
}

// StatusCode extracts the HTTP status from err, or 0
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// ParseRetryAfter parses a Retry-After header in seconds or HTTP-date form.
// Returns zero if absent or unparseable.
func ParseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
