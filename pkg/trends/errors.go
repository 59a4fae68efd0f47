package trends

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrNoEndpoint  = errors.New("no trends API endpoint configured")
)

// HTTPError is returned for non-200 provider responses
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("trends API returned status %d: %s", e.StatusCode, e.Body)
}

// ErrorSeverity represents how a failed fetch should be treated
type ErrorSeverity int

const (
	ErrorSeverityRetryable ErrorSeverity = iota // network or server hiccup
	ErrorSeverityPermanent                      // retrying the same request will not help
	ErrorSeverityFatal                          // provider refuses us, stop calling it
)

func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityRetryable:
		return "retryable"
	case ErrorSeverityPermanent:
		return "permanent"
	case ErrorSeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ClassifyError maps a fetch error to its severity
func ClassifyError(err error) ErrorSeverity {
	if err == nil {
		return ErrorSeverityRetryable
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrorSeverityPermanent
	}
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrNoEndpoint) {
		return ErrorSeverityFatal
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == 401 || httpErr.StatusCode == 403:
			return ErrorSeverityFatal
		case httpErr.StatusCode == 429 || httpErr.StatusCode >= 500:
			return ErrorSeverityRetryable
		case httpErr.StatusCode >= 400:
			return ErrorSeverityPermanent
		}
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "failed to decode") || strings.Contains(errStr, "invalid timeline date") {
		return ErrorSeverityPermanent
	}

	return ErrorSeverityRetryable
}

// IsRetryable reports whether the same request may succeed later
func IsRetryable(err error) bool {
	return err != nil && ClassifyError(err) == ErrorSeverityRetryable
}
