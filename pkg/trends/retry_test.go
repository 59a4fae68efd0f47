package trends

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_Success(t *testing.T) {
	retry := NewRetry(3, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return errors.New("temporary error")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}

func TestRetry_MaxRetriesExceeded(t *testing.T) {
	retry := NewRetry(2, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		return errors.New("persistent error")
	})

	if err == nil {
		t.Error("Expected error, got nil")
	}
	if attempts != 3 { // 1 initial + 2 retries
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetry_NonRetryableError(t *testing.T) {
	retry := NewRetry(3, 10*time.Millisecond)

	attempts := 0
	err := retry.Execute(context.Background(), func() error {
		attempts++
		return &HTTPError{StatusCode: 401, Body: "unauthorized"}
	})

	if err == nil {
		t.Error("Expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	retry := NewRetry(3, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := retry.Execute(ctx, func() error {
		return errors.New("some error")
	})

	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorSeverity
	}{
		{"circuit open", ErrCircuitOpen, ErrorSeverityFatal},
		{"no endpoint", ErrNoEndpoint, ErrorSeverityFatal},
		{"unauthorized", &HTTPError{StatusCode: 401}, ErrorSeverityFatal},
		{"forbidden", &HTTPError{StatusCode: 403}, ErrorSeverityFatal},
		{"rate limited", &HTTPError{StatusCode: 429}, ErrorSeverityRetryable},
		{"server error", &HTTPError{StatusCode: 503}, ErrorSeverityRetryable},
		{"not found", &HTTPError{StatusCode: 404}, ErrorSeverityPermanent},
		{"decode failure", errors.New("failed to decode trends response: eof"), ErrorSeverityPermanent},
		{"cancelled", context.Canceled, ErrorSeverityPermanent},
		{"network", errors.New("request failed: connection refused"), ErrorSeverityRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}
