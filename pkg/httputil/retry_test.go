package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryableErrorUnwrap(t *testing.T) {
	base := errors.New("connection reset")
	err := &RetryableError{Err: base}

	if err.Error() != "connection reset" {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("RetryableError should unwrap to the wrapped error")
	}
}

func TestRetrySuccessFirstTry(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}
}

func TestRetryNonRetryableStopsImmediately(t *testing.T) {
	permanent := errors.New("not found")
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return permanent
	})
	if err != permanent {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}
}

func TestRetryRetriesTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("timeout")}
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retries: %v", err)
	}
	if calls != 3 {
		t.Errorf("Should retry until success: %d calls", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return &RetryableError{Err: errors.New("timeout")}
	})
	if err == nil {
		t.Fatal("Should return last error after exhausting attempts")
	}
	if calls != 2 {
		t.Errorf("Should stop after 2 attempts: %d calls", calls)
	}
	var re *RetryableError
	if !errors.As(err, &re) {
		t.Errorf("Last error should be the retryable failure: %v", err)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return &RetryableError{Err: errors.New("timeout")}
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
