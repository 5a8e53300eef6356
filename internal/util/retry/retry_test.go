package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_Success(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		return nil
	}

	err := Do(context.Background(), operation)

	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got: %d", attempts)
	}
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	err := Do(context.Background(), operation,
		WithInitialDelay(10*time.Millisecond),
		WithoutJitter())

	if err != nil {
		t.Errorf("Expected no error after retries, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got: %d", attempts)
	}
}

func TestDo_MaxAttempts(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		return errors.New("persistent error")
	}

	err := Do(context.Background(), operation,
		WithMaxAttempts(3),
		WithInitialDelay(10*time.Millisecond),
		WithoutJitter())

	if err == nil {
		t.Error("Expected error after max attempts, got nil")
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got: %d", attempts)
	}
}

func TestDo_FatalNotRetried(t *testing.T) {
	t.Parallel()
	attempts := 0
	operation := func() error {
		attempts++
		return Fatal(errors.New("bad input"))
	}

	err := Do(context.Background(), operation, WithInitialDelay(10*time.Millisecond))

	if err == nil {
		t.Error("Expected error, got nil")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for fatal error, got: %d", attempts)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	operation := func() error {
		attempts++
		cancel()
		return errors.New("transient")
	}

	err := Do(ctx, operation, WithInitialDelay(time.Second))

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got: %d", attempts)
	}
}

func TestDo_MaxDelayCap(t *testing.T) {
	t.Parallel()
	attempts := 0
	start := time.Now()
	operation := func() error {
		attempts++
		return errors.New("transient")
	}

	_ = Do(context.Background(), operation,
		WithMaxAttempts(4),
		WithInitialDelay(5*time.Millisecond),
		WithMaxDelay(10*time.Millisecond),
		WithoutJitter())

	// 5 + 10 + 10 ms of waiting; generous upper bound for slow CI.
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Backoff not capped, took %v", elapsed)
	}
	if attempts != 4 {
		t.Errorf("Expected 4 attempts, got: %d", attempts)
	}
}

func TestIsFatal(t *testing.T) {
	t.Parallel()
	if IsFatal(errors.New("plain")) {
		t.Error("plain error should not be fatal")
	}
	if !IsFatal(Fatal(errors.New("wrapped"))) {
		t.Error("Fatal-wrapped error should be fatal")
	}
	wrapped := errors.Join(errors.New("outer"), Fatal(errors.New("inner")))
	if !IsFatal(wrapped) {
		t.Error("fatal error inside join should be detected")
	}
	if Fatal(nil) != nil {
		t.Error("Fatal(nil) should be nil")
	}
}
