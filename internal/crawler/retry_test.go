package crawler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fakeSleepPolicy(maxRetries int, slept *[]time.Duration) RetryPolicy {
	p := DefaultRetryPolicy(maxRetries)
	p.Sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return p
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	var slept []time.Duration
	policy := fakeSleepPolicy(2, &slept)

	attempts := 0
	err := policy.Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("boom")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if len(slept) != 2 || slept[0] != 1*time.Second || slept[1] != 2*time.Second {
		t.Errorf("backoff intervals = %v, want [1s 2s]", slept)
	}
}

func TestRetryBudgetExhausted(t *testing.T) {
	var slept []time.Duration
	policy := fakeSleepPolicy(2, &slept)

	attempts := 0
	wantErr := errors.New("always fails")
	err := policy.Do(context.Background(), func() error {
		attempts++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("expected last error back, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3 (initial + 2 retries)", attempts)
	}
	if len(slept) != 2 {
		t.Errorf("slept %d times, want 2 (no sleep after the final attempt)", len(slept))
	}
}

func TestRetryNoRetries(t *testing.T) {
	var slept []time.Duration
	policy := fakeSleepPolicy(0, &slept)

	attempts := 0
	err := policy.Do(context.Background(), func() error {
		attempts++
		return errors.New("fail")
	})

	if err == nil || attempts != 1 || len(slept) != 0 {
		t.Errorf("zero budget should mean one attempt and no sleep: attempts=%d slept=%v err=%v", attempts, slept, err)
	}
}

func TestRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := DefaultRetryPolicy(2)
	err := policy.Do(ctx, func() error {
		t.Error("fn should not run under a cancelled context")
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
