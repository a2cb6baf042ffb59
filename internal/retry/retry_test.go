package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPolicy_Do(t *testing.T) {
	errBusy := errors.New("busy")

	tests := []struct {
		name         string
		policy       Policy
		failures     int
		wantAttempts int
		wantErr      bool
	}{
		{"first try", Policy{Attempts: 3}, 0, 1, false},
		{"succeeds on last try", Policy{Attempts: 3}, 2, 3, false},
		{"exhausted", Policy{Attempts: 3}, 5, 3, true},
		{"zero attempts means one", Policy{Attempts: 0}, 5, 1, true},
		{"with delay", Policy{Attempts: 2, Delay: time.Millisecond}, 1, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var notified []int
			n, err := tt.policy.Do(context.Background(), func(attempt int) error {
				if attempt <= tt.failures {
					return errBusy
				}
				return nil
			}, func(attempt int, err error, next time.Duration) {
				notified = append(notified, attempt)
			})

			if n != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", n, tt.wantAttempts)
			}
			if tt.wantErr && !errors.Is(err, errBusy) {
				t.Errorf("error = %v, want %v", err, errBusy)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			// every failure except a final one triggers a notification
			wantNotify := tt.wantAttempts - 1
			if len(notified) != wantNotify {
				t.Errorf("notified %d times, want %d", len(notified), wantNotify)
			}
		})
	}
}

func TestPolicy_DoPermanent(t *testing.T) {
	errFatal := errors.New("read-only")
	calls := 0

	n, err := Policy{Attempts: 5}.Do(context.Background(), func(int) error {
		calls++
		return Permanent(errFatal)
	}, nil)

	if n != 1 || calls != 1 {
		t.Errorf("expected a single attempt, got n=%d calls=%d", n, calls)
	}
	if !errors.Is(err, errFatal) {
		t.Errorf("error = %v, want %v", err, errFatal)
	}
}

func TestPolicy_DoCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errBusy := errors.New("busy")

	n, err := Policy{Attempts: 10, Delay: time.Hour}.Do(ctx, func(int) error {
		cancel()
		return errBusy
	}, nil)

	if n != 1 {
		t.Errorf("attempts = %d, want 1", n)
	}
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
}
