package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestOTP(t *testing.T, ttl time.Duration) (*OTPService, *MemoryOTPStore) {
	t.Helper()
	store := NewMemoryOTPStore()
	return NewOTPService(store, ttl, 3), store
}

func TestOTPHappyPath(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestOTP(t, 10*time.Minute)

	code, err := svc.Begin(ctx, "User@Example.com")
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if len(code) != 6 {
		t.Errorf("code length = %d, want 6", len(code))
	}

	// case-insensitive email keying
	if err := svc.Verify(ctx, "user@example.com", code); err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if err := svc.Consume(ctx, "user@example.com", code); err != nil {
		t.Fatalf("Consume() error: %v", err)
	}

	// entry is gone after consume
	if err := svc.Consume(ctx, "user@example.com", code); !errors.Is(err, ErrOTPNotFound) {
		t.Errorf("second Consume() = %v, want ErrOTPNotFound", err)
	}
}

func TestOTPLockoutAfterThreeFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestOTP(t, 10*time.Minute)

	code, err := svc.Begin(ctx, "a@b.c")
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.Verify(ctx, "a@b.c", "000000"); !errors.Is(err, ErrOTPMismatch) {
			t.Fatalf("attempt %d: got %v, want ErrOTPMismatch", i+1, err)
		}
	}
	if err := svc.Verify(ctx, "a@b.c", "000000"); !errors.Is(err, ErrOTPLocked) {
		t.Fatalf("third failure: got %v, want ErrOTPLocked", err)
	}

	// even the right code is refused once locked
	if err := svc.Verify(ctx, "a@b.c", code); !errors.Is(err, ErrOTPLocked) {
		t.Errorf("after lockout: got %v, want ErrOTPLocked", err)
	}
}

func TestOTPExpiry(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestOTP(t, 10*time.Minute)

	code, err := svc.Begin(ctx, "a@b.c")
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}

	// backdate the entry past its window
	entry, _, _ := store.Get(ctx, "a@b.c")
	entry.ExpiresAt = time.Now().Add(-time.Minute)
	_ = store.Put(ctx, "a@b.c", entry)

	if err := svc.Verify(ctx, "a@b.c", code); !errors.Is(err, ErrOTPExpired) {
		t.Errorf("Verify() = %v, want ErrOTPExpired", err)
	}
}

func TestOTPConsumeRequiresVerification(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestOTP(t, 10*time.Minute)

	code, err := svc.Begin(ctx, "a@b.c")
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if err := svc.Consume(ctx, "a@b.c", code); !errors.Is(err, ErrOTPNotVerified) {
		t.Errorf("Consume() without Verify = %v, want ErrOTPNotVerified", err)
	}
}

func TestOTPBeginReplacesPending(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestOTP(t, 10*time.Minute)

	first, _ := svc.Begin(ctx, "a@b.c")
	second, _ := svc.Begin(ctx, "a@b.c")

	if err := svc.Verify(ctx, "a@b.c", second); err != nil {
		t.Errorf("new code should verify: %v", err)
	}
	if first != second {
		if err := svc.Verify(ctx, "a@b.c", first); err == nil {
			t.Error("old code should no longer verify")
		}
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryOTPStore()

	_ = store.Put(ctx, "fresh@x.y", OTPEntry{Code: "111111", ExpiresAt: time.Now().Add(time.Hour)})
	_ = store.Put(ctx, "stale@x.y", OTPEntry{Code: "222222", ExpiresAt: time.Now().Add(-time.Hour)})

	if err := store.Sweep(ctx); err != nil {
		t.Fatalf("Sweep() error: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "fresh@x.y"); !ok {
		t.Error("fresh entry should survive the sweep")
	}
	if _, ok, _ := store.Get(ctx, "stale@x.y"); ok {
		t.Error("stale entry should be swept")
	}
}

func TestGenerateOTPFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP() error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q length = %d, want 6", code, len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit", code)
			}
		}
	}
}
