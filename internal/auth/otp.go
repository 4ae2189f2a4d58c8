package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
)

// OTP flow errors, translated to HTTP 400 by the handlers.
var (
	ErrOTPNotFound    = errors.New("no reset request found, request a new code")
	ErrOTPExpired     = errors.New("code expired, request a new one")
	ErrOTPLocked      = errors.New("too many failed attempts, request a new code")
	ErrOTPMismatch    = errors.New("incorrect code")
	ErrOTPNotVerified = errors.New("code not verified")
)

// OTPEntry is one pending password-reset request.
type OTPEntry struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
	Verified  bool      `json:"verified"`
}

// OTPStore holds pending reset codes keyed by lowercased email. The memory
// backend is process-local; the redis backend shares state across instances.
type OTPStore interface {
	Put(ctx context.Context, email string, entry OTPEntry) error
	Get(ctx context.Context, email string) (OTPEntry, bool, error)
	Delete(ctx context.Context, email string) error
	// Sweep removes expired entries. Backends with native TTL may no-op.
	Sweep(ctx context.Context) error
}

// GenerateOTP returns a random zero-padded 6-digit code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// OTPService wraps a store with the expiry and lockout rules.
type OTPService struct {
	store       OTPStore
	ttl         time.Duration
	maxAttempts int
}

// NewOTPService builds a service over the given backend. A ttl or attempt
// limit of zero falls back to 10 minutes and 3 attempts.
func NewOTPService(store OTPStore, ttl time.Duration, maxAttempts int) *OTPService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &OTPService{store: store, ttl: ttl, maxAttempts: maxAttempts}
}

// Begin creates a fresh code for the email, replacing any pending one.
func (s *OTPService) Begin(ctx context.Context, email string) (string, error) {
	code, err := GenerateOTP()
	if err != nil {
		return "", err
	}
	entry := OTPEntry{Code: code, ExpiresAt: time.Now().Add(s.ttl)}
	if err := s.store.Put(ctx, normalizeEmail(email), entry); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks a submitted code. A wrong code burns one attempt; after
// maxAttempts failures the entry is dropped and a new code must be requested.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	key := normalizeEmail(email)
	entry, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOTPNotFound
	}
	if time.Now().After(entry.ExpiresAt) {
		_ = s.store.Delete(ctx, key)
		return ErrOTPExpired
	}
	if entry.Attempts >= s.maxAttempts {
		_ = s.store.Delete(ctx, key)
		return ErrOTPLocked
	}
	if entry.Code != code {
		entry.Attempts++
		if err := s.store.Put(ctx, key, entry); err != nil {
			return err
		}
		if entry.Attempts >= s.maxAttempts {
			return ErrOTPLocked
		}
		return ErrOTPMismatch
	}
	entry.Verified = true
	return s.store.Put(ctx, key, entry)
}

// Consume validates a previously verified code and deletes the entry.
// Used by the final reset step so a code cannot be replayed.
func (s *OTPService) Consume(ctx context.Context, email, code string) error {
	key := normalizeEmail(email)
	entry, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOTPNotFound
	}
	if time.Now().After(entry.ExpiresAt) {
		_ = s.store.Delete(ctx, key)
		return ErrOTPExpired
	}
	if entry.Code != code {
		return ErrOTPMismatch
	}
	if !entry.Verified {
		return ErrOTPNotVerified
	}
	return s.store.Delete(ctx, key)
}

// StartSweeper runs the store's Sweep on the given interval until ctx ends.
func (s *OTPService) StartSweeper(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = s.store.Sweep(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MemoryOTPStore is the single-process backend.
type MemoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]OTPEntry
}

// NewMemoryOTPStore creates an empty in-memory store.
func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{entries: make(map[string]OTPEntry)}
}

func (m *MemoryOTPStore) Put(_ context.Context, email string, entry OTPEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[email] = entry
	return nil
}

func (m *MemoryOTPStore) Get(_ context.Context, email string) (OTPEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[email]
	return entry, ok, nil
}

func (m *MemoryOTPStore) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, email)
	return nil
}

func (m *MemoryOTPStore) Sweep(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for email, entry := range m.entries {
		if now.After(entry.ExpiresAt) {
			delete(m.entries, email)
		}
	}
	return nil
}
