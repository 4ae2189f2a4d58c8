package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOTPStore keeps reset codes in redis so multiple API instances share
// the same pending set. Entries expire through key TTL, so Sweep is a no-op.
type RedisOTPStore struct {
	client *redis.Client
	prefix string
}

// NewRedisOTPStore builds a store using the given client.
func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client, prefix: "classtrack:otp:"}
}

func (r *RedisOTPStore) Put(ctx context.Context, email string, entry OTPEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	return r.client.Set(ctx, r.prefix+email, data, ttl).Err()
}

func (r *RedisOTPStore) Get(ctx context.Context, email string) (OTPEntry, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+email).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return OTPEntry{}, false, nil
		}
		return OTPEntry{}, false, err
	}
	var entry OTPEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return OTPEntry{}, false, err
	}
	return entry, true, nil
}

func (r *RedisOTPStore) Delete(ctx context.Context, email string) error {
	return r.client.Del(ctx, r.prefix+email).Err()
}

func (r *RedisOTPStore) Sweep(context.Context) error { return nil }
