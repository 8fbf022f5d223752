package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireSubjectLock attempts to acquire a short lock for the payment
// subject (car or provider). It only serializes completions racing on the
// same subject; the conditional database update remains the correctness
// guarantee.
func (s *LockStore) AcquireSubjectLock(ctx context.Context, subjectID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:subject:%s", subjectID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseSubjectLock releases the lock for the given subject.
func (s *LockStore) ReleaseSubjectLock(ctx context.Context, subjectID string) error {
	key := fmt.Sprintf("lock:subject:%s", subjectID)

	return s.client.Del(ctx, key).Err()
}
