package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireSubjectLock(ctx context.Context, subjectID string, ttl time.Duration) (bool, error)
	ReleaseSubjectLock(ctx context.Context, subjectID string) error
}

// CarCacheInterface defines the interface for car cache operations.
type CarCacheInterface interface {
	GetCar(ctx context.Context, carID string) (*CachedCar, error)
	SetCar(ctx context.Context, car *CachedCar) error
	InvalidateCar(ctx context.Context, carID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface = (*LockStore)(nil)
	_ CarCacheInterface  = (*CacheStore)(nil)
)
