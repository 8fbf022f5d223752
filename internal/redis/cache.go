package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// CarCacheTTL is short because a listing can be sold at any moment; the
// cache only absorbs browse traffic, never the completion path.
const CarCacheTTL = 30 * time.Second

const carCachePrefix = "cache:car:"

// CachedCar represents a cached car listing.
type CachedCar struct {
	ID         string `json:"id"`
	SellerID   string `json:"seller_id"`
	Make       string `json:"make"`
	Model      string `json:"model"`
	Year       int    `json:"year"`
	PriceMinor int64  `json:"price_minor"`
	Currency   string `json:"currency"`
	Status     string `json:"status"`
}

// GetCar retrieves a car from cache. Returns nil on a cache miss.
func (s *CacheStore) GetCar(ctx context.Context, carID string) (*CachedCar, error) {
	data, err := s.client.Get(ctx, carCachePrefix+carID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var car CachedCar
	if err := json.Unmarshal(data, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// SetCar stores a car in cache.
func (s *CacheStore) SetCar(ctx context.Context, car *CachedCar) error {
	data, err := json.Marshal(car)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, carCachePrefix+car.ID, data, CarCacheTTL).Err()
}

// InvalidateCar removes a car from cache. Called after a sale commits so a
// sold listing never lingers as available.
func (s *CacheStore) InvalidateCar(ctx context.Context, carID string) error {
	return s.client.Del(ctx, carCachePrefix+carID).Err()
}
