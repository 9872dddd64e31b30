package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitdesk/internal/models"
	cachekeys "fitdesk/internal/utils/cache"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Payment method listings. Rows are cached rather than the public view so the
// expired flag is computed fresh on every read. Each write bumps the user's
// version, so a listing read before the write can only be stored under the
// old version and is never served again.
func (s *CacheService) PaymentMethodsVersion(ctx context.Context, userID string) (int64, error) {
	v, err := s.client.Get(ctx, cachekeys.GenerateKey(cachekeys.EntityPaymentMethodsVersion, cachekeys.KeyUser, userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get listing version: %w", err)
	}
	return v, nil
}

func (s *CacheService) CachePaymentMethods(ctx context.Context, userID string, version int64, methods []*models.PaymentMethod) error {
	return s.Set(ctx, listingKey(userID, version), methods)
}

func (s *CacheService) GetPaymentMethods(ctx context.Context, userID string, version int64) ([]*models.PaymentMethod, bool, error) {
	var methods []*models.PaymentMethod
	found, err := s.Get(ctx, listingKey(userID, version), &methods)
	if err != nil || !found {
		return nil, false, err
	}
	return methods, true, nil
}

func (s *CacheService) InvalidatePaymentMethods(ctx context.Context, userID string) error {
	return s.client.Incr(ctx, cachekeys.GenerateKey(cachekeys.EntityPaymentMethodsVersion, cachekeys.KeyUser, userID)).Err()
}

func listingKey(userID string, version int64) string {
	return cachekeys.GenerateScopedKey(cachekeys.EntityPaymentMethods, userID, cachekeys.KeyVersion, version)
}

// Charge results, keyed by the caller's idempotency key.
func (s *CacheService) CachePaymentResult(ctx context.Context, userID, key string, resp *models.PaymentResponse, ttl time.Duration) error {
	return s.SetWithTTL(ctx, cachekeys.GenerateScopedKey(cachekeys.EntityPayment, userID, cachekeys.KeyIdempotency, key), resp, ttl)
}

func (s *CacheService) GetPaymentResult(ctx context.Context, userID, key string) (*models.PaymentResponse, bool, error) {
	var resp models.PaymentResponse
	found, err := s.Get(ctx, cachekeys.GenerateScopedKey(cachekeys.EntityPayment, userID, cachekeys.KeyIdempotency, key), &resp)
	if err != nil || !found {
		return nil, false, err
	}
	return &resp, true, nil
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
