package paymentmethod

import (
	"context"
	"time"

	"fitdesk/internal/models"
)

// Service defines the payment method operations exposed over HTTP.
type Service interface {
	Save(ctx context.Context, userID string, req *models.CreatePaymentMethodRequest) (*models.SavedPaymentMethod, error)
	List(ctx context.Context, userID string) ([]models.SavedPaymentMethod, error)
	Get(ctx context.Context, userID, id string) (*models.SavedPaymentMethod, error)
	Update(ctx context.Context, userID, id string, req *models.UpdatePaymentMethodRequest) (*models.SavedPaymentMethod, error)
	Delete(ctx context.Context, userID, id string) error
	ProcessPayment(ctx context.Context, userID, idempotencyKey string, req *models.PaymentWithSavedCardRequest) (*models.PaymentResponse, error)
}

// Cache holds per-user listings and replayable charge results. Listings are
// stored under a per-user version that every write increments.
type Cache interface {
	PaymentMethodsVersion(ctx context.Context, userID string) (int64, error)
	GetPaymentMethods(ctx context.Context, userID string, version int64) ([]*models.PaymentMethod, bool, error)
	CachePaymentMethods(ctx context.Context, userID string, version int64, methods []*models.PaymentMethod) error
	InvalidatePaymentMethods(ctx context.Context, userID string) error
	GetPaymentResult(ctx context.Context, userID, key string) (*models.PaymentResponse, bool, error)
	CachePaymentResult(ctx context.Context, userID, key string, resp *models.PaymentResponse, ttl time.Duration) error
}

// MetricsCollector receives operation telemetry.
type MetricsCollector interface {
	RecordOperation(op, result string, duration time.Duration)
	RecordCharge(currency string, amount float64)
	RecordCacheHit()
	RecordCacheMiss()
}
