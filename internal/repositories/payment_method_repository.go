package repositories

import (
	"context"
	"errors"

	"fitdesk/internal/models"
)

var (
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	// ErrDuplicatePayment means the user already has a payment under the
	// same idempotency key.
	ErrDuplicatePayment = errors.New("duplicate payment idempotency key")
)

// PaymentMethodRepository persists saved cards. Every lookup is scoped to
// the owning user; a card owned by someone else is reported as not found.
type PaymentMethodRepository interface {
	// Create inserts the card. When it is flagged default, every other card
	// of the same user is demoted in the same transaction.
	Create(ctx context.Context, method *models.PaymentMethod) error
	GetByIDAndUserID(ctx context.Context, id, userID string) (*models.PaymentMethod, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.PaymentMethod, error)
	// Update applies the non-nil fields in one transaction. isDefault=true
	// makes the card the user's only default; false clears the flag on that
	// card alone.
	Update(ctx context.Context, id, userID string, nickname *string, isDefault *bool) error
	Delete(ctx context.Context, id, userID string) error
	// FindCustomerID returns the provider customer already used for the
	// user's cards, including deleted ones, or "" when there is none.
	FindCustomerID(ctx context.Context, userID string) (string, error)
}

// PaymentRepository stores charge attempts.
type PaymentRepository interface {
	// Create returns ErrDuplicatePayment when the user's idempotency key is
	// already taken.
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*models.Payment, error)
}
