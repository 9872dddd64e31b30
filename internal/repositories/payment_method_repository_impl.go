package repositories

import (
	"context"
	"errors"
	"fmt"

	"fitdesk/internal/models"

	"gorm.io/gorm"
)

type paymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &paymentMethodRepository{
		db: db,
	}
}

func (r *paymentMethodRepository) Create(ctx context.Context, method *models.PaymentMethod) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if method.IsDefault {
			if err := clearDefault(tx, method.UserID); err != nil {
				return err
			}
		}
		if err := tx.Create(method).Error; err != nil {
			return fmt.Errorf("failed to create payment method: %w", err)
		}
		return nil
	})
}

func (r *paymentMethodRepository) GetByIDAndUserID(ctx context.Context, id, userID string) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&method).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}
	return &method, nil
}

func (r *paymentMethodRepository) ListByUserID(ctx context.Context, userID string) ([]*models.PaymentMethod, error) {
	var methods []*models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&methods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user payment methods: %w", err)
	}
	return methods, nil
}

func (r *paymentMethodRepository) Update(ctx context.Context, id, userID string, nickname *string, isDefault *bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var method models.PaymentMethod
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&method).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentMethodNotFound
			}
			return err
		}

		if nickname != nil {
			if err := tx.Model(&models.PaymentMethod{}).
				Where("id = ?", id).
				Update("nickname", *nickname).Error; err != nil {
				return fmt.Errorf("failed to update nickname: %w", err)
			}
		}

		if isDefault == nil {
			return nil
		}
		if *isDefault {
			// Remove default flag from all user's cards
			if err := clearDefault(tx, userID); err != nil {
				return err
			}
		}
		return tx.Model(&models.PaymentMethod{}).
			Where("id = ?", id).
			Update("is_default", *isDefault).Error
	})
}

func (r *paymentMethodRepository) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.PaymentMethod{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete payment method: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPaymentMethodNotFound
	}
	return nil
}

func (r *paymentMethodRepository) FindCustomerID(ctx context.Context, userID string) (string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Unscoped().Model(&models.PaymentMethod{}).
		Where("user_id = ? AND provider_customer_id <> ''", userID).
		Order("created_at ASC").
		Limit(1).
		Pluck("provider_customer_id", &ids).Error
	if err != nil {
		return "", fmt.Errorf("failed to find provider customer: %w", err)
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

func clearDefault(tx *gorm.DB, userID string) error {
	return tx.Model(&models.PaymentMethod{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicatePayment
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("user_id = ? AND idempotency_key = ?", userID, key).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}
