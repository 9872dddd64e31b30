package paymentmethod

import (
	"context"
	"time"

	"fitdesk/internal/models"
	"fitdesk/internal/services/payment"

	"github.com/stretchr/testify/mock"
)

type MockMethodRepo struct {
	mock.Mock
}

func (m *MockMethodRepo) Create(ctx context.Context, method *models.PaymentMethod) error {
	args := m.Called(ctx, method)
	if method.ID == "" {
		method.ID = "pm-new"
	}
	return args.Error(0)
}

func (m *MockMethodRepo) GetByIDAndUserID(ctx context.Context, id, userID string) (*models.PaymentMethod, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentMethod), args.Error(1)
}

func (m *MockMethodRepo) ListByUserID(ctx context.Context, userID string) ([]*models.PaymentMethod, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PaymentMethod), args.Error(1)
}

func (m *MockMethodRepo) Update(ctx context.Context, id, userID string, nickname *string, isDefault *bool) error {
	args := m.Called(ctx, id, userID, nickname, isDefault)
	return args.Error(0)
}

func (m *MockMethodRepo) FindCustomerID(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockMethodRepo) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *models.Payment) error {
	args := m.Called(ctx, p)
	if p.ID == "" {
		p.ID = "pay-new"
	}
	return args.Error(0)
}

func (m *MockPaymentRepo) Update(ctx context.Context, p *models.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetByIdempotencyKey(ctx context.Context, userID, key string) (*models.Payment, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) PaymentMethodsVersion(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) GetPaymentMethods(ctx context.Context, userID string, version int64) ([]*models.PaymentMethod, bool, error) {
	args := m.Called(ctx, userID, version)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]*models.PaymentMethod), args.Bool(1), args.Error(2)
}

func (m *MockCache) CachePaymentMethods(ctx context.Context, userID string, version int64, methods []*models.PaymentMethod) error {
	args := m.Called(ctx, userID, version, methods)
	return args.Error(0)
}

func (m *MockCache) InvalidatePaymentMethods(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCache) GetPaymentResult(ctx context.Context, userID, key string) (*models.PaymentResponse, bool, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.PaymentResponse), args.Bool(1), args.Error(2)
}

func (m *MockCache) CachePaymentResult(ctx context.Context, userID, key string, resp *models.PaymentResponse, ttl time.Duration) error {
	args := m.Called(ctx, userID, key, resp, ttl)
	return args.Error(0)
}

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.ChargeResult), args.Error(1)
}
