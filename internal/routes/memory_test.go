package routes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fitdesk/internal/models"
	"fitdesk/internal/repositories"

	"github.com/google/uuid"
)

// memoryMethods mirrors the gorm repository's default handling in memory.
type memoryMethods struct {
	mu        sync.Mutex
	rows      map[string]*models.PaymentMethod
	customers []customerRef
}

type customerRef struct {
	userID     string
	customerID string
}

func newMemoryMethods() *memoryMethods {
	return &memoryMethods{rows: make(map[string]*models.PaymentMethod)}
}

func (r *memoryMethods) Create(ctx context.Context, m *models.PaymentMethod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.IsDefault {
		r.clearDefault(m.UserID)
	}
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	if m.ProviderCustomerID != "" {
		r.customers = append(r.customers, customerRef{userID: m.UserID, customerID: m.ProviderCustomerID})
	}
	row := *m
	r.rows[m.ID] = &row
	return nil
}

func (r *memoryMethods) GetByIDAndUserID(ctx context.Context, id, userID string) (*models.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.UserID != userID {
		return nil, repositories.ErrPaymentMethodNotFound
	}
	out := *row
	return &out, nil
}

func (r *memoryMethods) ListByUserID(ctx context.Context, userID string) ([]*models.PaymentMethod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PaymentMethod
	for _, row := range r.rows {
		if row.UserID == userID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memoryMethods) Update(ctx context.Context, id, userID string, nickname *string, isDefault *bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.UserID != userID {
		return repositories.ErrPaymentMethodNotFound
	}
	if nickname != nil {
		row.Nickname = *nickname
	}
	if isDefault != nil {
		if *isDefault {
			r.clearDefault(userID)
		}
		row.IsDefault = *isDefault
	}
	return nil
}

// FindCustomerID keeps deleted cards in view, as the soft-deleting gorm
// repository does.
func (r *memoryMethods) FindCustomerID(ctx context.Context, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.customers {
		if id.userID == userID {
			return id.customerID, nil
		}
	}
	return "", nil
}

func (r *memoryMethods) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.UserID != userID {
		return repositories.ErrPaymentMethodNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryMethods) clearDefault(userID string) {
	for _, row := range r.rows {
		if row.UserID == userID {
			row.IsDefault = false
		}
	}
}

type memoryPayments struct {
	mu   sync.Mutex
	rows map[string]*models.Payment
}

func newMemoryPayments() *memoryPayments {
	return &memoryPayments{rows: make(map[string]*models.Payment)}
}

// Create enforces the unique (user, idempotency key) index.
func (r *memoryPayments) Create(ctx context.Context, p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == p.UserID && row.IdempotencyKey == p.IdempotencyKey {
			return repositories.ErrDuplicatePayment
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now()
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memoryPayments) Update(ctx context.Context, p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *memoryPayments) GetByIdempotencyKey(ctx context.Context, userID, key string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == userID && row.IdempotencyKey == key {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repositories.ErrPaymentNotFound
}

func (r *memoryPayments) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// memoryCache keys listings by version like the redis cache service.
type memoryCache struct {
	mu       sync.Mutex
	versions map[string]int64
	lists    map[string][]*models.PaymentMethod
	payments map[string]*models.PaymentResponse
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		versions: make(map[string]int64),
		lists:    make(map[string][]*models.PaymentMethod),
		payments: make(map[string]*models.PaymentResponse),
	}
}

func listingKey(userID string, version int64) string {
	return fmt.Sprintf("%s:%d", userID, version)
}

func (c *memoryCache) PaymentMethodsVersion(ctx context.Context, userID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[userID], nil
}

func (c *memoryCache) GetPaymentMethods(ctx context.Context, userID string, version int64) ([]*models.PaymentMethod, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.lists[listingKey(userID, version)]
	return list, ok, nil
}

func (c *memoryCache) CachePaymentMethods(ctx context.Context, userID string, version int64, methods []*models.PaymentMethod) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[listingKey(userID, version)] = methods
	return nil
}

func (c *memoryCache) InvalidatePaymentMethods(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[userID]++
	return nil
}

func (c *memoryCache) GetPaymentResult(ctx context.Context, userID, key string) (*models.PaymentResponse, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp, ok := c.payments[userID+":"+key]
	return resp, ok, nil
}

func (c *memoryCache) CachePaymentResult(ctx context.Context, userID, key string, resp *models.PaymentResponse, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payments[userID+":"+key] = resp
	return nil
}
