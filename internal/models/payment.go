package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records one charge against a saved payment method.
type Payment struct {
	ID                 string `gorm:"type:varchar(36);primarykey"`
	UserID             string `gorm:"type:varchar(64);not null;index;uniqueIndex:idx_payments_user_idempotency,priority:1"`
	PaymentMethodID    string `gorm:"type:varchar(36);not null;index"`
	PlanID             string `gorm:"type:varchar(64);not null"`
	PayerEmail         string
	PayerName          string
	Amount             float64 `gorm:"type:decimal(19,4);not null"`
	Currency           string  `gorm:"type:varchar(3);not null"`
	Installments       int     `gorm:"default:1"`
	Description        string
	Status             PaymentStatus `gorm:"type:varchar(20);not null"`
	ProcessorReference string
	FailureReason      string
	IdempotencyKey     string `gorm:"type:varchar(64);not null;uniqueIndex:idx_payments_user_idempotency,priority:2"`
	Metadata           JSON   `gorm:"type:jsonb"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ToResponse builds the API representation of the charge.
func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:                 p.ID,
		Status:             p.Status,
		PaymentMethodID:    p.PaymentMethodID,
		PlanID:             p.PlanID,
		Amount:             p.Amount,
		Currency:           p.Currency,
		Installments:       p.Installments,
		Description:        p.Description,
		ProcessorReference: p.ProcessorReference,
		CreatedAt:          p.CreatedAt,
	}
}

// PaymentResponse is the result of charging a saved card.
type PaymentResponse struct {
	ID                 string        `json:"id"`
	Status             PaymentStatus `json:"status"`
	PaymentMethodID    string        `json:"paymentMethodId"`
	PlanID             string        `json:"planId"`
	Amount             float64       `json:"amount"`
	Currency           string        `json:"currency"`
	Installments       int           `json:"installments"`
	Description        string        `json:"description,omitempty"`
	ProcessorReference string        `json:"processorReference,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
}
