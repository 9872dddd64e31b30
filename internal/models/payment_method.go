package models

import (
	"fmt"
	"time"

	"fitdesk/internal/services/card"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentMethod is the stored form of a tokenized card. The raw card number
// is never part of this row.
type PaymentMethod struct {
	ID                       string `gorm:"type:varchar(36);primarykey"`
	UserID                   string `gorm:"type:varchar(64);not null;index"`
	CardToken                string `gorm:"not null"`
	ProviderCustomerID       string `gorm:"type:varchar(64);index"`
	ProviderSourceID         string `gorm:"type:varchar(64)"`
	LastFourDigits           string `gorm:"type:varchar(4);not null"`
	HolderName               string `gorm:"not null"`
	CardBrand                string `gorm:"type:varchar(20);not null"`
	CardType                 string `gorm:"type:varchar(20)"`
	ExpirationMonth          int    `gorm:"not null"`
	ExpirationYear           int    `gorm:"not null"`
	Nickname                 string
	Email                    string
	IdentificationType       string
	IdentificationNumberHash string
	IsDefault                bool `gorm:"default:false;index"`
	CreatedAt                time.Time
	UpdatedAt                time.Time
	DeletedAt                gorm.DeletedAt `gorm:"index"`
}

func (p *PaymentMethod) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IsExpired reports whether the card has lapsed at now.
func (p *PaymentMethod) IsExpired(now time.Time) bool {
	return card.IsExpired(p.ExpirationMonth, p.ExpirationYear, now)
}

// DisplayName is the nickname when one is set, otherwise brand and last four.
func (p *PaymentMethod) DisplayName() string {
	if p.Nickname != "" {
		return p.Nickname
	}
	return fmt.Sprintf("%s ending in %s", card.ParseBrand(p.CardBrand).DisplayName(), p.LastFourDigits)
}

// ToSaved builds the public representation, computing the derived fields
// against now.
func (p *PaymentMethod) ToSaved(now time.Time) SavedPaymentMethod {
	return SavedPaymentMethod{
		ID:              p.ID,
		CardToken:       p.CardToken,
		LastFourDigits:  p.LastFourDigits,
		HolderName:      p.HolderName,
		CardBrand:       card.ParseBrand(p.CardBrand),
		CardType:        p.CardType,
		ExpirationMonth: p.ExpirationMonth,
		ExpirationYear:  p.ExpirationYear,
		Nickname:        p.Nickname,
		IsDefault:       p.IsDefault,
		IsExpired:       p.IsExpired(now),
		DisplayName:     p.DisplayName(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// SavedPaymentMethod is what the billing API returns for a registered card.
type SavedPaymentMethod struct {
	ID              string     `json:"id"`
	CardToken       string     `json:"cardToken"`
	LastFourDigits  string     `json:"lastFourDigits"`
	HolderName      string     `json:"holderName"`
	CardBrand       card.Brand `json:"cardBrand"`
	CardType        string     `json:"cardType"`
	ExpirationMonth int        `json:"expirationMonth"`
	ExpirationYear  int        `json:"expirationYear"`
	Nickname        string     `json:"nickname,omitempty"`
	IsDefault       bool       `json:"isDefault"`
	IsExpired       bool       `json:"isExpired"`
	DisplayName     string     `json:"displayName"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CreatePaymentMethodRequest registers a tokenized card. CardNumber is only
// used on the client to derive CardBrand and LastFourDigits and is never
// serialized.
type CreatePaymentMethodRequest struct {
	CardToken            string     `json:"cardToken"`
	Email                string     `json:"email"`
	CardNumber           string     `json:"-"`
	LastFourDigits       string     `json:"lastFourDigits"`
	HolderName           string     `json:"holderName"`
	ExpirationMonth      int        `json:"expirationMonth"`
	ExpirationYear       int        `json:"expirationYear"`
	CardBrand            card.Brand `json:"cardBrand"`
	SetAsDefault         bool       `json:"setAsDefault"`
	Nickname             string     `json:"nickname,omitempty"`
	IdentificationType   string     `json:"identificationType"`
	IdentificationNumber string     `json:"identificationNumber"`
}

// UpdatePaymentMethodRequest is a partial update; nil fields are left as they
// are.
type UpdatePaymentMethodRequest struct {
	Nickname  *string `json:"nickname,omitempty"`
	IsDefault *bool   `json:"isDefault,omitempty"`
}

// PaymentWithSavedCardRequest charges a saved card once. The CVV is only
// forwarded to the processor.
type PaymentWithSavedCardRequest struct {
	PaymentMethodID string  `json:"paymentMethodId"`
	UserID          string  `json:"userId"`
	PlanID          string  `json:"planId"`
	PayerEmail      string  `json:"payerEmail"`
	PayerName       string  `json:"payerName"`
	Amount          float64 `json:"amount"`
	Description     string  `json:"description,omitempty"`
	Installments    *int    `json:"installments,omitempty"`
	CVV             string  `json:"cvv"`
}
