// Package payment sends one-shot charges against saved card tokens.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fitdesk/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// ChargeRequest is a single charge instruction for the processor. The card
// is the provider's stored source on the member's customer.
type ChargeRequest struct {
	CustomerID     string
	SourceID       string
	Amount         float64
	Currency       string
	Description    string
	ReceiptEmail   string
	Installments   int
	IdempotencyKey string
	Metadata       map[string]string
}

// ChargeResult is the processor's answer. A declined card is a result with
// StatusFailed, not an error.
type ChargeResult struct {
	Reference     string
	Status        models.PaymentStatus
	FailureReason string
}

// Processor charges a card token exactly once per call.
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// MinorUnits converts an amount to the smallest currency unit.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}

type StripeProcessor struct {
	api *client.API
}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	return &StripeProcessor{api: client.New(secretKey, nil)}
}

func (p *StripeProcessor) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(MinorUnits(req.Amount)),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Description),
		Customer:    stripe.String(req.CustomerID),
		Source:      &stripe.SourceParams{Token: stripe.String(req.SourceID)},
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.AddMetadata("installments", strconv.Itoa(req.Installments))

	ch, err := p.api.Charges.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return &ChargeResult{Status: models.PaymentStatusFailed, FailureReason: stripeErr.Msg}, nil
		}
		return nil, fmt.Errorf("stripe charge failed: %w", err)
	}

	if !ch.Paid {
		return &ChargeResult{Reference: ch.ID, Status: models.PaymentStatusFailed, FailureReason: ch.FailureMessage}, nil
	}
	return &ChargeResult{Reference: ch.ID, Status: models.PaymentStatusSucceeded}, nil
}

// DeclinedSource always fails in the sandbox. It is the source the test vault
// stores for the provider's tok_chargeDeclined token.
const DeclinedSource = "card_chargeDeclined"

// SandboxProcessor approves every charge except DeclinedSource without
// contacting a provider.
type SandboxProcessor struct{}

func NewSandboxProcessor() *SandboxProcessor {
	return &SandboxProcessor{}
}

func (p *SandboxProcessor) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if MinorUnits(req.Amount) <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if req.SourceID == "" {
		return nil, errors.New("missing card source")
	}
	if req.SourceID == DeclinedSource {
		return &ChargeResult{Status: models.PaymentStatusFailed, FailureReason: "Your card was declined."}, nil
	}
	return &ChargeResult{Reference: "sandbox_" + uuid.NewString(), Status: models.PaymentStatusSucceeded}, nil
}
