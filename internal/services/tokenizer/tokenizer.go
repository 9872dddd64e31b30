// Package tokenizer turns provider card tokens into reusable card references
// before a payment method is stored. The backend only ever sees tokens; raw
// card numbers are exchanged for tokens directly between the browser and the
// provider.
package tokenizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitdesk/internal/services/card"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

// ErrTokenRejected means the provider does not accept the token.
var ErrTokenRejected = errors.New("card token rejected")

// CardDetails is what the provider reports about a tokenized card.
type CardDetails struct {
	Brand    card.Brand
	LastFour string
	Funding  string
}

// StoreRequest asks the provider to keep a card for a member.
type StoreRequest struct {
	Token string
	// CustomerID is the member's existing provider customer, empty for a
	// first card.
	CustomerID string
	UserID     string
	Email      string
}

// StoredCard references a card the provider keeps on a customer. Unlike the
// token it was created from, it can be charged any number of times.
type StoredCard struct {
	CardDetails
	CustomerID string
	SourceID   string
}

// Vault exchanges single-use tokens for stored cards.
type Vault interface {
	Store(ctx context.Context, req StoreRequest) (*StoredCard, error)
}

// StripeVault attaches tokens to Stripe customers.
type StripeVault struct {
	api *client.API
}

func NewStripeVault(secretKey string) *StripeVault {
	return &StripeVault{api: client.New(secretKey, nil)}
}

func (v *StripeVault) Store(ctx context.Context, req StoreRequest) (*StoredCard, error) {
	customerID, err := v.getOrCreateCustomer(ctx, req)
	if err != nil {
		return nil, err
	}

	params := &stripe.CardParams{
		Customer: stripe.String(customerID),
		Token:    stripe.String(req.Token),
	}
	params.Context = ctx

	c, err := v.api.Cards.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) &&
			(stripeErr.Type == stripe.ErrorTypeInvalidRequest || stripeErr.Type == stripe.ErrorTypeCard) {
			return nil, ErrTokenRejected
		}
		return nil, fmt.Errorf("stripe card attach failed: %w", err)
	}

	return &StoredCard{
		CardDetails: CardDetails{
			Brand:    card.ParseBrand(string(c.Brand)),
			LastFour: c.Last4,
			Funding:  string(c.Funding),
		},
		CustomerID: customerID,
		SourceID:   c.ID,
	}, nil
}

func (v *StripeVault) getOrCreateCustomer(ctx context.Context, req StoreRequest) (string, error) {
	if req.CustomerID != "" {
		return req.CustomerID, nil
	}

	params := &stripe.CustomerParams{Email: stripe.String(req.Email)}
	params.Context = ctx
	params.AddMetadata("user_id", req.UserID)

	cus, err := v.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe customer creation failed: %w", err)
	}
	return cus.ID, nil
}

type testCard struct {
	brand    card.Brand
	lastFour string
	funding  string
}

// TestVault accepts the provider's published test tokens. It is used in
// development and tests when no provider key is configured.
type TestVault struct {
	tokens map[string]testCard
}

func NewTestVault() *TestVault {
	return &TestVault{
		tokens: map[string]testCard{
			"tok_visa":           {card.BrandVisa, "4242", "credit"},
			"tok_visa_debit":     {card.BrandVisa, "5556", "debit"},
			"tok_mastercard":     {card.BrandMastercard, "4444", "credit"},
			"tok_mastercard_2":   {card.BrandMastercard, "3222", "credit"},
			"tok_amex":           {card.BrandAmex, "0005", "credit"},
			"tok_discover":       {card.BrandDiscover, "1117", "credit"},
			"tok_chargeDeclined": {card.BrandVisa, "0002", "credit"},
		},
	}
}

// Store returns a source named after the token, e.g. tok_visa becomes
// card_visa, on the customer cus_test_<user>.
func (v *TestVault) Store(ctx context.Context, req StoreRequest) (*StoredCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(req.Token, "tok_") {
		return nil, ErrTokenRejected
	}
	tc, ok := v.tokens[req.Token]
	if !ok {
		return nil, ErrTokenRejected
	}

	customerID := req.CustomerID
	if customerID == "" {
		customerID = "cus_test_" + req.UserID
	}
	return &StoredCard{
		CardDetails: CardDetails{Brand: tc.brand, LastFour: tc.lastFour, Funding: tc.funding},
		CustomerID:  customerID,
		SourceID:    "card_" + strings.TrimPrefix(req.Token, "tok_"),
	}, nil
}
