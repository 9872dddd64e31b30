// Package billing is the client for the payment-method endpoints of the
// billing API. Every call is a single request; nothing is cached or retried.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"fitdesk/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const paymentMethodsPath = "/billing/payment-methods"

// IdempotencyHeader carries the per-charge key sent with every payment.
const IdempotencyHeader = "Idempotency-Key"

// Doer performs a single HTTP exchange. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the billing API on behalf of one authenticated user.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    Doer
	log     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithLogger attaches a logger; the default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the API rooted at baseURL, authenticating with
// the given bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SavePaymentMethod registers a tokenized card.
func (c *Client) SavePaymentMethod(ctx context.Context, req *models.CreatePaymentMethodRequest) (*models.SavedPaymentMethod, error) {
	var saved models.SavedPaymentMethod
	if err := c.do(ctx, http.MethodPost, paymentMethodsPath, req, nil, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetUserPaymentMethods lists the caller's cards in whatever order the API
// returns them.
func (c *Client) GetUserPaymentMethods(ctx context.Context) ([]models.SavedPaymentMethod, error) {
	var methods []models.SavedPaymentMethod
	if err := c.do(ctx, http.MethodGet, paymentMethodsPath, nil, nil, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

// GetPaymentMethod fetches one card. It returns ErrNotFound for unknown ids.
func (c *Client) GetPaymentMethod(ctx context.Context, id string) (*models.SavedPaymentMethod, error) {
	var saved models.SavedPaymentMethod
	if err := c.do(ctx, http.MethodGet, methodPath(id), nil, nil, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdatePaymentMethod changes the nickname or default flag. Making a card
// the default demotes whichever card held the flag before.
func (c *Client) UpdatePaymentMethod(ctx context.Context, id string, req *models.UpdatePaymentMethodRequest) (*models.SavedPaymentMethod, error) {
	var saved models.SavedPaymentMethod
	if err := c.do(ctx, http.MethodPatch, methodPath(id), req, nil, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeletePaymentMethod removes a card. Deleting it again yields ErrNotFound.
func (c *Client) DeletePaymentMethod(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, methodPath(id), nil, nil, nil)
}

// ProcessPaymentWithSavedCard charges a saved card. It is never retried
// here; a failed call must be confirmed by the user before trying again.
func (c *Client) ProcessPaymentWithSavedCard(ctx context.Context, req *models.PaymentWithSavedCardRequest) (*models.PaymentResponse, error) {
	headers := map[string]string{IdempotencyHeader: uuid.NewString()}

	var resp models.PaymentResponse
	if err := c.do(ctx, http.MethodPost, paymentMethodsPath+"/process-payment", req, headers, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func methodPath(id string) string {
	return paymentMethodsPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, in interface{}, headers map[string]string, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("billing: encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("billing: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("billing request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("billing: %s %s: %w", method, path, err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("billing: reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Error
		}
		c.log.Debug("billing request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("error", apiErr.Message))
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("billing: decoding response: %w", err)
	}
	return nil
}
