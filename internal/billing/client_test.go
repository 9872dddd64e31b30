package billing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitdesk/internal/models"
	"fitdesk/internal/services/card"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method  string
	path    string
	auth    string
	idemKey string
	body    []byte
}

func newTestServer(t *testing.T, status int, response interface{}) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.idemKey = r.Header.Get(IdempotencyHeader)
		rec.body, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if response != nil {
			_ = json.NewEncoder(w).Encode(response)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestClient_SavePaymentMethod(t *testing.T) {
	saved := models.SavedPaymentMethod{ID: "pm-1", LastFourDigits: "4242", CardBrand: card.BrandVisa, IsDefault: true}
	srv, rec := newTestServer(t, http.StatusCreated, saved)

	client := New(srv.URL+"/", "jwt-token")
	got, err := client.SavePaymentMethod(context.Background(), &models.CreatePaymentMethodRequest{
		CardToken:      "tok_visa",
		CardNumber:     "4242424242424242",
		LastFourDigits: "4242",
		CardBrand:      card.BrandVisa,
		SetAsDefault:   true,
	})

	require.NoError(t, err)
	assert.Equal(t, "pm-1", got.ID)
	assert.True(t, got.IsDefault)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/billing/payment-methods", rec.path)
	assert.Equal(t, "Bearer jwt-token", rec.auth)
	assert.NotContains(t, string(rec.body), "4242424242424242")
	assert.Contains(t, string(rec.body), `"setAsDefault":true`)
}

func TestClient_Routes(t *testing.T) {
	ctx := context.Background()
	nickname := "Gym card"

	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantPath   string
	}{
		{
			name:       "list",
			call:       func(c *Client) error { _, err := c.GetUserPaymentMethods(ctx); return err },
			wantMethod: http.MethodGet,
			wantPath:   "/billing/payment-methods",
		},
		{
			name:       "get",
			call:       func(c *Client) error { _, err := c.GetPaymentMethod(ctx, "pm-1"); return err },
			wantMethod: http.MethodGet,
			wantPath:   "/billing/payment-methods/pm-1",
		},
		{
			name: "update",
			call: func(c *Client) error {
				_, err := c.UpdatePaymentMethod(ctx, "pm-1", &models.UpdatePaymentMethodRequest{Nickname: &nickname})
				return err
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/billing/payment-methods/pm-1",
		},
		{
			name:       "delete",
			call:       func(c *Client) error { return c.DeletePaymentMethod(ctx, "pm-1") },
			wantMethod: http.MethodDelete,
			wantPath:   "/billing/payment-methods/pm-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, rec := newTestServer(t, http.StatusOK, nil)
			err := tt.call(New(srv.URL, "jwt-token"))

			require.NoError(t, err)
			assert.Equal(t, tt.wantMethod, rec.method)
			assert.Equal(t, tt.wantPath, rec.path)
		})
	}
}

func TestClient_UpdateOmitsUnsetFields(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, models.SavedPaymentMethod{ID: "pm-1"})
	yes := true

	_, err := New(srv.URL, "").UpdatePaymentMethod(context.Background(), "pm-1", &models.UpdatePaymentMethodRequest{IsDefault: &yes})

	require.NoError(t, err)
	assert.JSONEq(t, `{"isDefault":true}`, string(rec.body))
}

func TestClient_ProcessPaymentSendsIdempotencyKey(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, models.PaymentResponse{ID: "pay-1", Status: models.PaymentStatusSucceeded})
	client := New(srv.URL, "jwt-token")

	resp, err := client.ProcessPaymentWithSavedCard(context.Background(), &models.PaymentWithSavedCardRequest{
		PaymentMethodID: "pm-1",
		Amount:          120,
		CVV:             "123",
	})

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSucceeded, resp.Status)
	assert.Equal(t, "/billing/payment-methods/process-payment", rec.path)
	assert.NotEmpty(t, rec.idemKey)

	first := rec.idemKey
	_, err = client.ProcessPaymentWithSavedCard(context.Background(), &models.PaymentWithSavedCardRequest{PaymentMethodID: "pm-1"})
	require.NoError(t, err)
	assert.NotEqual(t, first, rec.idemKey)
}

func TestClient_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNotFound, map[string]string{"error": "payment method not found"})

	_, err := New(srv.URL, "").GetPaymentMethod(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "payment method not found", apiErr.Message)
}

func TestClient_ServerErrorIsNotNotFound(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadGateway, map[string]string{"error": "processor unavailable"})

	err := New(srv.URL, "").DeletePaymentMethod(context.Background(), "pm-1")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

type failingDoer struct{ calls int }

func (f *failingDoer) Do(*http.Request) (*http.Response, error) {
	f.calls++
	return nil, errors.New("connection refused")
}

func TestClient_TransportFailureIsNotRetried(t *testing.T) {
	doer := &failingDoer{}
	client := New("https://api.fitdesk.test", "", WithHTTPClient(doer))

	_, err := client.ProcessPaymentWithSavedCard(context.Background(), &models.PaymentWithSavedCardRequest{PaymentMethodID: "pm-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, doer.calls)
}
