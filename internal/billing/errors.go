package billing

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when the payment method does not exist or belongs
// to another user.
var ErrNotFound = errors.New("billing: payment method not found")

// APIError is a non-2xx answer from the billing API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("billing: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("billing: status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match a 404 response.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
