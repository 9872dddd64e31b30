package paymentmethod

import "errors"

// Service errors
var (
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrTokenRejected         = errors.New("card token was not accepted by the provider")
	ErrCardExpired           = errors.New("card has expired")
	ErrForbidden             = errors.New("payment must be made by the card owner")
	ErrPaymentDeclined       = errors.New("payment declined")
	ErrProcessorUnavailable  = errors.New("payment processor unavailable")
	ErrIdempotencyConflict   = errors.New("idempotency key was already used for a different payment")
	ErrPaymentInProgress     = errors.New("a payment with this idempotency key is already in progress")
)
