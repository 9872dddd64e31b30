package paymentmethod

import "time"

// Config holds the billing rules the backend owns.
type Config struct {
	// Currency charged for every plan; clients never choose it.
	Currency       string
	IdempotencyTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.Currency == "" {
		c.Currency = "PEN"
	}
	if c.IdempotencyTTL <= 0 {
		c.IdempotencyTTL = 24 * time.Hour
	}
	return c
}
