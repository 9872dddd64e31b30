package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"fitdesk/internal/services/card"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	cvvRegex   = regexp.MustCompile(`^\d{3,4}$`)
)

// ValidationError collects the failed fields of one request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator defines validation methods
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records the first failure for a field
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Err returns nil when valid, otherwise a *ValidationError.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return &ValidationError{Fields: v.Errors}
}

// Email validates email format
func (v *Validator) Email(field, email string) {
	v.Check(emailRegex.MatchString(email), field, "must be a valid email address")
}

// Required checks that a string is not blank
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

// MaxLength checks if a string has at most n characters
func (v *Validator) MaxLength(field string, value string, n int) {
	v.Check(len(value) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// Range checks if a number is between min and max
func (v *Validator) Range(field string, value float64, min, max float64) {
	v.Check(value >= min && value <= max, field, fmt.Sprintf("must be between %v and %v", min, max))
}

// CardNumber runs the Luhn check on a raw or formatted card number.
func (v *Validator) CardNumber(field, raw string) {
	v.Check(card.ValidateCardNumber(raw), field, "must be a valid card number")
}

// ExpDate checks a MM/YY string against now.
func (v *Validator) ExpDate(field, formatted string, now time.Time) {
	v.Check(card.ValidateExpDateAt(formatted, now), field, "must be a future MM/YY date")
}

// Expiry checks a numeric month and four digit year against now.
func (v *Validator) Expiry(monthField, yearField string, month, year int, now time.Time) {
	if month < 1 || month > 12 {
		v.AddError(monthField, "must be between 1 and 12")
		return
	}
	v.Check(!card.IsExpired(month, year, now), yearField, "card has expired")
}

// CVV accepts three or four digits.
func (v *Validator) CVV(field, cvv string) {
	v.Check(cvvRegex.MatchString(cvv), field, "must be 3 or 4 digits")
}
