package billing

import (
	"strings"
	"time"

	"fitdesk/internal/models"
	"fitdesk/internal/services/card"
	"fitdesk/internal/validation"
)

// CardForm is what the payment form collects, as typed by the user.
type CardForm struct {
	Number               string
	HolderName           string
	ExpDate              string // MM/YY
	CCV                  string
	IdentificationType   string
	IdentificationNumber string
	Nickname             string
	SetAsDefault         bool
}

// Normalize applies the display masks to every field.
func (f CardForm) Normalize() CardForm {
	f.Number = card.FormatCardNumber(f.Number)
	f.HolderName = strings.TrimSpace(f.HolderName)
	f.ExpDate = card.FormatExpDate(f.ExpDate)
	f.CCV = card.FormatCcv(f.CCV)
	f.IdentificationNumber = card.FormatDni(f.IdentificationNumber)
	f.Nickname = strings.TrimSpace(f.Nickname)
	return f
}

// Validate checks the card number, expiry and holder fields at now. The
// returned error is a *validation.ValidationError.
func (f CardForm) Validate(now time.Time) error {
	v := validation.New()
	v.CardNumber("cardNumber", f.Number)
	v.ExpDate("expDate", f.ExpDate, now)
	v.Required("holderName", f.HolderName)
	v.Required("ccv", f.CCV)
	v.Required("identificationNumber", f.IdentificationNumber)
	return v.Err()
}

// NewCreateRequest validates the form and packages it with the provider
// token. Brand and last four are derived from the card number here so the
// number itself never leaves the client.
func NewCreateRequest(form CardForm, cardToken, email string, now time.Time) (*models.CreatePaymentMethodRequest, error) {
	form = form.Normalize()
	if err := form.Validate(now); err != nil {
		return nil, err
	}

	month, year, _ := card.ParseExpDate(form.ExpDate)
	req := &models.CreatePaymentMethodRequest{
		CardToken:            cardToken,
		Email:                email,
		CardNumber:           form.Number,
		LastFourDigits:       card.LastFour(form.Number),
		HolderName:           form.HolderName,
		ExpirationMonth:      month,
		ExpirationYear:       year,
		CardBrand:            card.DetectCardType(form.Number),
		SetAsDefault:         form.SetAsDefault,
		Nickname:             form.Nickname,
		IdentificationType:   form.IdentificationType,
		IdentificationNumber: form.IdentificationNumber,
	}

	v := validation.New()
	v.CreatePaymentMethod(req, now)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return req, nil
}
