package validation

import (
	"time"

	"fitdesk/internal/models"
)

// CreatePaymentMethod validates a registration request at submission time.
func (v *Validator) CreatePaymentMethod(req *models.CreatePaymentMethodRequest, now time.Time) {
	v.Required("cardToken", req.CardToken)
	v.MaxLength("cardToken", req.CardToken, MaxTokenLength)
	v.Email("email", req.Email)
	v.Required("holderName", req.HolderName)
	v.MaxLength("holderName", req.HolderName, MaxHolderNameLength)
	v.Expiry("expirationMonth", "expirationYear", req.ExpirationMonth, req.ExpirationYear, now)
	v.Required("identificationType", req.IdentificationType)
	v.Required("identificationNumber", req.IdentificationNumber)
	v.MaxLength("nickname", req.Nickname, MaxNicknameLength)
}

// UpdatePaymentMethod validates a partial update.
func (v *Validator) UpdatePaymentMethod(req *models.UpdatePaymentMethodRequest) {
	v.Check(req.Nickname != nil || req.IsDefault != nil, "request", "must change at least one field")
	if req.Nickname != nil {
		v.Required("nickname", *req.Nickname)
		v.MaxLength("nickname", *req.Nickname, MaxNicknameLength)
	}
}

// PaymentWithSavedCard validates a charge instruction.
func (v *Validator) PaymentWithSavedCard(req *models.PaymentWithSavedCardRequest) {
	v.Required("paymentMethodId", req.PaymentMethodID)
	v.Required("userId", req.UserID)
	v.Required("planId", req.PlanID)
	v.Email("payerEmail", req.PayerEmail)
	v.Required("payerName", req.PayerName)
	v.Range("amount", req.Amount, MinChargeAmount, MaxChargeAmount)
	v.MaxLength("description", req.Description, MaxDescriptionLength)
	if req.Installments != nil {
		v.Range("installments", float64(*req.Installments), 1, MaxInstallments)
	}
	v.CVV("cvv", req.CVV)
}
