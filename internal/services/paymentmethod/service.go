package paymentmethod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitdesk/internal/models"
	"fitdesk/internal/repositories"
	"fitdesk/internal/services/card"
	"fitdesk/internal/services/payment"
	"fitdesk/internal/services/tokenizer"
	"fitdesk/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	methods   repositories.PaymentMethodRepository
	payments  repositories.PaymentRepository
	cache     Cache
	vault     tokenizer.Vault
	processor payment.Processor
	metrics   MetricsCollector
	config    Config
	log       *zap.Logger
	now       func() time.Time
}

// Option customizes the service.
type Option func(*service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithMetrics sets the metrics collector; the default discards everything.
func WithMetrics(m MetricsCollector) Option {
	return func(s *service) { s.metrics = m }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *service) { s.log = l }
}

func NewService(
	methods repositories.PaymentMethodRepository,
	payments repositories.PaymentRepository,
	cache Cache,
	vault tokenizer.Vault,
	processor payment.Processor,
	cfg Config,
	opts ...Option,
) Service {
	s := &service{
		methods:   methods,
		payments:  payments,
		cache:     cache,
		vault:     vault,
		processor: processor,
		metrics:   &NoopMetricsCollector{},
		config:    cfg.withDefaults(),
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.RecordOperation(op, result, time.Since(start))
}

func (s *service) Save(ctx context.Context, userID string, req *models.CreatePaymentMethodRequest) (saved *models.SavedPaymentMethod, err error) {
	defer func(start time.Time) { s.observe("save", start, err) }(time.Now())

	now := s.now()
	v := validation.New()
	v.CreatePaymentMethod(req, now)
	if err := v.Err(); err != nil {
		return nil, err
	}

	customerID, err := s.methods.FindCustomerID(ctx, userID)
	if err != nil {
		return nil, err
	}
	stored, err := s.vault.Store(ctx, tokenizer.StoreRequest{
		Token:      req.CardToken,
		CustomerID: customerID,
		UserID:     userID,
		Email:      req.Email,
	})
	if err != nil {
		if errors.Is(err, tokenizer.ErrTokenRejected) {
			return nil, ErrTokenRejected
		}
		return nil, fmt.Errorf("token verification failed: %w", err)
	}
	details := stored.CardDetails

	brand := details.Brand
	if brand == card.BrandUnknown {
		brand = req.CardBrand
	} else if req.CardBrand != "" && req.CardBrand != card.BrandUnknown && req.CardBrand != brand {
		s.log.Warn("client brand differs from provider brand",
			zap.String("user_id", userID),
			zap.String("client_brand", req.CardBrand.String()),
			zap.String("provider_brand", brand.String()))
	}
	lastFour := details.LastFour
	if lastFour == "" {
		lastFour = card.LastFour(req.LastFourDigits)
	}

	idHash, err := bcrypt.GenerateFromPassword([]byte(req.IdentificationNumber), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash identification number: %w", err)
	}

	method := &models.PaymentMethod{
		UserID:                   userID,
		CardToken:                req.CardToken,
		ProviderCustomerID:       stored.CustomerID,
		ProviderSourceID:         stored.SourceID,
		LastFourDigits:           lastFour,
		HolderName:               req.HolderName,
		CardBrand:                string(brand),
		CardType:                 details.Funding,
		ExpirationMonth:          req.ExpirationMonth,
		ExpirationYear:           req.ExpirationYear,
		Nickname:                 req.Nickname,
		Email:                    req.Email,
		IdentificationType:       req.IdentificationType,
		IdentificationNumberHash: string(idHash),
		IsDefault:                req.SetAsDefault,
	}
	if err := s.methods.Create(ctx, method); err != nil {
		return nil, fmt.Errorf("failed to save payment method: %w", err)
	}
	s.invalidate(ctx, userID)

	s.log.Info("payment method saved",
		zap.String("user_id", userID),
		zap.String("payment_method_id", method.ID),
		zap.String("brand", method.CardBrand),
		zap.Bool("default", method.IsDefault))

	out := method.ToSaved(now)
	return &out, nil
}

func (s *service) List(ctx context.Context, userID string) (out []models.SavedPaymentMethod, err error) {
	defer func(start time.Time) { s.observe("list", start, err) }(time.Now())

	var (
		methods []*models.PaymentMethod
		found   bool
	)
	version, verr := s.cache.PaymentMethodsVersion(ctx, userID)
	if verr != nil {
		s.log.Warn("payment method cache version read failed", zap.String("user_id", userID), zap.Error(verr))
	} else {
		methods, found, err = s.cache.GetPaymentMethods(ctx, userID, version)
		if err != nil {
			s.log.Warn("payment method cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	if found {
		s.metrics.RecordCacheHit()
	} else {
		s.metrics.RecordCacheMiss()
		methods, err = s.methods.ListByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if verr == nil {
			if err := s.cache.CachePaymentMethods(ctx, userID, version, methods); err != nil {
				s.log.Warn("payment method cache write failed", zap.String("user_id", userID), zap.Error(err))
			}
		}
	}

	now := s.now()
	out = make([]models.SavedPaymentMethod, 0, len(methods))
	for _, m := range methods {
		out = append(out, m.ToSaved(now))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, id string) (out *models.SavedPaymentMethod, err error) {
	defer func(start time.Time) { s.observe("get", start, err) }(time.Now())

	method, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	saved := method.ToSaved(s.now())
	return &saved, nil
}

func (s *service) Update(ctx context.Context, userID, id string, req *models.UpdatePaymentMethodRequest) (out *models.SavedPaymentMethod, err error) {
	defer func(start time.Time) { s.observe("update", start, err) }(time.Now())

	v := validation.New()
	v.UpdatePaymentMethod(req)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.methods.Update(ctx, id, userID, req.Nickname, req.IsDefault); err != nil {
		return nil, translate(err)
	}
	s.invalidate(ctx, userID)

	method, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	saved := method.ToSaved(s.now())
	return &saved, nil
}

func (s *service) Delete(ctx context.Context, userID, id string) (err error) {
	defer func(start time.Time) { s.observe("delete", start, err) }(time.Now())

	if err := s.methods.Delete(ctx, id, userID); err != nil {
		return translate(err)
	}
	s.invalidate(ctx, userID)

	s.log.Info("payment method deleted", zap.String("user_id", userID), zap.String("payment_method_id", id))
	return nil
}

// ProcessPayment charges the saved card once. The idempotency key is reserved
// by the payment record before the processor is called, so a repeated key
// never reaches the processor twice: it replays the earlier result, reports
// that the first attempt is still running, or is rejected when it names a
// different payment. Without a key every call is a new payment.
func (s *service) ProcessPayment(ctx context.Context, userID, idempotencyKey string, req *models.PaymentWithSavedCardRequest) (out *models.PaymentResponse, err error) {
	defer func(start time.Time) { s.observe("process_payment", start, err) }(time.Now())

	v := validation.New()
	v.PaymentWithSavedCard(req)
	if err := v.Err(); err != nil {
		return nil, err
	}
	if req.UserID != userID {
		return nil, ErrForbidden
	}

	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	} else {
		prior, found, err := s.replay(ctx, userID, idempotencyKey, req)
		if err != nil || found {
			return prior, err
		}
	}

	method, err := s.load(ctx, userID, req.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if method.IsExpired(s.now()) {
		return nil, ErrCardExpired
	}

	installments := 1
	if req.Installments != nil {
		installments = *req.Installments
	}

	record := &models.Payment{
		UserID:          userID,
		PaymentMethodID: method.ID,
		PlanID:          req.PlanID,
		PayerEmail:      req.PayerEmail,
		PayerName:       req.PayerName,
		Amount:          req.Amount,
		Currency:        s.config.Currency,
		Installments:    installments,
		Description:     req.Description,
		Status:          models.PaymentStatusPending,
		IdempotencyKey:  idempotencyKey,
		Metadata: models.JSON{
			"brand":     method.CardBrand,
			"last_four": method.LastFourDigits,
		},
	}
	if err := s.payments.Create(ctx, record); err != nil {
		if errors.Is(err, repositories.ErrDuplicatePayment) {
			// Lost the race for the key to a concurrent request.
			prior, found, err := s.replay(ctx, userID, idempotencyKey, req)
			if err != nil || found {
				return prior, err
			}
			return nil, ErrPaymentInProgress
		}
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	result, err := s.processor.Charge(ctx, payment.ChargeRequest{
		CustomerID:     method.ProviderCustomerID,
		SourceID:       method.ProviderSourceID,
		Amount:         req.Amount,
		Currency:       s.config.Currency,
		Description:    req.Description,
		ReceiptEmail:   req.PayerEmail,
		Installments:   installments,
		IdempotencyKey: userID + ":" + idempotencyKey,
		Metadata: map[string]string{
			"user_id":    userID,
			"plan_id":    req.PlanID,
			"payment_id": record.ID,
		},
	})
	if err != nil {
		record.Status = models.PaymentStatusFailed
		record.FailureReason = err.Error()
		s.saveOutcome(ctx, record)
		s.log.Error("charge failed", zap.String("payment_id", record.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProcessorUnavailable, err)
	}

	record.Status = result.Status
	record.ProcessorReference = result.Reference
	record.FailureReason = result.FailureReason
	s.saveOutcome(ctx, record)

	if result.Status != models.PaymentStatusSucceeded {
		s.log.Info("charge declined", zap.String("payment_id", record.ID), zap.String("reason", result.FailureReason))
		return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, result.FailureReason)
	}

	s.metrics.RecordCharge(record.Currency, record.Amount)
	resp := record.ToResponse()
	if err := s.cache.CachePaymentResult(ctx, userID, idempotencyKey, &resp, s.config.IdempotencyTTL); err != nil {
		s.log.Warn("charge result cache write failed", zap.String("payment_id", record.ID), zap.Error(err))
	}

	s.log.Info("charge succeeded",
		zap.String("user_id", userID),
		zap.String("payment_id", record.ID),
		zap.Float64("amount", record.Amount),
		zap.String("currency", record.Currency))
	return &resp, nil
}

// replay resolves an idempotency key that was used before, first from the
// cache, then from the payment records. found is false for a new key.
func (s *service) replay(ctx context.Context, userID, key string, req *models.PaymentWithSavedCardRequest) (*models.PaymentResponse, bool, error) {
	if resp, found, err := s.cache.GetPaymentResult(ctx, userID, key); err == nil && found {
		if !sameCharge(resp.PaymentMethodID, resp.PlanID, resp.Amount, req) {
			return nil, true, ErrIdempotencyConflict
		}
		s.log.Info("replaying charge", zap.String("user_id", userID), zap.String("payment_id", resp.ID))
		return resp, true, nil
	}

	prior, err := s.payments.GetByIdempotencyKey(ctx, userID, key)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	if !sameCharge(prior.PaymentMethodID, prior.PlanID, prior.Amount, req) {
		return nil, true, ErrIdempotencyConflict
	}

	switch prior.Status {
	case models.PaymentStatusSucceeded:
		s.log.Info("replaying charge", zap.String("user_id", userID), zap.String("payment_id", prior.ID))
		resp := prior.ToResponse()
		return &resp, true, nil
	case models.PaymentStatusFailed:
		return nil, true, fmt.Errorf("%w: %s", ErrPaymentDeclined, prior.FailureReason)
	default:
		return nil, true, ErrPaymentInProgress
	}
}

// sameCharge compares the fields that identify a payment; amounts are
// compared in minor units.
func sameCharge(methodID, planID string, amount float64, req *models.PaymentWithSavedCardRequest) bool {
	return methodID == req.PaymentMethodID &&
		planID == req.PlanID &&
		payment.MinorUnits(amount) == payment.MinorUnits(req.Amount)
}

// saveOutcome persists the final status. The charge has already happened at
// this point, so a storage error is logged rather than returned.
func (s *service) saveOutcome(ctx context.Context, record *models.Payment) {
	if err := s.payments.Update(ctx, record); err != nil {
		s.log.Error("failed to update payment record",
			zap.String("payment_id", record.ID),
			zap.String("status", string(record.Status)),
			zap.Error(err))
	}
}

func (s *service) load(ctx context.Context, userID, id string) (*models.PaymentMethod, error) {
	method, err := s.methods.GetByIDAndUserID(ctx, id, userID)
	if err != nil {
		return nil, translate(err)
	}
	return method, nil
}

func (s *service) invalidate(ctx context.Context, userID string) {
	if err := s.cache.InvalidatePaymentMethods(ctx, userID); err != nil {
		s.log.Warn("payment method cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func translate(err error) error {
	if errors.Is(err, repositories.ErrPaymentMethodNotFound) {
		return ErrPaymentMethodNotFound
	}
	return err
}
