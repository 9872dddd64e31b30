package handlers

import (
	"errors"

	"fitdesk/internal/billing"
	"fitdesk/internal/middleware"
	"fitdesk/internal/models"
	"fitdesk/internal/services/paymentmethod"
	"fitdesk/internal/utils/response"
	"fitdesk/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PaymentMethodHandler struct {
	service paymentmethod.Service
	log     *zap.Logger
}

func NewPaymentMethodHandler(service paymentmethod.Service, log *zap.Logger) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		service: service,
		log:     log,
	}
}

func (h *PaymentMethodHandler) Save(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var req models.CreatePaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	saved, err := h.service.Save(c.UserContext(), claims.UserID, &req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.JSON(c, fiber.StatusCreated, saved)
}

func (h *PaymentMethodHandler) List(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	methods, err := h.service.List(c.UserContext(), claims.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return response.JSON(c, fiber.StatusOK, methods)
}

func (h *PaymentMethodHandler) Get(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	saved, err := h.service.Get(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return response.JSON(c, fiber.StatusOK, saved)
}

func (h *PaymentMethodHandler) Update(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var req models.UpdatePaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	saved, err := h.service.Update(c.UserContext(), claims.UserID, c.Params("id"), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.JSON(c, fiber.StatusOK, saved)
}

func (h *PaymentMethodHandler) Delete(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	if err := h.service.Delete(c.UserContext(), claims.UserID, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return response.NoContent(c)
}

func (h *PaymentMethodHandler) ProcessPayment(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var req models.PaymentWithSavedCardRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	resp, err := h.service.ProcessPayment(c.UserContext(), claims.UserID, c.Get(billing.IdempotencyHeader), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.JSON(c, fiber.StatusOK, resp)
}

func (h *PaymentMethodHandler) fail(c *fiber.Ctx, err error) error {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		return response.BadRequest(c, verr.Error())
	case errors.Is(err, paymentmethod.ErrPaymentMethodNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, paymentmethod.ErrForbidden):
		return response.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, paymentmethod.ErrTokenRejected), errors.Is(err, paymentmethod.ErrCardExpired):
		return response.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, paymentmethod.ErrPaymentDeclined):
		return response.Error(c, fiber.StatusPaymentRequired, err.Error())
	case errors.Is(err, paymentmethod.ErrIdempotencyConflict), errors.Is(err, paymentmethod.ErrPaymentInProgress):
		return response.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, paymentmethod.ErrProcessorUnavailable):
		return response.Error(c, fiber.StatusBadGateway, "payment processor unavailable")
	default:
		h.log.Error("payment method request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return response.ServerError(c, "internal server error")
	}
}
