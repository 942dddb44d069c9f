package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/payment"
	"github.com/Ouerghi23/Medflow/internal/usecase"
	"github.com/Ouerghi23/Medflow/pkg/response"
	"github.com/Ouerghi23/Medflow/pkg/validator"
)

// Larger payloads are truncated and then fail signature verification.
const maxWebhookBytes = 65536

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
	validator      *validator.CustomValidator
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase, validator *validator.CustomValidator) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		validator:      validator,
	}
}

func (h *PaymentHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCheckoutRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	session, err := h.paymentUsecase.CreateCheckout(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create checkout session")
		return
	}

	response.Success(w, http.StatusOK, "Checkout session created successfully", session)
}

// Webhook receives processor notifications. The signature is checked against
// the raw body, so it must be read before any decoding.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to read request body", nil)
		return
	}

	err = h.paymentUsecase.HandleWebhook(r.Context(), payload, r.Header)
	switch {
	case err == nil:
		response.JSON(w, http.StatusOK, dto.WebhookAck{Received: true})
	case errors.Is(err, payment.ErrInvalidSignature):
		response.Error(w, http.StatusBadRequest, "Invalid signature", nil)
	case errors.Is(err, payment.ErrMalformedEvent):
		response.Error(w, http.StatusBadRequest, "Malformed event", nil)
	default:
		response.InternalServerError(w, "Webhook processing failed")
	}
}
