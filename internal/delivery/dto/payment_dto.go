package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateCheckoutRequest struct {
	InvoiceID uuid.UUID `json:"invoiceId" validate:"required"`
}

type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// WebhookAck is the processor-facing reply. It is not wrapped in the API envelope.
type WebhookAck struct {
	Received bool `json:"received"`
}
