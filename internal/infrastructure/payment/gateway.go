package payment

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("malformed webhook payload")
)

// Metadata keys attached to every checkout so the webhook can find the invoice again.
const (
	MetaInvoiceID     = "invoiceId"
	MetaPatientID     = "patientId"
	MetaTenantID      = "tenantId"
	MetaInvoiceNumber = "invoiceNumber"
)

type CheckoutRequest struct {
	InvoiceID     uuid.UUID
	InvoiceNumber string
	Amount        decimal.Decimal
	Currency      string
	CustomerName  string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// EventKind tells reconciliation whether a verified event settles an invoice.
type EventKind int

const (
	EventIgnored EventKind = iota
	EventCheckoutCompleted
)

// Event is a verified processor notification, normalized across providers.
type Event struct {
	Kind          EventKind
	Type          string
	Method        string
	InvoiceID     string
	TransactionID string
	SessionID     string
	// Amount is in major units (e.g. 170.00).
	Amount decimal.Decimal
}

// Gateway is a hosted checkout provider.
type Gateway interface {
	// Method is the name recorded on payments, e.g. STRIPE.
	Method() string
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// ParseWebhook verifies the signature before decoding anything.
	// It returns ErrInvalidSignature when verification fails.
	ParseWebhook(payload []byte, header http.Header) (*Event, error)
}
