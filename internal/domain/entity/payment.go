package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatusCompleted is the only status reconciliation writes.
const PaymentStatusCompleted = "completed"

// Payment methods, named after the processor that confirmed the payment
const (
	PaymentMethodStripe   = "STRIPE"
	PaymentMethodMidtrans = "MIDTRANS"
)

// Payment records one confirmed settlement of an invoice.
// (method, transaction_id) is unique so redelivered webhooks cannot record revenue twice.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method        string          `gorm:"type:varchar(30);not null" json:"method"`
	TransactionID string          `gorm:"type:varchar(255);not null" json:"transaction_id"`
	SessionID     string          `gorm:"type:varchar(255)" json:"session_id,omitempty"`
	Status        string          `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Invoice *Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentDedupIndex is the unique index on (method, transaction_id).
const PaymentDedupIndex = "ux_payments_method_transaction"
