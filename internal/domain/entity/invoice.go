package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the settlement state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid    InvoiceStatus = "UNPAID"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// Invoice bills a patient. Status becomes PAID only through payment reconciliation.
type Invoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"clinic_id"`
	PatientID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"patient_id"`
	InvoiceNumber string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_number"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Discount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	Tax           decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"tax"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'UNPAID';index" json:"status"`
	DueDate       *time.Time      `gorm:"type:date" json:"due_date,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient  Patient       `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// IsPaid checks if the invoice has been settled
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// InvoiceItem is one billed line: quantity x unit price.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ServiceID   *uuid.UUID      `gorm:"type:uuid" json:"service_id,omitempty"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_total"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// ErrNegativeTotal is returned by ComputeInvoiceTotals when the discount exceeds subtotal plus tax.
var ErrNegativeTotal = errors.New("invoice total cannot be negative")

// InvoiceTotals is the result of pricing a set of items.
type InvoiceTotals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// moneyPlaces matches the numeric(12,2) money columns.
const moneyPlaces = 2

// ComputeInvoiceTotals rounds every amount to cents, fills LineTotal on every item and
// returns subtotal = sum(quantity * unitPrice) and total = subtotal - discount + tax.
// Stored items therefore always add up to the stored total.
func ComputeInvoiceTotals(items []InvoiceItem, discount, tax decimal.Decimal) (InvoiceTotals, error) {
	discount = discount.Round(moneyPlaces)
	tax = tax.Round(moneyPlaces)

	subtotal := decimal.Zero
	for i := range items {
		items[i].UnitPrice = items[i].UnitPrice.Round(moneyPlaces)
		items[i].LineTotal = items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		subtotal = subtotal.Add(items[i].LineTotal)
	}

	total := subtotal.Sub(discount).Add(tax)
	totals := InvoiceTotals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    total,
	}
	if total.IsNegative() {
		return totals, ErrNegativeTotal
	}
	return totals, nil
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	ClinicID  uuid.UUID
	PatientID *uuid.UUID
	Status    InvoiceStatus
}
