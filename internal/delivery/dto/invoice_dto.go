package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// InvoiceItemRequest bills one line. When ServiceID is set, a missing unit price
// or description is taken from the clinic's service catalog.
type InvoiceItemRequest struct {
	ServiceID   *uuid.UUID       `json:"service_id"`
	Description string           `json:"description" validate:"required_without=ServiceID,max=255"`
	Quantity    int              `json:"quantity" validate:"required,gte=1"`
	UnitPrice   *decimal.Decimal `json:"unit_price" validate:"required_without=ServiceID,omitempty,gte=0"`
}

type CreateInvoiceRequest struct {
	PatientID uuid.UUID            `json:"patient_id" validate:"required"`
	Items     []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount  decimal.Decimal      `json:"discount" validate:"gte=0"`
	Tax       decimal.Decimal      `json:"tax" validate:"gte=0"`
	DueDate   *string              `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Notes     string               `json:"notes" validate:"omitempty"`
}

type InvoiceFilterRequest struct {
	PatientID string
	Status    string
}

// Response DTOs

type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ServiceID   *uuid.UUID      `json:"service_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	ClinicID      uuid.UUID             `json:"clinic_id"`
	PatientID     uuid.UUID             `json:"patient_id"`
	InvoiceNumber string                `json:"invoice_number"`
	Amount        decimal.Decimal       `json:"amount"`
	Discount      decimal.Decimal       `json:"discount"`
	Tax           decimal.Decimal       `json:"tax"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Status        string                `json:"status"`
	DueDate       *string               `json:"due_date,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	Patient       *PersonSummary        `json:"patient,omitempty"`
	Items         []InvoiceItemResponse `json:"items"`
	Payments      []PaymentResponse     `json:"payments"`
	CreatedAt     time.Time             `json:"created_at"`
}

type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Total    int               `json:"total"`
}
