package converter

import (
	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
)

// InvoiceToResponse converts an Invoice entity with items and payments to InvoiceResponse DTO
func InvoiceToResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	if inv == nil {
		return nil
	}

	items := make([]dto.InvoiceItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = dto.InvoiceItemResponse{
			ID:          it.ID,
			ServiceID:   it.ServiceID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		}
	}

	var dueDate *string
	if inv.DueDate != nil {
		d := inv.DueDate.Format(dateLayout)
		dueDate = &d
	}

	return &dto.InvoiceResponse{
		ID:            inv.ID,
		ClinicID:      inv.ClinicID,
		PatientID:     inv.PatientID,
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount,
		Discount:      inv.Discount,
		Tax:           inv.Tax,
		TotalAmount:   inv.TotalAmount,
		Status:        string(inv.Status),
		DueDate:       dueDate,
		Notes:         inv.Notes,
		PaidAt:        inv.PaidAt,
		Patient:       patientSummary(&inv.Patient),
		Items:         items,
		Payments:      PaymentsToResponses(inv.Payments),
		CreatedAt:     inv.CreatedAt,
	}
}

func InvoicesToResponses(invoices []entity.Invoice) []dto.InvoiceResponse {
	responses := make([]dto.InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = *InvoiceToResponse(&invoices[i])
	}
	return responses
}

func PaymentsToResponses(payments []entity.Payment) []dto.PaymentResponse {
	responses := make([]dto.PaymentResponse, len(payments))
	for i, p := range payments {
		responses[i] = dto.PaymentResponse{
			ID:            p.ID,
			Amount:        p.Amount,
			Method:        p.Method,
			TransactionID: p.TransactionID,
			Status:        p.Status,
			CreatedAt:     p.CreatedAt,
		}
	}
	return responses
}
