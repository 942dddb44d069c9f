package handler

import (
	"net/http"

	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/usecase"
	"github.com/Ouerghi23/Medflow/pkg/response"
	"github.com/Ouerghi23/Medflow/pkg/validator"
)

type InvoiceHandler struct {
	invoiceUsecase usecase.InvoiceUsecase
	validator      *validator.CustomValidator
}

func NewInvoiceHandler(invoiceUsecase usecase.InvoiceUsecase, validator *validator.CustomValidator) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceUsecase: invoiceUsecase,
		validator:      validator,
	}
}

func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInvoiceRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	invoice, err := h.invoiceUsecase.CreateInvoice(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create invoice")
		return
	}

	response.Success(w, http.StatusCreated, "Invoice created successfully", invoice)
}

func (h *InvoiceHandler) GetAllInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	invoices, err := h.invoiceUsecase.GetAllInvoices(r.Context(), dto.InvoiceFilterRequest{
		PatientID: q.Get("patientId"),
		Status:    q.Get("status"),
	})
	if err != nil {
		writeError(w, err, "Failed to get invoices")
		return
	}

	response.Success(w, http.StatusOK, "Invoices retrieved successfully", invoices)
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceUsecase.GetInvoice(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get invoice")
		return
	}

	response.Success(w, http.StatusOK, "Invoice retrieved successfully", invoice)
}
