package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Ouerghi23/Medflow/internal/usecase"
	"github.com/Ouerghi23/Medflow/pkg/response"
	"github.com/Ouerghi23/Medflow/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type errorMapping struct {
	target error
	status int
}

// usecaseErrors maps domain sentinels to HTTP statuses. Anything not listed is a 500.
var usecaseErrors = []errorMapping{
	{usecase.ErrUnauthenticated, http.StatusUnauthorized},
	{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
	{usecase.ErrUserInactive, http.StatusUnauthorized},
	{usecase.ErrInvalidToken, http.StatusUnauthorized},
	{usecase.ErrTokenRevoked, http.StatusUnauthorized},

	{usecase.ErrForbidden, http.StatusForbidden},

	{usecase.ErrUserNotFound, http.StatusNotFound},
	{usecase.ErrPatientNotFound, http.StatusNotFound},
	{usecase.ErrDoctorNotFound, http.StatusNotFound},
	{usecase.ErrAppointmentNotFound, http.StatusNotFound},
	{usecase.ErrConsultationNotFound, http.StatusNotFound},
	{usecase.ErrInvoiceNotFound, http.StatusNotFound},
	{usecase.ErrServiceNotFound, http.StatusNotFound},
	{usecase.ErrAuditLogNotFound, http.StatusNotFound},

	{usecase.ErrEmailAlreadyExists, http.StatusBadRequest},
	{usecase.ErrLicenseAlreadyExists, http.StatusBadRequest},
	{usecase.ErrRoleNotFound, http.StatusBadRequest},
	{usecase.ErrSlotConflict, http.StatusBadRequest},
	{usecase.ErrInvalidEndDate, http.StatusBadRequest},
	{usecase.ErrInvalidStatusTransition, http.StatusBadRequest},
	{usecase.ErrAppointmentChanged, http.StatusBadRequest},
	{usecase.ErrAppointmentNotBookable, http.StatusBadRequest},
	{usecase.ErrConsultationMismatch, http.StatusBadRequest},
	{usecase.ErrNegativeInvoiceTotal, http.StatusBadRequest},
	{usecase.ErrMissingUnitPrice, http.StatusBadRequest},
	{usecase.ErrInvoiceAlreadyPaid, http.StatusBadRequest},
	{usecase.ErrInvoiceNotPayable, http.StatusBadRequest},
	{usecase.ErrInvoiceNothingToPay, http.StatusBadRequest},
	{usecase.ErrInvalidDate, http.StatusBadRequest},
	{usecase.ErrInvalidFilter, http.StatusBadRequest},
}

// writeError answers with the status mapped to err, or a 500 carrying fallback.
// The cause of a 500 is logged by the use case, never sent to the client.
func writeError(w http.ResponseWriter, err error, fallback string) {
	for _, m := range usecaseErrors {
		if errors.Is(err, m.target) {
			response.Error(w, m.status, capitalize(m.target.Error()), nil)
			return
		}
	}
	response.InternalServerError(w, fallback)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// bindJSON decodes and validates the body, writing the 400 itself on failure.
func bindJSON(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}

	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}

	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}
