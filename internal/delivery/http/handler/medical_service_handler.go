package handler

import (
	"net/http"

	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/usecase"
	"github.com/Ouerghi23/Medflow/pkg/response"
	"github.com/Ouerghi23/Medflow/pkg/validator"
)

type MedicalServiceHandler struct {
	serviceUsecase usecase.MedicalServiceUsecase
	validator      *validator.CustomValidator
}

func NewMedicalServiceHandler(serviceUsecase usecase.MedicalServiceUsecase, validator *validator.CustomValidator) *MedicalServiceHandler {
	return &MedicalServiceHandler{
		serviceUsecase: serviceUsecase,
		validator:      validator,
	}
}

func (h *MedicalServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMedicalServiceRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	svc, err := h.serviceUsecase.CreateService(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create service")
		return
	}

	response.Success(w, http.StatusCreated, "Service created successfully", svc)
}

func (h *MedicalServiceHandler) GetAllServices(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	services, err := h.serviceUsecase.GetAllServices(r.Context(), includeInactive)
	if err != nil {
		writeError(w, err, "Failed to get services")
		return
	}

	response.Success(w, http.StatusOK, "Services retrieved successfully", services)
}

func (h *MedicalServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "service")
	if !ok {
		return
	}

	var req dto.UpdateMedicalServiceRequest
	if !bindJSON(w, r, h.validator, &req) {
		return
	}

	svc, err := h.serviceUsecase.UpdateService(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update service")
		return
	}

	response.Success(w, http.StatusOK, "Service updated successfully", svc)
}

func (h *MedicalServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "service")
	if !ok {
		return
	}

	if err := h.serviceUsecase.DeleteService(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete service")
		return
	}

	response.Success(w, http.StatusOK, "Service deleted successfully", nil)
}
