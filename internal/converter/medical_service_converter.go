package converter

import (
	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
)

func MedicalServiceToResponse(s *entity.MedicalService) *dto.MedicalServiceResponse {
	if s == nil {
		return nil
	}
	return &dto.MedicalServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func MedicalServicesToResponses(services []entity.MedicalService) []dto.MedicalServiceResponse {
	responses := make([]dto.MedicalServiceResponse, len(services))
	for i := range services {
		responses[i] = *MedicalServiceToResponse(&services[i])
	}
	return responses
}

func DashboardStatsToResponse(s *entity.DashboardStats) *dto.DashboardStatsResponse {
	if s == nil {
		return nil
	}
	return &dto.DashboardStatsResponse{
		TotalPatients:     s.TotalPatients,
		TodayAppointments: s.TodayAppointments,
		PendingInvoices:   s.PendingInvoices,
		MonthlyRevenue:    s.MonthlyRevenue,
	}
}
