package converter

import (
	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:        a.ID,
		ClinicID:  a.ClinicID,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Date:      a.Date,
		EndDate:   a.EndDate,
		Reason:    a.Reason,
		Notes:     a.Notes,
		Status:    string(a.Status),
		Patient:   patientSummary(&a.Patient),
		Doctor:    doctorSummary(&a.Doctor),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
