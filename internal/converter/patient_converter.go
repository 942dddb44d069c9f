package converter

import (
	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
)

// PatientToResponse converts a Patient entity with its preloaded user to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:               patient.ID,
		UserID:           patient.UserID,
		FirstName:        patient.User.FirstName,
		LastName:         patient.User.LastName,
		FullName:         patient.User.FullName(),
		Email:            patient.User.Email,
		Phone:            patient.User.Phone,
		DateOfBirth:      formatDate(patient.DateOfBirth),
		Gender:           patient.Gender,
		BloodType:        patient.BloodType,
		Address:          patient.Address,
		EmergencyContact: patient.EmergencyContact,
		CreatedAt:        patient.CreatedAt,
	}
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}

func patientSummary(patient *entity.Patient) *dto.PersonSummary {
	if patient == nil {
		return nil
	}
	return personSummary(patient.ID, &patient.User)
}
