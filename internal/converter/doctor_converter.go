package converter

import (
	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity with its preloaded user to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:             doctor.ID,
		UserID:         doctor.UserID,
		FirstName:      doctor.User.FirstName,
		LastName:       doctor.User.LastName,
		FullName:       doctor.User.FullName(),
		Email:          doctor.User.Email,
		Phone:          doctor.User.Phone,
		Specialization: doctor.Specialization,
		LicenseNumber:  doctor.LicenseNumber,
	}
}

func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

func doctorSummary(doctor *entity.Doctor) *dto.DoctorSummary {
	if doctor == nil || doctor.User.FirstName == "" {
		return nil
	}
	return &dto.DoctorSummary{
		ID:             doctor.ID,
		FullName:       doctor.User.FullName(),
		Specialization: doctor.Specialization,
	}
}
