package converter

import (
	"time"

	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// UserToResponse converts a User entity to UserResponse DTO.
// Doctor and Patient profiles are included when they are loaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	role := user.Role.RoleName
	if role == "" {
		role = entity.RoleNameByID(user.RoleID)
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		ClinicID:  user.ClinicID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName(),
		Phone:     user.Phone,
		Role:      role,
		IsActive:  user.IsActive,
		Clinic:    ClinicToResponse(user.Clinic),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	if user.Doctor != nil {
		response.Doctor = &dto.DoctorProfileResponse{
			ID:             user.Doctor.ID,
			Specialization: user.Doctor.Specialization,
			LicenseNumber:  user.Doctor.LicenseNumber,
		}
	}

	if user.Patient != nil {
		response.Patient = &dto.PatientProfileResponse{
			ID:               user.Patient.ID,
			DateOfBirth:      formatDate(user.Patient.DateOfBirth),
			Gender:           user.Patient.Gender,
			BloodType:        user.Patient.BloodType,
			Address:          user.Patient.Address,
			EmergencyContact: user.Patient.EmergencyContact,
		}
	}

	return response
}

func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}

func ClinicToResponse(clinic *entity.Clinic) *dto.ClinicResponse {
	if clinic == nil {
		return nil
	}
	return &dto.ClinicResponse{
		ID:      clinic.ID,
		Name:    clinic.Name,
		Email:   clinic.Email,
		Phone:   clinic.Phone,
		Address: clinic.Address,
	}
}

// personSummary returns nil when the user association was not loaded.
func personSummary(id uuid.UUID, user *entity.User) *dto.PersonSummary {
	if user == nil || user.FirstName == "" {
		return nil
	}
	return &dto.PersonSummary{
		ID:       id,
		FullName: user.FullName(),
		Email:    user.Email,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
