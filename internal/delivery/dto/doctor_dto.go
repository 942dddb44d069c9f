package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	FirstName      string `json:"first_name" validate:"required,min=2,max=100"`
	LastName       string `json:"last_name" validate:"required,min=1,max=100"`
	Phone          string `json:"phone" validate:"omitempty,max=30"`
	Specialization string `json:"specialization" validate:"required,max=100"`
	LicenseNumber  string `json:"license_number" validate:"required,max=50"`
}

// Response DTOs

type DoctorProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	Specialization string    `json:"specialization"`
	LicenseNumber  string    `json:"license_number"`
}

// DoctorResponse is a doctor with the identity of their user account.
type DoctorResponse struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Specialization string    `json:"specialization"`
	LicenseNumber  string    `json:"license_number"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
