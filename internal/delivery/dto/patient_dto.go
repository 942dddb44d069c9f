package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	Email            string  `json:"email" validate:"required,email"`
	Password         string  `json:"password" validate:"required,min=8"`
	FirstName        string  `json:"first_name" validate:"required,min=2,max=100"`
	LastName         string  `json:"last_name" validate:"required,min=1,max=100"`
	Phone            string  `json:"phone" validate:"omitempty,max=30"`
	DateOfBirth      *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender           string  `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	BloodType        string  `json:"blood_type" validate:"omitempty,oneof=A_POSITIVE A_NEGATIVE B_POSITIVE B_NEGATIVE O_POSITIVE O_NEGATIVE AB_POSITIVE AB_NEGATIVE"`
	Address          string  `json:"address" validate:"omitempty"`
	EmergencyContact string  `json:"emergency_contact" validate:"omitempty,max=100"`
}

type PatientListRequest struct {
	Page  int
	Limit int
}

// Response DTOs

type PatientProfileResponse struct {
	ID               uuid.UUID `json:"id"`
	DateOfBirth      string    `json:"date_of_birth,omitempty"`
	Gender           string    `json:"gender,omitempty"`
	BloodType        string    `json:"blood_type,omitempty"`
	Address          string    `json:"address,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
}

type PatientResponse struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	DateOfBirth      string    `json:"date_of_birth,omitempty"`
	Gender           string    `json:"gender,omitempty"`
	BloodType        string    `json:"blood_type,omitempty"`
	Address          string    `json:"address,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}
