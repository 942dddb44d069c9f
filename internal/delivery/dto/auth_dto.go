package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// RegisterClinicRequest creates a clinic together with its first ADMIN user.
type RegisterClinicRequest struct {
	ClinicName    string `json:"clinic_name" validate:"required,min=2,max=255"`
	ClinicEmail   string `json:"clinic_email" validate:"omitempty,email"`
	ClinicPhone   string `json:"clinic_phone" validate:"omitempty,max=30"`
	ClinicAddress string `json:"clinic_address" validate:"omitempty"`
	FirstName     string `json:"first_name" validate:"required,min=2,max=100"`
	LastName      string `json:"last_name" validate:"required,min=1,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	Phone         string `json:"phone" validate:"omitempty,max=30"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type DeviceTokenRequest struct {
	Token string `json:"token" validate:"required,max=4096"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type ClinicResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email,omitempty"`
	Phone   string    `json:"phone,omitempty"`
	Address string    `json:"address,omitempty"`
}

type UserResponse struct {
	ID        uuid.UUID               `json:"id"`
	ClinicID  uuid.UUID               `json:"clinic_id"`
	Email     string                  `json:"email"`
	FirstName string                  `json:"first_name"`
	LastName  string                  `json:"last_name"`
	FullName  string                  `json:"full_name"`
	Phone     string                  `json:"phone,omitempty"`
	Role      string                  `json:"role"`
	IsActive  bool                    `json:"is_active"`
	Clinic    *ClinicResponse         `json:"clinic,omitempty"`
	Doctor    *DoctorProfileResponse  `json:"doctor,omitempty"`
	Patient   *PatientProfileResponse `json:"patient,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

type RegisterClinicResponse struct {
	Clinic ClinicResponse `json:"clinic"`
	User   UserResponse   `json:"user"`
}
