package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	DoctorID  uuid.UUID `json:"doctor_id" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate   *string   `json:"end_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Reason    string    `json:"reason" validate:"omitempty,max=2000"`
	Notes     string    `json:"notes" validate:"omitempty,max=2000"`
	Status    string    `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
}

// AppointmentFilterRequest is read from the query string.
type AppointmentFilterRequest struct {
	DoctorID string
	Date     string
	Status   string
}

// Response DTOs

type PersonSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email,omitempty"`
}

type DoctorSummary struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Specialization string    `json:"specialization,omitempty"`
}

type AppointmentResponse struct {
	ID        uuid.UUID      `json:"id"`
	ClinicID  uuid.UUID      `json:"clinic_id"`
	PatientID uuid.UUID      `json:"patient_id"`
	DoctorID  uuid.UUID      `json:"doctor_id"`
	Date      time.Time      `json:"date"`
	EndDate   *time.Time     `json:"end_date,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	Status    string         `json:"status"`
	Patient   *PersonSummary `json:"patient,omitempty"`
	Doctor    *DoctorSummary `json:"doctor,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
