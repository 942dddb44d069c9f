package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type PrescriptionRequest struct {
	Medication   string `json:"medication" validate:"required,max=255"`
	Dosage       string `json:"dosage" validate:"required,max=100"`
	Frequency    string `json:"frequency" validate:"omitempty,max=100"`
	Duration     string `json:"duration" validate:"omitempty,max=100"`
	Instructions string `json:"instructions" validate:"omitempty"`
}

type CreateConsultationRequest struct {
	AppointmentID uuid.UUID             `json:"appointment_id" validate:"required"`
	PatientID     *uuid.UUID            `json:"patient_id"`
	DoctorID      *uuid.UUID            `json:"doctor_id"`
	Diagnosis     string                `json:"diagnosis" validate:"required"`
	Symptoms      string                `json:"symptoms" validate:"omitempty"`
	Examination   string                `json:"examination" validate:"omitempty"`
	Notes         string                `json:"notes" validate:"omitempty"`
	FollowUpDate  *string               `json:"follow_up_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Prescriptions []PrescriptionRequest `json:"prescriptions" validate:"omitempty,dive"`
}

// Response DTOs

type PrescriptionResponse struct {
	ID           uuid.UUID `json:"id"`
	Medication   string    `json:"medication"`
	Dosage       string    `json:"dosage"`
	Frequency    string    `json:"frequency,omitempty"`
	Duration     string    `json:"duration,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
}

type ConsultationResponse struct {
	ID            uuid.UUID              `json:"id"`
	AppointmentID uuid.UUID              `json:"appointment_id"`
	PatientID     uuid.UUID              `json:"patient_id"`
	DoctorID      uuid.UUID              `json:"doctor_id"`
	Diagnosis     string                 `json:"diagnosis"`
	Symptoms      string                 `json:"symptoms,omitempty"`
	Examination   string                 `json:"examination,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	FollowUpDate  *time.Time             `json:"follow_up_date,omitempty"`
	Patient       *PersonSummary         `json:"patient,omitempty"`
	Doctor        *DoctorSummary         `json:"doctor,omitempty"`
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	CreatedAt     time.Time              `json:"created_at"`
}

type ConsultationListResponse struct {
	Consultations []ConsultationResponse `json:"consultations"`
	Total         int                    `json:"total"`
}

// PrescriptionFile is a rendered prescription ready to stream.
type PrescriptionFile struct {
	Filename string
	Content  []byte
}
