package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
)

// Appointment books a patient with a doctor at an exact instant.
// At most one non-cancelled appointment exists per (doctor_id, date); the
// partial unique index ux_appointments_doctor_slot enforces it.
type Appointment struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"clinic_id"`
	PatientID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Date           time.Time         `gorm:"not null;index" json:"date"`
	EndDate        *time.Time        `json:"end_date,omitempty"`
	Reason         string            `gorm:"type:text" json:"reason,omitempty"`
	Notes          string            `gorm:"type:text" json:"notes,omitempty"`
	Status         AppointmentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ReminderSentAt *time.Time        `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// AppointmentSlotIndex is the name of the partial unique index guarding a doctor's slot.
const AppointmentSlotIndex = "ux_appointments_doctor_slot"

// IsCancelled checks if appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// IsCompleted checks if a consultation has been filed against the appointment
func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}

// IsValidAppointmentStatus reports whether s is one of the four known statuses.
func IsValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

// staffTransitions lists the status changes staff may apply by hand.
// COMPLETED is only reachable by filing a consultation.
var staffTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCancelled},
}

// CanTransitionTo reports whether staff may move the appointment to next.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, s := range staffTransitions[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// AppointmentFilter is a domain-level filter for listing appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	ClinicID  uuid.UUID
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	From      *time.Time // inclusive
	To        *time.Time // exclusive
	Status    AppointmentStatus
}

// DayRange returns the half-open interval [start of day, start of next day) in UTC.
func DayRange(day time.Time) (time.Time, time.Time) {
	d := day.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
