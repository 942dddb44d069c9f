package entity

import (
	"time"

	"github.com/google/uuid"
)

// Consultation is the clinical record filed against one appointment
type Consultation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"clinic_id"`
	AppointmentID uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"appointment_id"`
	PatientID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Diagnosis     string     `gorm:"type:text;not null" json:"diagnosis"`
	Symptoms      string     `gorm:"type:text" json:"symptoms,omitempty"`
	Examination   string     `gorm:"type:text" json:"examination,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	FollowUpDate  *time.Time `json:"follow_up_date,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment   *Appointment   `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	Patient       Patient        `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor        Doctor         `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Prescriptions []Prescription `gorm:"foreignKey:ConsultationID" json:"prescriptions,omitempty"`
}

func (Consultation) TableName() string {
	return "consultations"
}

// Prescription is one medication line of a consultation
type Prescription struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ConsultationID uuid.UUID `gorm:"type:uuid;not null;index" json:"consultation_id"`
	Medication     string    `gorm:"type:varchar(255);not null" json:"medication"`
	Dosage         string    `gorm:"type:varchar(100);not null" json:"dosage"`
	Frequency      string    `gorm:"type:varchar(100)" json:"frequency,omitempty"`
	Duration       string    `gorm:"type:varchar(100)" json:"duration,omitempty"`
	Instructions   string    `gorm:"type:text" json:"instructions,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// ConsultationFilter narrows consultation listings.
type ConsultationFilter struct {
	ClinicID  uuid.UUID
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
}
