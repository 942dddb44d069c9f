package entity

import (
	"time"

	"github.com/google/uuid"
)

// Patient holds demographic data for a PATIENT user
type Patient struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	ClinicID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"clinic_id"`
	DateOfBirth      *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender           string     `gorm:"type:varchar(10)" json:"gender,omitempty"`
	BloodType        string     `gorm:"type:varchar(12)" json:"blood_type,omitempty"`
	Address          string     `gorm:"type:text" json:"address,omitempty"`
	EmergencyContact string     `gorm:"type:varchar(100)" json:"emergency_contact,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Gender constants
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// Blood type constants
const (
	BloodTypeAPositive  = "A_POSITIVE"
	BloodTypeANegative  = "A_NEGATIVE"
	BloodTypeBPositive  = "B_POSITIVE"
	BloodTypeBNegative  = "B_NEGATIVE"
	BloodTypeOPositive  = "O_POSITIVE"
	BloodTypeONegative  = "O_NEGATIVE"
	BloodTypeABPositive = "AB_POSITIVE"
	BloodTypeABNegative = "AB_NEGATIVE"
)
