package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a state change. ClinicID is nil for system events.
type AuditLog struct {
	ID        int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID    `gorm:"type:uuid;index" json:"user_id,omitempty"`
	ClinicID  *uuid.UUID    `gorm:"type:uuid;index" json:"clinic_id,omitempty"`
	Action    string        `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  AuditMetadata `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time     `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditMetadata is free-form context stored in a jsonb column.
type AuditMetadata map[string]interface{}

func (m AuditMetadata) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *AuditMetadata) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("audit metadata: unsupported column type %T", value)
	}

	out := AuditMetadata{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("audit metadata: %w", err)
	}
	*m = out
	return nil
}

// Audit actions
const (
	AuditActionUserLogin               = "user.login"
	AuditActionUserLogout              = "user.logout"
	AuditActionClinicRegister          = "clinic.register"
	AuditActionUserCreate              = "user.create"
	AuditActionPatientCreate           = "patient.create"
	AuditActionDoctorCreate            = "doctor.create"
	AuditActionAppointmentCreate       = "appointment.create"
	AuditActionAppointmentStatusUpdate = "appointment.status_update"
	AuditActionConsultationCreate      = "consultation.create"
	AuditActionInvoiceCreate           = "invoice.create"
	AuditActionInvoicePaid             = "invoice.paid"
	AuditActionServiceCreate           = "service.create"
	AuditActionServiceUpdate           = "service.update"
	AuditActionServiceDelete           = "service.delete"
)

// AuditLogFilter narrows audit log listings.
type AuditLogFilter struct {
	ClinicID uuid.UUID
	Action   string
	Limit    int
	Offset   int
}
