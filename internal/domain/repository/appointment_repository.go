package repository

import (
	"context"
	"time"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Appointment, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	// FindActiveBySlot returns the non-cancelled appointment of doctorID at exactly date, or nil.
	FindActiveBySlot(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) (*entity.Appointment, error)
	// UpdateStatus moves the appointment from one status to another. Returns rows affected.
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
	// MarkCompleted sets COMPLETED only while the appointment is PENDING or CONFIRMED.
	MarkCompleted(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	CountActiveBetween(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, from, to time.Time) (int64, error)
	FindDueForReminder(ctx context.Context, db *gorm.DB, from, to time.Time) ([]entity.Appointment, error)
	MarkReminderSent(ctx context.Context, db *gorm.DB, id uuid.UUID, at time.Time) error
}
