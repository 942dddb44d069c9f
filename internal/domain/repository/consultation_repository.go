package repository

import (
	"context"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConsultationRepository interface {
	// Create inserts the consultation together with its prescriptions.
	Create(ctx context.Context, db *gorm.DB, consultation *entity.Consultation) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Consultation, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.ConsultationFilter) ([]entity.Consultation, error)
}
