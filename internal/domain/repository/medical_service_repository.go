package repository

import (
	"context"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalServiceRepository interface {
	Create(ctx context.Context, db *gorm.DB, service *entity.MedicalService) error
	FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, activeOnly bool) ([]entity.MedicalService, error)
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.MedicalService, error)
	FindByIDs(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, ids []uuid.UUID) ([]entity.MedicalService, error)
	Update(ctx context.Context, db *gorm.DB, service *entity.MedicalService) error
	Deactivate(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (int64, error)
}
