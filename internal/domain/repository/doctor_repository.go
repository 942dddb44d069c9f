package repository

import (
	"context"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Doctor, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error)
	FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID) ([]entity.Doctor, error)
}
