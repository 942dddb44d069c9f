package repository

import (
	"context"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindStaff(ctx context.Context, db *gorm.DB, clinicID uuid.UUID) ([]entity.User, error)
	UpdateDeviceToken(ctx context.Context, db *gorm.DB, id uuid.UUID, token *string) error
}
