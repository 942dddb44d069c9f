package repository

import (
	"context"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"gorm.io/gorm"
)

// RoleRepository reads the fixed role table seeded by the initial migration.
type RoleRepository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Role, error)
}
