package repository

import (
	"context"
	"errors"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	domainRepo "github.com/Ouerghi23/Medflow/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicalServiceRepository struct{}

func NewMedicalServiceRepository() domainRepo.MedicalServiceRepository {
	return &medicalServiceRepository{}
}

func (r *medicalServiceRepository) Create(ctx context.Context, db *gorm.DB, service *entity.MedicalService) error {
	return db.WithContext(ctx).Create(service).Error
}

func (r *medicalServiceRepository) FindAll(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, activeOnly bool) ([]entity.MedicalService, error) {
	query := db.WithContext(ctx).Where("clinic_id = ?", clinicID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var services []entity.MedicalService
	if err := query.Order("name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *medicalServiceRepository) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.MedicalService, error) {
	var service entity.MedicalService
	err := db.WithContext(ctx).Where("id = ? AND clinic_id = ?", id, clinicID).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *medicalServiceRepository) FindByIDs(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, ids []uuid.UUID) ([]entity.MedicalService, error) {
	var services []entity.MedicalService
	if len(ids) == 0 {
		return services, nil
	}
	err := db.WithContext(ctx).Where("clinic_id = ? AND id IN ?", clinicID, ids).Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *medicalServiceRepository) Update(ctx context.Context, db *gorm.DB, service *entity.MedicalService) error {
	return db.WithContext(ctx).Save(service).Error
}

// Deactivate hides the service from the catalog. Invoice items keep referencing it.
func (r *medicalServiceRepository) Deactivate(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.MedicalService{}).
		Where("id = ? AND clinic_id = ?", id, clinicID).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
