package repository

import (
	"context"
	"errors"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	domainRepo "github.com/Ouerghi23/Medflow/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type consultationRepository struct{}

func NewConsultationRepository() domainRepo.ConsultationRepository {
	return &consultationRepository{}
}

func (r *consultationRepository) Create(ctx context.Context, db *gorm.DB, consultation *entity.Consultation) error {
	return db.WithContext(ctx).Omit("Appointment", "Patient", "Doctor").Create(consultation).Error
}

func (r *consultationRepository) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Consultation, error) {
	var consultation entity.Consultation
	err := db.WithContext(ctx).
		Preload("Patient.User").
		Preload("Doctor.User").
		Preload("Prescriptions").
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&consultation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consultation, nil
}

func (r *consultationRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.ConsultationFilter) ([]entity.Consultation, error) {
	query := db.WithContext(ctx).
		Preload("Patient.User").
		Preload("Doctor.User").
		Preload("Prescriptions").
		Where("clinic_id = ?", filter.ClinicID)

	if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}

	var consultations []entity.Consultation
	if err := query.Order("created_at DESC").Find(&consultations).Error; err != nil {
		return nil, err
	}
	return consultations, nil
}
