package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	domainRepo "github.com/Ouerghi23/Medflow/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type invoiceRepository struct{}

func NewInvoiceRepository() domainRepo.InvoiceRepository {
	return &invoiceRepository{}
}

func (r *invoiceRepository) Create(ctx context.Context, db *gorm.DB, invoice *entity.Invoice) error {
	return db.WithContext(ctx).Omit("Patient", "Payments").Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := db.WithContext(ctx).
		Preload("Patient.User").
		Preload("Items").
		Preload("Payments").
		Where("id = ? AND clinic_id = ?", id, clinicID).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIDAnyClinic(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := db.WithContext(ctx).Preload("Patient.User").Where("id = ?", id).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.InvoiceFilter) ([]entity.Invoice, error) {
	query := db.WithContext(ctx).
		Preload("Patient.User").
		Preload("Items").
		Preload("Payments").
		Where("clinic_id = ?", filter.ClinicID)

	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var invoices []entity.Invoice
	if err := query.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) ExistsByNumber(ctx context.Context, db *gorm.DB, number string) (bool, error) {
	var total int64
	err := db.WithContext(ctx).Model(&entity.Invoice{}).Where("invoice_number = ?", number).Count(&total).Error
	return total > 0, err
}

// MarkPaid only settles an UNPAID invoice; zero rows means it was paid or cancelled meanwhile.
func (r *invoiceRepository) MarkPaid(ctx context.Context, db *gorm.DB, id uuid.UUID, paidAt time.Time) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ? AND status = ?", id, entity.InvoiceStatusUnpaid).
		Updates(map[string]interface{}{
			"status":  entity.InvoiceStatusPaid,
			"paid_at": paidAt,
		})
	return result.RowsAffected, result.Error
}

func (r *invoiceRepository) CountByStatus(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, status entity.InvoiceStatus) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("clinic_id = ? AND status = ?", clinicID, status).
		Count(&total).Error
	return total, err
}
