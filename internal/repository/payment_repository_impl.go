package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	domainRepo "github.com/Ouerghi23/Medflow/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type paymentRepository struct{}

func NewPaymentRepository() domainRepo.PaymentRepository {
	return &paymentRepository{}
}

func (r *paymentRepository) Create(ctx context.Context, db *gorm.DB, payment *entity.Payment) error {
	return db.WithContext(ctx).Omit("Invoice").Create(payment).Error
}

func (r *paymentRepository) FindByTransaction(ctx context.Context, db *gorm.DB, method, transactionID string) (*entity.Payment, error) {
	var payment entity.Payment
	err := db.WithContext(ctx).
		Where("method = ? AND transaction_id = ?", method, transactionID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) SumCompletedSince(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	row := db.WithContext(ctx).Model(&entity.Payment{}).
		Select("SUM(payments.amount)").
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.clinic_id = ? AND payments.status = ? AND payments.created_at >= ?", clinicID, entity.PaymentStatusCompleted, since).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
