package repository

import (
	"context"
	"time"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, db *gorm.DB, payment *entity.Payment) error
	FindByTransaction(ctx context.Context, db *gorm.DB, method, transactionID string) (*entity.Payment, error)
	// SumCompletedSince totals completed payments of the clinic created at or after since.
	SumCompletedSince(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, since time.Time) (decimal.Decimal, error)
}
