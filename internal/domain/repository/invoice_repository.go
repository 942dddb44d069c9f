package repository

import (
	"context"
	"time"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	// Create inserts the invoice together with its items.
	Create(ctx context.Context, db *gorm.DB, invoice *entity.Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id uuid.UUID) (*entity.Invoice, error)
	// FindByIDAnyClinic is used by payment reconciliation, where no caller tenant exists.
	FindByIDAnyClinic(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Invoice, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.InvoiceFilter) ([]entity.Invoice, error)
	ExistsByNumber(ctx context.Context, db *gorm.DB, number string) (bool, error)
	MarkPaid(ctx context.Context, db *gorm.DB, id uuid.UUID, paidAt time.Time) (int64, error)
	CountByStatus(ctx context.Context, db *gorm.DB, clinicID uuid.UUID, status entity.InvoiceStatus) (int64, error)
}
