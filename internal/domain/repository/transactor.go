package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor hands out database handles. Repositories take the handle as an
// argument so the same call works inside or outside a transaction.
type Transactor interface {
	DB(ctx context.Context) *gorm.DB
	// WithinTransaction runs fn in one transaction. Any error returned by fn rolls it back.
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
