package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type statement struct {
	sql  string
	vars []interface{}
}

type recorder struct {
	statements []statement
}

func (r *recorder) capture(tx *gorm.DB) {
	r.statements = append(r.statements, statement{
		sql:  tx.Statement.SQL.String(),
		vars: append([]interface{}(nil), tx.Statement.Vars...),
	})
}

func (r *recorder) only(t *testing.T) statement {
	t.Helper()
	require.Len(t, r.statements, 1)
	return r.statements[0]
}

// dryRunDB builds postgres SQL without a server and records every statement.
func dryRunDB(t *testing.T) (*gorm.DB, *recorder) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=medflow dbname=medflow sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		// Default write transactions call BeginTx, which dials the server even in DryRun.
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	rec := &recorder{}
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:record_update", rec.capture))
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:record_query", rec.capture))
	return db, rec
}

func TestInvoiceRepository_MarkPaidOnlySettlesUnpaid(t *testing.T) {
	db, rec := dryRunDB(t)
	id := uuid.New()
	at := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

	_, err := NewInvoiceRepository().MarkPaid(context.Background(), db, id, at)
	require.NoError(t, err)

	stmt := rec.only(t)
	assert.Regexp(t, regexp.MustCompile(`^UPDATE "invoices" SET .*"status"=\$\d+`), stmt.sql)
	assert.Regexp(t, regexp.MustCompile(`WHERE id = \$\d+ AND status = \$\d+$`), stmt.sql)
	assert.Contains(t, stmt.vars, id)
	assert.Contains(t, stmt.vars, entity.InvoiceStatusPaid)
	assert.Equal(t, entity.InvoiceStatusUnpaid, stmt.vars[len(stmt.vars)-1])
}

func TestAppointmentRepository_MarkCompletedOnlyFromOpenStatuses(t *testing.T) {
	db, rec := dryRunDB(t)
	id := uuid.New()

	_, err := NewAppointmentRepository().MarkCompleted(context.Background(), db, id)
	require.NoError(t, err)

	stmt := rec.only(t)
	assert.Regexp(t, regexp.MustCompile(`^UPDATE "appointments" SET "status"=\$1`), stmt.sql)
	assert.Regexp(t, regexp.MustCompile(`WHERE id = \$\d+ AND status IN \(\$\d+,\$\d+\)$`), stmt.sql)
	assert.Equal(t, entity.AppointmentStatusCompleted, stmt.vars[0])
	assert.Contains(t, stmt.vars, entity.AppointmentStatusPending)
	assert.Contains(t, stmt.vars, entity.AppointmentStatusConfirmed)
	assert.NotContains(t, stmt.vars, entity.AppointmentStatusCancelled)
}

func TestAppointmentRepository_UpdateStatusIsConditional(t *testing.T) {
	db, rec := dryRunDB(t)
	id := uuid.New()

	_, err := NewAppointmentRepository().UpdateStatus(context.Background(), db, id,
		entity.AppointmentStatusPending, entity.AppointmentStatusConfirmed)
	require.NoError(t, err)

	stmt := rec.only(t)
	assert.Regexp(t, regexp.MustCompile(`^UPDATE "appointments" SET "status"=\$1`), stmt.sql)
	assert.Regexp(t, regexp.MustCompile(`WHERE id = \$\d+ AND status = \$\d+$`), stmt.sql)
	assert.Equal(t, entity.AppointmentStatusConfirmed, stmt.vars[0])
	assert.Equal(t, entity.AppointmentStatusPending, stmt.vars[len(stmt.vars)-1])
	assert.Contains(t, stmt.vars, id)
}

func TestAppointmentRepository_FindActiveBySlotSkipsCancelled(t *testing.T) {
	db, rec := dryRunDB(t)
	doctorID := uuid.New()
	at := time.Date(2026, 11, 2, 8, 0, 0, 0, time.UTC)

	_, err := NewAppointmentRepository().FindActiveBySlot(context.Background(), db, doctorID, at)
	require.NoError(t, err)

	stmt := rec.only(t)
	assert.Regexp(t, regexp.MustCompile(`^SELECT \* FROM "appointments" WHERE doctor_id = \$1 AND date = \$2 AND status <> \$3`), stmt.sql)
	require.GreaterOrEqual(t, len(stmt.vars), 3)
	assert.Equal(t, doctorID, stmt.vars[0])
	assert.Equal(t, at, stmt.vars[1])
	assert.Equal(t, entity.AppointmentStatusCancelled, stmt.vars[2])
}
