package usecase

import (
	"testing"
	"time"

	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogs_RecordedByUsecasesAndAdminOnly(t *testing.T) {
	f := newFixture(t)
	appointments := newAppointmentUsecase(f)
	logs := NewAuditLogUsecase(f.tx, f.log, f.policy, f.auditLogs)

	for i := 0; i < 3; i++ {
		_, err := appointments.CreateAppointment(f.ctxAs(f.receptionist), &dto.CreateAppointmentRequest{
			PatientID: f.patient.ID,
			DoctorID:  f.doctor.ID,
			Date:      time.Date(2026, 11, 2, 9+i, 0, 0, 0, time.UTC).Format(time.RFC3339),
		})
		require.NoError(t, err)
	}

	_, err := logs.GetAllAuditLogs(f.ctxAs(f.receptionist), "", 1, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	res, err := logs.GetAllAuditLogs(f.ctxAs(f.adminUser), entity.AuditActionAppointmentCreate, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.Total)
	assert.Len(t, res.Logs, 2)
	assert.Equal(t, entity.AuditActionAppointmentCreate, res.Logs[0].Action)
	assert.Equal(t, "appointment", res.Logs[0].Metadata["entity"])

	one, err := logs.GetAuditLog(f.ctxAs(f.adminUser), res.Logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, res.Logs[0].ID, one.ID)

	_, err = logs.GetAuditLog(f.ctxAs(f.adminUser), 999)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}

func TestAuditLogs_PageDefaults(t *testing.T) {
	page, limit := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPageLimit, limit)

	_, limit = normalizePage(2, 1000)
	assert.Equal(t, maxPageLimit, limit)
}
