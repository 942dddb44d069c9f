package usecase

import (
	"context"
	"time"

	"github.com/Ouerghi23/Medflow/internal/converter"
	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	"github.com/Ouerghi23/Medflow/internal/domain/repository"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/cache"
	"github.com/Ouerghi23/Medflow/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

type DashboardUsecase interface {
	GetStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
}

type dashboardUsecase struct {
	tx              repository.Transactor
	log             *logrus.Logger
	policy          service.AccessPolicy
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	invoiceRepo     repository.InvoiceRepository
	paymentRepo     repository.PaymentRepository
	stats           cache.StatsCache
	now             func() time.Time
}

func NewDashboardUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	policy service.AccessPolicy,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	stats cache.StatsCache,
) DashboardUsecase {
	return &dashboardUsecase{
		tx:              tx,
		log:             log,
		policy:          policy,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		invoiceRepo:     invoiceRepo,
		paymentRepo:     paymentRepo,
		stats:           stats,
		now:             time.Now,
	}
}

func (u *dashboardUsecase) GetStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionDashboardRead) {
		return nil, ErrForbidden
	}

	cached, err := u.stats.Get(ctx, p.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to read cached dashboard stats: %+v", err)
	}
	if cached != nil {
		return converter.DashboardStatsToResponse(cached), nil
	}

	now := u.now().UTC()
	dayStart, dayEnd := entity.DayRange(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var stats entity.DashboardStats
	db := u.tx.DB(ctx)

	// Each task writes a distinct field, so no locking is needed.
	g := pool.New().WithContext(ctx).WithCancelOnError()
	g.Go(func(ctx context.Context) error {
		n, err := u.patientRepo.CountByClinic(ctx, db, p.ClinicID)
		stats.TotalPatients = n
		return err
	})
	g.Go(func(ctx context.Context) error {
		n, err := u.appointmentRepo.CountActiveBetween(ctx, db, p.ClinicID, dayStart, dayEnd)
		stats.TodayAppointments = n
		return err
	})
	g.Go(func(ctx context.Context) error {
		n, err := u.invoiceRepo.CountByStatus(ctx, db, p.ClinicID, entity.InvoiceStatusUnpaid)
		stats.PendingInvoices = n
		return err
	})
	g.Go(func(ctx context.Context) error {
		sum, err := u.paymentRepo.SumCompletedSince(ctx, db, p.ClinicID, monthStart)
		stats.MonthlyRevenue = sum
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to compute dashboard stats: %+v", err)
		return nil, err
	}

	if err := u.stats.Set(ctx, p.ClinicID, &stats); err != nil {
		u.log.Warnf("Failed to cache dashboard stats: %+v", err)
	}

	return converter.DashboardStatsToResponse(&stats), nil
}
