package usecase

import (
	"context"
	"errors"

	"github.com/Ouerghi23/Medflow/internal/converter"
	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	"github.com/Ouerghi23/Medflow/internal/domain/repository"
	"github.com/Ouerghi23/Medflow/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrSlotConflict            = errors.New("slot already booked")
	ErrInvalidEndDate          = errors.New("end_date must be after date")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrAppointmentChanged      = errors.New("appointment was modified concurrently, reload and retry")
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAllAppointments(ctx context.Context, filter dto.AppointmentFilterRequest) (*dto.AppointmentListResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	tx              repository.Transactor
	log             *logrus.Logger
	policy          service.AccessPolicy
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	doctorRepo      repository.DoctorRepository
	audit           service.AuditService
}

func NewAppointmentUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	policy service.AccessPolicy,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	audit service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		tx:              tx,
		log:             log,
		policy:          policy,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		audit:           audit,
	}
}

func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionAppointmentCreate) {
		return nil, ErrForbidden
	}

	date, err := parseTimestamp(req.Date)
	if err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		ClinicID:  p.ClinicID,
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      date,
		Reason:    req.Reason,
		Notes:     req.Notes,
		Status:    entity.AppointmentStatusPending,
	}

	if req.EndDate != nil {
		end, err := parseTimestamp(*req.EndDate)
		if err != nil {
			return nil, err
		}
		if !end.After(date) {
			return nil, ErrInvalidEndDate
		}
		appointment.EndDate = &end
	}

	if req.Status != "" {
		status := entity.AppointmentStatus(req.Status)
		if !entity.IsValidAppointmentStatus(status) || status == entity.AppointmentStatusCompleted {
			return nil, ErrInvalidStatusTransition
		}
		// Patients may only request; confirming is up to the clinic.
		if status != entity.AppointmentStatusPending && !entity.IsStaffRole(p.Role) {
			return nil, ErrForbidden
		}
		appointment.Status = status
	}

	var created *entity.Appointment
	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.patientRepo.FindByID(ctx, tx, p.ClinicID, req.PatientID)
		if err != nil {
			return err
		}
		if patient == nil {
			return ErrPatientNotFound
		}
		if p.IsPatient() && patient.UserID != p.UserID {
			return ErrForbidden
		}

		doctor, err := u.doctorRepo.FindByID(ctx, tx, p.ClinicID, req.DoctorID)
		if err != nil {
			return err
		}
		if doctor == nil {
			return ErrDoctorNotFound
		}

		// Only the exact timestamp is checked; overlapping durations are allowed.
		if appointment.Status != entity.AppointmentStatusCancelled {
			existing, err := u.appointmentRepo.FindActiveBySlot(ctx, tx, req.DoctorID, date)
			if err != nil {
				return err
			}
			if existing != nil {
				return ErrSlotConflict
			}
		}

		if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
			if isDuplicateKeyError(err, entity.AppointmentSlotIndex) {
				return ErrSlotConflict
			}
			return err
		}

		if err := u.audit.LogCreate(ctx, tx, service.ActorOf(p), entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), map[string]interface{}{
			"doctor_id":  appointment.DoctorID,
			"patient_id": appointment.PatientID,
			"date":       appointment.Date,
			"status":     appointment.Status,
		}); err != nil {
			return err
		}

		created, err = u.appointmentRepo.FindByID(ctx, tx, p.ClinicID, appointment.ID)
		return err
	})
	if err != nil {
		if !isAppointmentClientError(err) {
			u.log.Warnf("Failed to create appointment: %+v", err)
		}
		return nil, err
	}
	if created == nil {
		created = appointment
	}

	u.log.Infof("Appointment %s booked for doctor %s at %s", created.ID, created.DoctorID, created.Date.Format("2006-01-02T15:04:05Z07:00"))

	return converter.AppointmentToResponse(created), nil
}

func (u *appointmentUsecase) GetAllAppointments(ctx context.Context, req dto.AppointmentFilterRequest) (*dto.AppointmentListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionAppointmentRead) {
		return nil, ErrForbidden
	}

	filter := entity.AppointmentFilter{ClinicID: p.ClinicID}

	if filter.DoctorID, err = parseOptionalUUID(req.DoctorID); err != nil {
		return nil, err
	}

	if req.Date != "" {
		day, err := parseDay(req.Date)
		if err != nil {
			return nil, err
		}
		from, to := entity.DayRange(day)
		filter.From, filter.To = &from, &to
	}

	if req.Status != "" {
		filter.Status = entity.AppointmentStatus(req.Status)
		if !entity.IsValidAppointmentStatus(filter.Status) {
			return nil, ErrInvalidFilter
		}
	}

	db := u.tx.DB(ctx)
	scope, err := resolveOwnership(ctx, db, p, u.doctorRepo, u.patientRepo)
	if err != nil {
		u.log.Warnf("Failed to resolve caller profile: %+v", err)
		return nil, err
	}
	// Role scoping overrides whatever the caller asked for.
	if scope.doctorID != nil {
		filter.DoctorID = scope.doctorID
	}
	if scope.patientID != nil {
		filter.PatientID = scope.patientID
	}

	appointments, err := u.appointmentRepo.FindAll(ctx, db, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionAppointmentRead) {
		return nil, ErrForbidden
	}

	appointment, err := u.findVisible(ctx, u.tx.DB(ctx), p, id)
	if err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionAppointmentUpdateStatus) {
		return nil, ErrForbidden
	}

	next := entity.AppointmentStatus(req.Status)

	var updated *entity.Appointment
	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		current, err := u.findVisible(ctx, tx, p, id)
		if err != nil {
			return err
		}

		if !current.CanTransitionTo(next) {
			return ErrInvalidStatusTransition
		}

		rows, err := u.appointmentRepo.UpdateStatus(ctx, tx, id, current.Status, next)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAppointmentChanged
		}

		if err := u.audit.LogUpdate(ctx, tx, service.ActorOf(p), entity.AuditActionAppointmentStatusUpdate, "appointment", id.String(),
			map[string]interface{}{"status": current.Status},
			map[string]interface{}{"status": next},
		); err != nil {
			return err
		}

		updated, err = u.appointmentRepo.FindByID(ctx, tx, p.ClinicID, id)
		return err
	})
	if err != nil {
		if !isAppointmentClientError(err) {
			u.log.Warnf("Failed to update appointment status: %+v", err)
		}
		return nil, err
	}

	u.log.Infof("Appointment %s moved to %s", id, next)

	return converter.AppointmentToResponse(updated), nil
}

// findVisible loads an appointment the caller may see. Others are reported as not found.
func (u *appointmentUsecase) findVisible(ctx context.Context, db *gorm.DB, p entity.Principal, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, db, p.ClinicID, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment by ID: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	scope, err := resolveOwnership(ctx, db, p, u.doctorRepo, u.patientRepo)
	if err != nil {
		return nil, err
	}
	if !scope.allows(appointment.DoctorID, appointment.PatientID) {
		return nil, ErrAppointmentNotFound
	}

	return appointment, nil
}

func isAppointmentClientError(err error) bool {
	return isAnyOf(err,
		ErrSlotConflict,
		ErrPatientNotFound,
		ErrDoctorNotFound,
		ErrAppointmentNotFound,
		ErrInvalidStatusTransition,
		ErrAppointmentChanged,
		ErrForbidden,
	)
}
