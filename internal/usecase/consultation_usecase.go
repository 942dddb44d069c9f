package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ouerghi23/Medflow/internal/converter"
	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	"github.com/Ouerghi23/Medflow/internal/domain/repository"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/pdf"
	"github.com/Ouerghi23/Medflow/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrConsultationNotFound   = errors.New("consultation not found")
	ErrAppointmentNotBookable = errors.New("appointment is cancelled or already completed")
	ErrConsultationMismatch   = errors.New("patient_id or doctor_id does not match the appointment")
)

type ConsultationUsecase interface {
	CreateConsultation(ctx context.Context, req *dto.CreateConsultationRequest) (*dto.ConsultationResponse, error)
	GetAllConsultations(ctx context.Context) (*dto.ConsultationListResponse, error)
	GetConsultation(ctx context.Context, id uuid.UUID) (*dto.ConsultationResponse, error)
	GetPrescriptionPDF(ctx context.Context, id uuid.UUID) (*dto.PrescriptionFile, error)
}

type consultationUsecase struct {
	tx               repository.Transactor
	log              *logrus.Logger
	policy           service.AccessPolicy
	consultationRepo repository.ConsultationRepository
	appointmentRepo  repository.AppointmentRepository
	patientRepo      repository.PatientRepository
	doctorRepo       repository.DoctorRepository
	clinicRepo       repository.ClinicRepository
	audit            service.AuditService
	renderer         pdf.PrescriptionRenderer
}

func NewConsultationUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	policy service.AccessPolicy,
	consultationRepo repository.ConsultationRepository,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	clinicRepo repository.ClinicRepository,
	audit service.AuditService,
	renderer pdf.PrescriptionRenderer,
) ConsultationUsecase {
	return &consultationUsecase{
		tx:               tx,
		log:              log,
		policy:           policy,
		consultationRepo: consultationRepo,
		appointmentRepo:  appointmentRepo,
		patientRepo:      patientRepo,
		doctorRepo:       doctorRepo,
		clinicRepo:       clinicRepo,
		audit:            audit,
		renderer:         renderer,
	}
}

// CreateConsultation files the consultation and completes its appointment in
// one transaction. If the appointment cannot be completed nothing is saved.
func (u *consultationUsecase) CreateConsultation(ctx context.Context, req *dto.CreateConsultationRequest) (*dto.ConsultationResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionConsultationCreate) {
		return nil, ErrForbidden
	}

	consultation := &entity.Consultation{
		ClinicID:      p.ClinicID,
		AppointmentID: req.AppointmentID,
		Diagnosis:     req.Diagnosis,
		Symptoms:      req.Symptoms,
		Examination:   req.Examination,
		Notes:         req.Notes,
		Prescriptions: converter.PrescriptionRequestsToEntities(req.Prescriptions),
	}
	if req.FollowUpDate != nil {
		followUp, err := parseTimestamp(*req.FollowUpDate)
		if err != nil {
			return nil, err
		}
		consultation.FollowUpDate = &followUp
	}

	var created *entity.Consultation
	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		appointment, err := u.appointmentRepo.FindByID(ctx, tx, p.ClinicID, req.AppointmentID)
		if err != nil {
			return err
		}
		if appointment == nil {
			return ErrAppointmentNotFound
		}

		scope, err := resolveOwnership(ctx, tx, p, u.doctorRepo, u.patientRepo)
		if err != nil {
			return err
		}
		if !scope.allows(appointment.DoctorID, appointment.PatientID) {
			return ErrForbidden
		}

		if (req.PatientID != nil && *req.PatientID != appointment.PatientID) ||
			(req.DoctorID != nil && *req.DoctorID != appointment.DoctorID) {
			return ErrConsultationMismatch
		}

		if appointment.IsCancelled() || appointment.IsCompleted() {
			return ErrAppointmentNotBookable
		}

		consultation.PatientID = appointment.PatientID
		consultation.DoctorID = appointment.DoctorID

		if err := u.consultationRepo.Create(ctx, tx, consultation); err != nil {
			if isDuplicateKeyError(err, "appointment_id") {
				return ErrAppointmentNotBookable
			}
			return fmt.Errorf("create consultation: %w", err)
		}

		rows, err := u.appointmentRepo.MarkCompleted(ctx, tx, appointment.ID)
		if err != nil {
			return fmt.Errorf("complete appointment: %w", err)
		}
		if rows == 0 {
			// Cancelled or completed between the read and the update.
			return ErrAppointmentNotBookable
		}

		if err := u.audit.LogCreate(ctx, tx, service.ActorOf(p), entity.AuditActionConsultationCreate, "consultation", consultation.ID.String(), map[string]interface{}{
			"appointment_id": appointment.ID,
			"prescriptions":  len(consultation.Prescriptions),
		}); err != nil {
			return err
		}

		created, err = u.consultationRepo.FindByID(ctx, tx, p.ClinicID, consultation.ID)
		return err
	})
	if err != nil {
		if !isAnyOf(err, ErrAppointmentNotFound, ErrAppointmentNotBookable, ErrConsultationMismatch, ErrForbidden) {
			u.log.Warnf("Failed to create consultation: %+v", err)
		}
		return nil, err
	}
	if created == nil {
		created = consultation
	}

	u.log.Infof("Consultation %s filed, appointment %s completed", created.ID, created.AppointmentID)

	return converter.ConsultationToResponse(created), nil
}

func (u *consultationUsecase) GetAllConsultations(ctx context.Context) (*dto.ConsultationListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionConsultationRead) {
		return nil, ErrForbidden
	}

	db := u.tx.DB(ctx)
	scope, err := resolveOwnership(ctx, db, p, u.doctorRepo, u.patientRepo)
	if err != nil {
		u.log.Warnf("Failed to resolve caller profile: %+v", err)
		return nil, err
	}

	consultations, err := u.consultationRepo.FindAll(ctx, db, entity.ConsultationFilter{
		ClinicID:  p.ClinicID,
		DoctorID:  scope.doctorID,
		PatientID: scope.patientID,
	})
	if err != nil {
		u.log.Warnf("Failed to find consultations: %+v", err)
		return nil, err
	}

	return &dto.ConsultationListResponse{
		Consultations: converter.ConsultationsToResponses(consultations),
		Total:         len(consultations),
	}, nil
}

func (u *consultationUsecase) GetConsultation(ctx context.Context, id uuid.UUID) (*dto.ConsultationResponse, error) {
	consultation, err := u.findVisible(ctx, id)
	if err != nil {
		return nil, err
	}
	return converter.ConsultationToResponse(consultation), nil
}

func (u *consultationUsecase) GetPrescriptionPDF(ctx context.Context, id uuid.UUID) (*dto.PrescriptionFile, error) {
	consultation, err := u.findVisible(ctx, id)
	if err != nil {
		return nil, err
	}

	clinicName := ""
	clinic, err := u.clinicRepo.FindByID(ctx, u.tx.DB(ctx), consultation.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic for prescription: %+v", err)
		return nil, err
	}
	if clinic != nil {
		clinicName = clinic.Name
	}

	content, err := u.renderer.Render(clinicName, consultation)
	if err != nil {
		u.log.Warnf("Failed to render prescription PDF: %+v", err)
		return nil, err
	}

	return &dto.PrescriptionFile{
		Filename: fmt.Sprintf("prescription-%s.pdf", consultation.ID),
		Content:  content,
	}, nil
}

func (u *consultationUsecase) findVisible(ctx context.Context, id uuid.UUID) (*entity.Consultation, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionConsultationRead) {
		return nil, ErrForbidden
	}

	db := u.tx.DB(ctx)
	consultation, err := u.consultationRepo.FindByID(ctx, db, p.ClinicID, id)
	if err != nil {
		u.log.Warnf("Failed to find consultation by ID: %+v", err)
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}

	scope, err := resolveOwnership(ctx, db, p, u.doctorRepo, u.patientRepo)
	if err != nil {
		return nil, err
	}
	if !scope.allows(consultation.DoctorID, consultation.PatientID) {
		return nil, ErrConsultationNotFound
	}

	return consultation, nil
}
