package usecase

import (
	"context"
	"errors"
	"time"

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
	ErrPatientNotFound = errors.New("patient not found")
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetAllPatients(ctx context.Context, req dto.PatientListRequest) (*dto.PatientListResponse, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
}

type patientUsecase struct {
	tx          repository.Transactor
	log         *logrus.Logger
	policy      service.AccessPolicy
	userRepo    repository.UserRepository
	patientRepo repository.PatientRepository
	audit       service.AuditService
}

func NewPatientUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	policy service.AccessPolicy,
	userRepo repository.UserRepository,
	patientRepo repository.PatientRepository,
	audit service.AuditService,
) PatientUsecase {
	return &patientUsecase{
		tx:          tx,
		log:         log,
		policy:      policy,
		userRepo:    userRepo,
		patientRepo: patientRepo,
		audit:       audit,
	}
}

func (u *patientUsecase) CreatePatient(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionPatientCreate) {
		return nil, ErrForbidden
	}

	var dob *time.Time
	if req.DateOfBirth != nil {
		parsed, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			return nil, ErrInvalidDate
		}
		dob = &parsed
	}

	var patient *entity.Patient
	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		user, err := createAccount(ctx, tx, u.userRepo, newAccount{
			ClinicID:  p.ClinicID,
			RoleID:    entity.RoleIDPatient,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		})
		if err != nil {
			return err
		}

		patient = &entity.Patient{
			UserID:           user.ID,
			ClinicID:         p.ClinicID,
			DateOfBirth:      dob,
			Gender:           req.Gender,
			BloodType:        req.BloodType,
			Address:          req.Address,
			EmergencyContact: req.EmergencyContact,
		}
		if err := u.patientRepo.Create(ctx, tx, patient); err != nil {
			return err
		}
		patient.User = *user

		return u.audit.LogCreate(ctx, tx, service.ActorOf(p), entity.AuditActionPatientCreate, "patient", patient.ID.String(), map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrEmailAlreadyExists) {
			u.log.Warnf("Failed to create patient: %+v", err)
		}
		return nil, err
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetAllPatients(ctx context.Context, req dto.PatientListRequest) (*dto.PatientListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionPatientList) {
		return nil, ErrForbidden
	}

	page, limit := normalizePage(req.Page, req.Limit)
	patients, total, err := u.patientRepo.FindAll(ctx, u.tx.DB(ctx), p.ClinicID, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find all patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionPatientRead) {
		return nil, ErrForbidden
	}

	patient, err := u.patientRepo.FindByID(ctx, u.tx.DB(ctx), p.ClinicID, id)
	if err != nil {
		u.log.Warnf("Failed to find patient by ID: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	// Patients may only read their own record.
	if p.IsPatient() && patient.UserID != p.UserID {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}
