package usecase

import (
	"context"
	"errors"

	"github.com/Ouerghi23/Medflow/internal/converter"
	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	"github.com/Ouerghi23/Medflow/internal/domain/repository"
	"github.com/Ouerghi23/Medflow/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrLicenseAlreadyExists   = errors.New("license number already exists")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
}

type doctorUsecase struct {
	tx         repository.Transactor
	log        *logrus.Logger
	policy     service.AccessPolicy
	userRepo   repository.UserRepository
	doctorRepo repository.DoctorRepository
	audit      service.AuditService
}

func NewDoctorUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	policy service.AccessPolicy,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	audit service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		tx:         tx,
		log:        log,
		policy:     policy,
		userRepo:   userRepo,
		doctorRepo: doctorRepo,
		audit:      audit,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionDoctorCreate) {
		return nil, ErrForbidden
	}

	var doctor *entity.Doctor
	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		user, err := createAccount(ctx, tx, u.userRepo, newAccount{
			ClinicID:  p.ClinicID,
			RoleID:    entity.RoleIDDoctor,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		})
		if err != nil {
			return err
		}

		doctor = &entity.Doctor{
			UserID:         user.ID,
			ClinicID:       p.ClinicID,
			Specialization: req.Specialization,
			LicenseNumber:  req.LicenseNumber,
		}
		if err := u.doctorRepo.Create(ctx, tx, doctor); err != nil {
			if isDuplicateKeyError(err, "license_number") {
				return ErrLicenseAlreadyExists
			}
			return err
		}
		doctor.User = *user

		return u.audit.LogCreate(ctx, tx, service.ActorOf(p), entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), map[string]interface{}{
			"user_id":        user.ID,
			"specialization": doctor.Specialization,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrEmailAlreadyExists) && !errors.Is(err, ErrLicenseAlreadyExists) {
			u.log.Warnf("Failed to create doctor: %+v", err)
		}
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionDoctorRead) {
		return nil, ErrForbidden
	}

	doctors, err := u.doctorRepo.FindAll(ctx, u.tx.DB(ctx), p.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}
