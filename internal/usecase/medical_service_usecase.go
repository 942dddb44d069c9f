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
	ErrServiceNotFound = errors.New("medical service not found")
)

type MedicalServiceUsecase interface {
	CreateService(ctx context.Context, req *dto.CreateMedicalServiceRequest) (*dto.MedicalServiceResponse, error)
	// GetAllServices lists the catalog. Inactive entries are only shown to admins asking for them.
	GetAllServices(ctx context.Context, includeInactive bool) (*dto.MedicalServiceListResponse, error)
	UpdateService(ctx context.Context, id uuid.UUID, req *dto.UpdateMedicalServiceRequest) (*dto.MedicalServiceResponse, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
}

type medicalServiceUsecase struct {
	tx          repository.Transactor
	log         *logrus.Logger
	policy      service.AccessPolicy
	serviceRepo repository.MedicalServiceRepository
	audit       service.AuditService
}

func NewMedicalServiceUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	policy service.AccessPolicy,
	serviceRepo repository.MedicalServiceRepository,
	audit service.AuditService,
) MedicalServiceUsecase {
	return &medicalServiceUsecase{
		tx:          tx,
		log:         log,
		policy:      policy,
		serviceRepo: serviceRepo,
		audit:       audit,
	}
}

func (u *medicalServiceUsecase) CreateService(ctx context.Context, req *dto.CreateMedicalServiceRequest) (*dto.MedicalServiceResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionServiceManage) {
		return nil, ErrForbidden
	}

	svc := &entity.MedicalService{
		ClinicID:    p.ClinicID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    true,
	}

	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.serviceRepo.Create(ctx, tx, svc); err != nil {
			return err
		}
		return u.audit.LogCreate(ctx, tx, service.ActorOf(p), entity.AuditActionServiceCreate, "medical_service", svc.ID.String(), converter.MedicalServiceToResponse(svc))
	})
	if err != nil {
		u.log.Warnf("Failed to create medical service: %+v", err)
		return nil, err
	}

	return converter.MedicalServiceToResponse(svc), nil
}

func (u *medicalServiceUsecase) GetAllServices(ctx context.Context, includeInactive bool) (*dto.MedicalServiceListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionServiceRead) {
		return nil, ErrForbidden
	}

	activeOnly := !(includeInactive && u.policy.Can(p.Role, service.ActionServiceManage))
	services, err := u.serviceRepo.FindAll(ctx, u.tx.DB(ctx), p.ClinicID, activeOnly)
	if err != nil {
		u.log.Warnf("Failed to find medical services: %+v", err)
		return nil, err
	}

	return &dto.MedicalServiceListResponse{
		Services: converter.MedicalServicesToResponses(services),
		Total:    len(services),
	}, nil
}

func (u *medicalServiceUsecase) UpdateService(ctx context.Context, id uuid.UUID, req *dto.UpdateMedicalServiceRequest) (*dto.MedicalServiceResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionServiceManage) {
		return nil, ErrForbidden
	}

	var svc *entity.MedicalService
	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		svc, err = u.serviceRepo.FindByID(ctx, tx, p.ClinicID, id)
		if err != nil {
			return err
		}
		if svc == nil {
			return ErrServiceNotFound
		}
		before := converter.MedicalServiceToResponse(svc)

		if req.Name != nil {
			svc.Name = *req.Name
		}
		if req.Description != nil {
			svc.Description = *req.Description
		}
		if req.Price != nil {
			svc.Price = *req.Price
		}
		if req.IsActive != nil {
			svc.IsActive = *req.IsActive
		}

		if err := u.serviceRepo.Update(ctx, tx, svc); err != nil {
			return err
		}
		return u.audit.LogUpdate(ctx, tx, service.ActorOf(p), entity.AuditActionServiceUpdate, "medical_service", svc.ID.String(), before, converter.MedicalServiceToResponse(svc))
	})
	if err != nil {
		if !errors.Is(err, ErrServiceNotFound) {
			u.log.Warnf("Failed to update medical service: %+v", err)
		}
		return nil, err
	}

	return converter.MedicalServiceToResponse(svc), nil
}

// DeleteService deactivates the service. Existing invoice lines keep referencing it.
func (u *medicalServiceUsecase) DeleteService(ctx context.Context, id uuid.UUID) error {
	p, err := principalFrom(ctx)
	if err != nil {
		return err
	}
	if !u.policy.Can(p.Role, service.ActionServiceManage) {
		return ErrForbidden
	}

	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		rows, err := u.serviceRepo.Deactivate(ctx, tx, p.ClinicID, id)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrServiceNotFound
		}
		return u.audit.LogDelete(ctx, tx, service.ActorOf(p), entity.AuditActionServiceDelete, "medical_service", id.String(), nil)
	})
	if err != nil && !errors.Is(err, ErrServiceNotFound) {
		u.log.Warnf("Failed to delete medical service: %+v", err)
	}
	return err
}
