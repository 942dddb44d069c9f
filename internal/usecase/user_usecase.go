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

// UserUsecase manages staff accounts without a doctor or patient profile.
type UserUsecase interface {
	CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.UserResponse, error)
	GetAllStaff(ctx context.Context) (*dto.UserListResponse, error)
}

type userUsecase struct {
	tx       repository.Transactor
	log      *logrus.Logger
	policy   service.AccessPolicy
	userRepo repository.UserRepository
	audit    service.AuditService
}

func NewUserUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	policy service.AccessPolicy,
	userRepo repository.UserRepository,
	audit service.AuditService,
) UserUsecase {
	return &userUsecase{
		tx:       tx,
		log:      log,
		policy:   policy,
		userRepo: userRepo,
		audit:    audit,
	}
}

func (u *userUsecase) CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.UserResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionUserCreate) {
		return nil, ErrForbidden
	}

	roleID, ok := entity.RoleIDByName(req.Role)
	if !ok || (roleID != entity.RoleIDAdmin && roleID != entity.RoleIDReceptionist) {
		return nil, ErrRoleNotFound
	}

	var user *entity.User
	err = u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = createAccount(ctx, tx, u.userRepo, newAccount{
			ClinicID:  p.ClinicID,
			RoleID:    roleID,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		})
		if err != nil {
			return err
		}

		return u.audit.LogCreate(ctx, tx, service.ActorOf(p), entity.AuditActionUserCreate, "user", user.ID.String(), map[string]interface{}{
			"email": user.Email,
			"role":  req.Role,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrEmailAlreadyExists) {
			u.log.Warnf("Failed to create staff user: %+v", err)
		}
		return nil, err
	}

	u.log.Infof("Staff user %s created with role %s", user.ID, req.Role)

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) GetAllStaff(ctx context.Context) (*dto.UserListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionUserCreate) {
		return nil, ErrForbidden
	}

	users, err := u.userRepo.FindStaff(ctx, u.tx.DB(ctx), p.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to find staff users: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: len(users),
	}, nil
}
