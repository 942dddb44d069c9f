package usecase

import (
	"context"
	"errors"

	"github.com/Ouerghi23/Medflow/internal/converter"
	"github.com/Ouerghi23/Medflow/internal/delivery/dto"
	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	"github.com/Ouerghi23/Medflow/internal/domain/repository"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/cache"
	"github.com/Ouerghi23/Medflow/internal/service"
	"github.com/Ouerghi23/Medflow/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthUsecase interface {
	RegisterClinic(ctx context.Context, req *dto.RegisterClinicRequest) (*dto.RegisterClinicResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
	// ParseRefreshToken returns the token id of a valid refresh token, used by logout.
	ParseRefreshToken(refreshToken string) (string, error)
}

type authUsecase struct {
	tx         repository.Transactor
	log        *logrus.Logger
	clinicRepo repository.ClinicRepository
	userRepo   repository.UserRepository
	audit      service.AuditService
	jwtService *jwt.JWTService
	tokens     cache.TokenStore
}

func NewAuthUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	clinicRepo repository.ClinicRepository,
	userRepo repository.UserRepository,
	audit service.AuditService,
	jwtService *jwt.JWTService,
	tokens cache.TokenStore,
) AuthUsecase {
	return &authUsecase{
		tx:         tx,
		log:        log,
		clinicRepo: clinicRepo,
		userRepo:   userRepo,
		audit:      audit,
		jwtService: jwtService,
		tokens:     tokens,
	}
}

func (u *authUsecase) RegisterClinic(ctx context.Context, req *dto.RegisterClinicRequest) (*dto.RegisterClinicResponse, error) {
	clinic := &entity.Clinic{
		Name:    req.ClinicName,
		Email:   req.ClinicEmail,
		Phone:   req.ClinicPhone,
		Address: req.ClinicAddress,
	}
	var user *entity.User

	err := u.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.clinicRepo.Create(ctx, tx, clinic); err != nil {
			return err
		}

		var err error
		user, err = createAccount(ctx, tx, u.userRepo, newAccount{
			ClinicID:  clinic.ID,
			RoleID:    entity.RoleIDAdmin,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		})
		if err != nil {
			return err
		}

		actor := service.AuditActor{UserID: &user.ID, ClinicID: &clinic.ID}
		return u.audit.LogCreate(ctx, tx, actor, entity.AuditActionClinicRegister, "clinic", clinic.ID.String(), map[string]interface{}{
			"name":        clinic.Name,
			"admin_email": user.Email,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrEmailAlreadyExists) {
			u.log.Warnf("Failed to register clinic: %+v", err)
		}
		return nil, err
	}

	u.log.Infof("Clinic %s registered with admin %s", clinic.ID, user.ID)

	return &dto.RegisterClinicResponse{
		Clinic: *converter.ClinicToResponse(clinic),
		User:   *converter.UserToResponse(user),
	}, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	db := u.tx.DB(ctx)

	user, err := u.userRepo.FindByEmail(ctx, db, req.Email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	actor := service.AuditActor{UserID: &user.ID, ClinicID: &user.ClinicID}
	if err := u.audit.LogCreate(ctx, db, actor, entity.AuditActionUserLogin, "user", user.ID.String(), nil); err != nil {
		u.log.Warnf("Failed to audit login: %+v", err)
	}

	return tokens, nil
}

func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	if err := u.tokens.RevokeAccess(ctx, userID, accessTokenID); err != nil {
		u.log.Warnf("Failed to revoke access token: %+v", err)
		return err
	}

	if refreshTokenID != "" {
		if err := u.tokens.RevokeRefresh(ctx, userID, refreshTokenID); err != nil {
			u.log.Warnf("Failed to revoke refresh token: %+v", err)
			return err
		}
	}

	if p, err := principalFrom(ctx); err == nil {
		actor := service.ActorOf(p)
		if err := u.audit.LogCreate(ctx, u.tx.DB(ctx), actor, entity.AuditActionUserLogout, "user", userID.String(), nil); err != nil {
			u.log.Warnf("Failed to audit logout: %+v", err)
		}
	}

	return nil
}

func (u *authUsecase) ParseRefreshToken(refreshToken string) (string, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return "", ErrInvalidToken
	}
	return claims.TokenID, nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokens.RefreshExists(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Rotate: the presented refresh token is single use.
	if err := u.tokens.RevokeRefresh(ctx, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, u.tx.DB(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.tx.DB(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) RegisterDeviceToken(ctx context.Context, userID uuid.UUID, token string) error {
	if err := u.userRepo.UpdateDeviceToken(ctx, u.tx.DB(ctx), userID, &token); err != nil {
		u.log.Warnf("Failed to store device token: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	role := user.Role.RoleName
	if role == "" {
		role = entity.RoleNameByID(user.RoleID)
	}
	sub := jwt.Subject{
		UserID:   user.ID,
		ClinicID: user.ClinicID,
		Role:     role,
		Email:    user.Email,
	}

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokens.StoreAccess(ctx, user.ID, accessTokenID, u.jwtService.AccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.tokens.StoreRefresh(ctx, user.ID, refreshTokenID, u.jwtService.RefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.AccessExpiry().Seconds()),
	}, nil
}
