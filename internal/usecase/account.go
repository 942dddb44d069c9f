package usecase

import (
	"context"
	"errors"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	"github.com/Ouerghi23/Medflow/internal/domain/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrRoleNotFound       = errors.New("role not found")
)

type newAccount struct {
	ClinicID  uuid.UUID
	RoleID    int
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// createAccount hashes the password and inserts the user with tx.
func createAccount(ctx context.Context, tx *gorm.DB, userRepo repository.UserRepository, in newAccount) (*entity.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ClinicID:  in.ClinicID,
		RoleID:    in.RoleID,
		Email:     in.Email,
		Password:  string(hashedPassword),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		IsActive:  true,
	}

	if err := userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	user.Role = entity.Role{ID: in.RoleID, RoleName: entity.RoleNameByID(in.RoleID)}

	return user, nil
}
