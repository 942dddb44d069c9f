package service

import (
	"context"

	"github.com/Ouerghi23/Medflow/internal/domain/entity"
	"github.com/Ouerghi23/Medflow/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditActor identifies who made a change and in which clinic.
// UserID is nil for changes driven by the payment processor.
type AuditActor struct {
	UserID   *uuid.UUID
	ClinicID *uuid.UUID
}

// ActorOf builds an AuditActor from an authenticated caller.
func ActorOf(p entity.Principal) AuditActor {
	userID, clinicID := p.UserID, p.ClinicID
	return AuditActor{UserID: &userID, ClinicID: &clinicID}
}

// SystemActor is used for changes made on behalf of a clinic without a user session.
func SystemActor(clinicID uuid.UUID) AuditActor {
	return AuditActor{ClinicID: &clinicID}
}

// AuditService writes audit entries with the caller's transaction handle so
// they commit or roll back together with the change they describe.
type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, actor AuditActor, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, actor AuditActor, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, actor AuditActor, action string, entityName string, entityID string, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actor AuditActor, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(ctx, tx, actor, action, entityName, entityID, nil, newValue)
}

func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, actor AuditActor, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, tx, actor, action, entityName, entityID, oldValue, newValue)
}

func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, actor AuditActor, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.write(ctx, tx, actor, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) write(ctx context.Context, tx *gorm.DB, actor AuditActor, action, entityName, entityID string, oldValue, newValue interface{}) error {
	auditLog := &entity.AuditLog{
		UserID:   actor.UserID,
		ClinicID: actor.ClinicID,
		Action:   action,
		Metadata: entity.AuditMetadata{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
