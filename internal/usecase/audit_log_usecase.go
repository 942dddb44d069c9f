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
)

var (
	ErrAuditLogNotFound = errors.New("audit log not found")
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, action string, page, limit int) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	tx           repository.Transactor
	log          *logrus.Logger
	policy       service.AccessPolicy
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	policy service.AccessPolicy,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		tx:           tx,
		log:          log,
		policy:       policy,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, action string, page, limit int) (*dto.AuditLogListResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionAuditRead) {
		return nil, ErrForbidden
	}

	page, limit = normalizePage(page, limit)
	logs, total, err := u.auditLogRepo.FindAll(ctx, u.tx.DB(ctx), entity.AuditLogFilter{
		ClinicID: p.ClinicID,
		Action:   action,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(p.Role, service.ActionAuditRead) {
		return nil, ErrForbidden
	}

	auditLog, err := u.auditLogRepo.FindByID(ctx, u.tx.DB(ctx), p.ClinicID, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
