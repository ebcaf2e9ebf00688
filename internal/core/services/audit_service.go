package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	portsrepo "github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	portssvc "github.com/atlas-voyages/accounting-backend/internal/core/ports/services"
)

// auditService writes the audit trail. Recording is best-effort: a failed
// write is logged and swallowed so it can never fail a business operation.
type auditService struct {
	BaseService
	auditRepo portsrepo.AuditRepository
}

// NewAuditService creates a new audit service.
func NewAuditService(auditRepo portsrepo.AuditRepository) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Record(ctx context.Context, userID, action, entityType string, entityID int64, details string) {
	entry := domain.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := s.auditRepo.SaveAuditLog(ctx, entry); err != nil {
		s.LogWarn(ctx, "Failed to write audit log",
			slog.String("action", action),
			slog.String("entity_type", entityType),
			slog.Int64("entity_id", entityID),
			slog.String("error", err.Error()))
	}
}

func (s *auditService) ListByEntity(ctx context.Context, entityType string, entityID int64, limit, offset int) ([]domain.AuditLog, error) {
	return s.auditRepo.ListAuditLogs(ctx, entityType, entityID, limit, offset)
}
