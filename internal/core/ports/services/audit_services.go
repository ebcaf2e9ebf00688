package services

import (
	"context"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
)

// AuditSvcFacade records and lists audit trail entries. Record is
// best-effort: failures are logged, never propagated to the caller.
type AuditSvcFacade interface {
	Record(ctx context.Context, userID, action, entityType string, entityID int64, details string)
	ListByEntity(ctx context.Context, entityType string, entityID int64, limit, offset int) ([]domain.AuditLog, error)
}
