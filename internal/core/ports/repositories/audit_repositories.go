package repositories

import (
	"context"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
)

// AuditRepository defines persistence operations for audit log entries.
type AuditRepository interface {
	SaveAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, entityType string, entityID int64, limit, offset int) ([]domain.AuditLog, error)
}
