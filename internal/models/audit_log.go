package models

import "time"

// AuditLog is the audit_logs table row.
type AuditLog struct {
	AuditLogID int64     `db:"audit_log_id"`
	UserID     string    `db:"user_id"`
	Action     string    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   int64     `db:"entity_id"`
	Details    string    `db:"details"`
	CreatedAt  time.Time `db:"created_at"`
}
