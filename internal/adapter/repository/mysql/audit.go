package mysql

import (
	"context"
	"encoding/json"
	"time"

	"lendops-backend/internal/domain/audit"

	"gorm.io/gorm"
)

type auditLog struct {
	ID         uint64    `gorm:"primaryKey;column:id"`
	UserID     uint64    `gorm:"not null;index;column:user_id"`
	Action     string    `gorm:"size:120;not null;index;column:action"`
	TargetType string    `gorm:"size:60;column:target_type"`
	TargetID   string    `gorm:"size:64;index;column:target_id"`
	Metadata   string    `gorm:"type:json;column:metadata"`
	CreatedAt  time.Time `gorm:"autoCreateTime;column:created_at"`
}

func (auditLog) TableName() string { return "audit_logs" }

// AuditRepository appends audit entries to the audit_logs table. Rows are
// append-only; nothing in this service updates or deletes them.
type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Log(ctx context.Context, e audit.Entry) error {
	row := auditLog{
		UserID:     e.UserID,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
	}
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		row.Metadata = string(b)
	}
	return r.db.WithContext(ctx).Create(&row).Error
}
