package mysql

import (
	"context"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"
)

type systemConfig struct {
	Key       string    `gorm:"primaryKey;size:120;column:config_key"`
	Value     string    `gorm:"size:255;not null;column:config_value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (systemConfig) TableName() string { return "system_configs" }

// SysConfigStore reads admin-managed settings from the system_configs table.
// Lookup failures fall back to the caller's default so a missing row or an
// unreachable database never breaks the consumer.
type SysConfigStore struct{ db *gorm.DB }

func NewSysConfigStore(db *gorm.DB) *SysConfigStore { return &SysConfigStore{db: db} }

func (s *SysConfigStore) get(ctx context.Context, key string) (string, bool) {
	var row systemConfig
	err := s.db.WithContext(ctx).First(&row, "config_key = ?", key).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("sysconfig: read %q failed: %v", key, err)
		}
		return "", false
	}
	return row.Value, true
}

func (s *SysConfigStore) GetInt(ctx context.Context, key string, def int) int {
	v, ok := s.get(ctx, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s *SysConfigStore) GetBool(ctx context.Context, key string, def bool) bool {
	v, ok := s.get(ctx, key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
