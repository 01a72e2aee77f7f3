// Package sysconfig reads admin-managed key/value settings.
package sysconfig

import "context"

// Keys the scheduler consumes.
const (
	KeySnapshotDay          = "commission_snapshot_day"
	KeyKpiEvaluationEnabled = "kpi_evaluation_enabled"
)

type Store interface {
	// GetInt returns the integer value for key, or def when unset/invalid.
	GetInt(ctx context.Context, key string, def int) int
	// GetBool returns the boolean value for key, or def when unset/invalid.
	GetBool(ctx context.Context, key string, def bool) bool
}
