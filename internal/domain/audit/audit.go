// Package audit is the write-only sink for audit-log entries. Logging is
// best-effort: a failed write never blocks or reverts the operation that
// produced it.
package audit

import "context"

type Entry struct {
	UserID     uint64
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
}

type Sink interface {
	Log(ctx context.Context, e Entry) error
}
