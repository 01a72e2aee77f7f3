package mysql

import (
	"testing"

	"lendops-backend/internal/domain/commission"
	"lendops-backend/internal/domain/contract"
	"lendops-backend/internal/domain/service"
	"lendops-backend/internal/domain/wallet"
	"lendops-backend/internal/domain/workflow"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the full schema. The domain
// models avoid MySQL-only column types so they migrate cleanly on sqlite.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&workflow.Workflow{}, &workflow.Stage{}, &workflow.Transition{},
		&service.Service{}, &service.DocumentRequirement{}, &service.Question{},
		&contract.Contract{}, &contract.Document{}, &contract.File{},
		&contract.Answer{}, &contract.StageHistory{},
		&wallet.Wallet{}, &wallet.Transaction{},
		&commission.Record{}, &commission.Snapshot{}, &commission.KpiTier{}, &commission.Config{},
		&auditLog{}, &systemConfig{},
		&userRow{}, &userRoleRow{}, &rolePermissionRow{},
	)
	if err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
