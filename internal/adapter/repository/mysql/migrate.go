package mysql

import (
	"lendops-backend/internal/domain/commission"
	"lendops-backend/internal/domain/contract"
	"lendops-backend/internal/domain/service"
	"lendops-backend/internal/domain/wallet"
	"lendops-backend/internal/domain/workflow"

	"gorm.io/gorm"
)

// Migrate creates or updates every table this service owns. The identity
// tables (users, roles) belong to the identity service and are not touched.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&workflow.Workflow{}, &workflow.Stage{}, &workflow.Transition{},
		&service.Service{}, &service.DocumentRequirement{}, &service.Question{},
		&contract.Contract{}, &contract.Document{}, &contract.File{},
		&contract.Answer{}, &contract.StageHistory{},
		&wallet.Wallet{}, &wallet.Transaction{},
		&commission.Record{}, &commission.Snapshot{}, &commission.KpiTier{}, &commission.Config{},
		&auditLog{}, &systemConfig{},
	)
}
