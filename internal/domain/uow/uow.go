package uow

import (
	"context"

	"lendops-backend/internal/domain/commission"
	"lendops-backend/internal/domain/contract"
	"lendops-backend/internal/domain/service"
	"lendops-backend/internal/domain/wallet"
	"lendops-backend/internal/domain/workflow"
)

// Repos bundles every repository bound to one transaction.
type Repos struct {
	Workflows   workflow.Repository
	Services    service.Repository
	Contracts   contract.Repository
	Wallets     wallet.Repository
	Commissions commission.Repository
}

// UnitOfWork runs fn inside one atomic, all-or-nothing database
// transaction. Every multi-row mutation in the system goes through here.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinContractTx locks the contract row first, then passes it in.
	WithinContractTx(ctx context.Context, contractID uint64, fn func(r Repos, c *contract.Contract) error) error
}
