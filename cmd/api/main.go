package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "lendops-backend/internal/adapter/http"
	appmw "lendops-backend/internal/adapter/middleware"
	"lendops-backend/internal/adapter/repository/mysql"
	storageadp "lendops-backend/internal/adapter/storage"
	"lendops-backend/internal/config"
	"lendops-backend/internal/infrastructure/cache"
	"lendops-backend/internal/infrastructure/db"
	"lendops-backend/internal/scheduler"
	commissionuc "lendops-backend/internal/usecase/commission"
	contractuc "lendops-backend/internal/usecase/contract"
	walletuc "lendops-backend/internal/usecase/wallet"
	workflowuc "lendops-backend/internal/usecase/workflow"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := mysql.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	store, err := storageadp.NewLocal(cfg.StorageDir, cfg.StorageBaseURL)
	if err != nil {
		log.Fatal(err)
	}

	// repositories
	workflowRepo := mysql.NewWorkflowRepository(gdb)
	serviceRepo := mysql.NewServiceRepository(gdb)
	contractRepo := mysql.NewContractRepository(gdb)
	walletRepo := mysql.NewWalletRepository(gdb)
	commissionRepo := mysql.NewCommissionRepository(gdb)
	identityRepo := mysql.NewIdentityRepository(gdb)
	auditRepo := mysql.NewAuditRepository(gdb)
	syscfg := mysql.NewSysConfigStore(gdb)
	txm := mysql.NewGormUoW(gdb)

	// usecases
	workflows := workflowuc.NewUsecase(workflowRepo, contractRepo, identityRepo, txm)
	wallets := walletuc.NewUsecase(walletRepo, txm)
	commissions := commissionuc.NewUsecase(commissionRepo, contractRepo, identityRepo, identityRepo, syscfg, txm, rdb)
	contracts := contractuc.NewUsecase(contractRepo, serviceRepo, workflowRepo, workflows, commissions, identityRepo, store, auditRepo, txm)

	batch := scheduler.New(commissions, commissionRepo, syscfg, auditRepo)
	go runDailySweep(batch)

	h := httpadp.NewHandler(
		httpadp.NewWorkflowHandler(workflows),
		httpadp.NewContractHandler(contracts),
		httpadp.NewWalletHandler(wallets),
		httpadp.NewCommissionHandler(commissions, batch),
	)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idem := appmw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)
	h.Register(e, idem)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// runDailySweep checks once a day whether the monthly snapshot batch is due.
// The scheduler itself decides; off-days are no-ops.
func runDailySweep(batch *scheduler.Scheduler) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		if res, err := batch.RunDaily(ctx); err != nil {
			log.Printf("snapshot sweep failed: %v", err)
		} else if res != nil {
			log.Printf("snapshot sweep %s: %d users, %d failed", res.BatchID, res.Total, res.Failed)
		}
		cancel()
		<-ticker.C
	}
}
