package main

import (
	"context"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "emipay-backend/internal/adapter/http"
	"emipay-backend/internal/adapter/ledger/evm"
	"emipay-backend/internal/adapter/ledger/memory"
	"emipay-backend/internal/adapter/middleware"
	"emipay-backend/internal/adapter/repository/mysql"
	"emipay-backend/internal/config"
	"emipay-backend/internal/domain/ledger"
	"emipay-backend/internal/domain/payment"
	"emipay-backend/internal/domain/request"
	"emipay-backend/internal/infrastructure/cache"
	"emipay-backend/internal/infrastructure/chain"
	"emipay-backend/internal/infrastructure/db"
	"emipay-backend/internal/keeper"
	agreementUC "emipay-backend/internal/usecase/agreement"
	paymentUC "emipay-backend/internal/usecase/payment"
	reportUC "emipay-backend/internal/usecase/report"
	requestUC "emipay-backend/internal/usecase/request"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(&payment.Record{}, &request.PendingRequest{}, &mysql.WalletRow{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	gw, tokenAddr := openLedger(cfg)

	wallets := mysql.NewWalletRepository(gdb)
	payments := mysql.NewPaymentRepository(gdb)
	requests := mysql.NewRequestRepository(gdb)

	agreements := agreementUC.NewUsecase(gw, wallets, payments, requests, tokenAddr)
	installments := paymentUC.NewUsecase(gw, wallets, payments)
	reports := reportUC.NewUsecase(gw, payments)
	buyRequests := requestUC.NewUsecase(requests)

	if cfg.KeeperSchedule != "" {
		k := keeper.New(installments, payments)
		if err := k.Start(cfg.KeeperSchedule); err != nil {
			log.Fatalf("keeper: %v", err)
		}
		defer k.Stop()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)
	httpadp.Register(e,
		httpadp.NewHandler(),
		httpadp.NewAgreementHandler(agreements),
		httpadp.NewPaymentHandler(installments),
		httpadp.NewReportHandler(reports),
		httpadp.NewRequestHandler(buyRequests),
		idemp,
	)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// openLedger picks the settlement backend: a real node when configured,
// otherwise the in-process ledger for local development.
func openLedger(cfg *config.Config) (ledger.Gateway, common.Address) {
	if !cfg.OnChain() {
		log.Println("ledger: CHAIN_RPC_URL not set, using in-process ledger")
		l := memory.New(common.HexToAddress("0x0000000000000000000000000000000000001000"))
		return l, common.Address{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	client, chainID, err := chain.Dial(ctx, cfg.ChainRPCURL, cfg.ChainID)
	if err != nil {
		log.Fatalf("chain: %v", err)
	}

	tokenAddr := common.HexToAddress(cfg.TokenAddress)
	managerAddr := common.HexToAddress(cfg.ManagerAddress)
	gw, err := evm.New(client, chainID, tokenAddr, managerAddr, cfg.ConfirmTimeout)
	if err != nil {
		log.Fatalf("evm gateway: %v", err)
	}
	return gw, tokenAddr
}
