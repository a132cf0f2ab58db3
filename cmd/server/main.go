package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	affiliateapp "github.com/keepselvesreal/k-beauty-landing-page/internal/application/affiliate"
	catalogapp "github.com/keepselvesreal/k-beauty-landing-page/internal/application/catalog"
	fulfillmentapp "github.com/keepselvesreal/k-beauty-landing-page/internal/application/fulfillment"
	notificationapp "github.com/keepselvesreal/k-beauty-landing-page/internal/application/notification"
	orderapp "github.com/keepselvesreal/k-beauty-landing-page/internal/application/order"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared/valueobject"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/infrastructure/config"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/infrastructure/event"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/infrastructure/logger"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/infrastructure/notification"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/infrastructure/payment"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/infrastructure/persistence"
	httpiface "github.com/keepselvesreal/k-beauty-landing-page/internal/interfaces/http"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/interfaces/http/handler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	rateRepo := persistence.NewGormShippingRateRepository(db.DB)
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	ledger := persistence.NewGormInventoryLedger(db.DB)
	affiliateRepo := persistence.NewGormAffiliateRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRepository(db.DB)
	allocationRepo := persistence.NewGormShipmentAllocationRepository(db.DB)
	payoutRepo := persistence.NewGormCommissionPayoutRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	commissionService := affiliateapp.NewCommissionService(commissionRepo, log,
		affiliateapp.WithCommissionRate(cfg.Commission.Rate),
		affiliateapp.WithProfitPerOrder(valueobject.NewMoneyPHP(cfg.Commission.ProfitPerOrder)),
	)
	eventBus.Subscribe(affiliateapp.NewOrderAllocatedHandler(commissionService, log))

	if cfg.Email.Enabled {
		eventBus.Subscribe(notificationapp.NewOrderEmailHandler(notification.NewLogSender(log), log))
	}

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	allocationService := fulfillmentapp.NewAllocationService(txScope, eventBus, log,
		fulfillmentapp.WithMaxDecrementRetries(cfg.Allocation.MaxDecrementRetries),
		fulfillmentapp.WithShippingCommissionPerUnit(cfg.Commission.ShippingPerUnit),
	)
	shipmentService := fulfillmentapp.NewShipmentService(txScope, eventBus, log)
	inventoryService := fulfillmentapp.NewInventoryService(partnerRepo, ledger, eventBus, log)
	payoutService := fulfillmentapp.NewPayoutService(allocationRepo, payoutRepo, partnerRepo, log)
	productService := catalogapp.NewProductService(productRepo, log)
	gateway := payment.NewPayPalGateway(cfg.Payment, log)
	orderService := orderapp.NewOrderService(
		orderRepo, productRepo, rateRepo, affiliateRepo, ledger,
		gateway, allocationService, eventBus, log,
	)

	engine := httpiface.NewRouter(*cfg, log, httpiface.Handlers{
		Orders:     handler.NewOrderHandler(orderService),
		Shipments:  handler.NewShipmentHandler(shipmentService),
		Inventory:  handler.NewInventoryHandler(inventoryService),
		Products:   handler.NewProductHandler(productService),
		Affiliates: handler.NewAffiliateHandler(affiliateRepo, commissionService),
		Payouts:    handler.NewPayoutHandler(payoutService),
	}, db)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
