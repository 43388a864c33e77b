package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/valetnat/e-commerce/internal/config"
	"github.com/valetnat/e-commerce/internal/db"
	"github.com/valetnat/e-commerce/internal/gateway"
	"github.com/valetnat/e-commerce/internal/httpserver"
	catalogrepo "github.com/valetnat/e-commerce/internal/repository/catalog"
	orderrepo "github.com/valetnat/e-commerce/internal/repository/order"
	promotionrepo "github.com/valetnat/e-commerce/internal/repository/promotion"
	checkoutsvc "github.com/valetnat/e-commerce/internal/service/checkout"
	pricingsvc "github.com/valetnat/e-commerce/internal/service/pricing"
	settlementsvc "github.com/valetnat/e-commerce/internal/service/settlement"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	promotionRepo := promotionrepo.NewPostgres(dbpool, logger)
	catalogRepo := catalogrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	pricingService := pricingsvc.New(promotionRepo, catalogRepo, logger)
	checkoutService := checkoutsvc.New(orderRepo, catalogRepo, pricingService, logger)

	gatewayClient := settlementsvc.NewClient(http.DefaultClient, cfg.PayPath)
	coordinator := settlementsvc.NewCoordinator(orderRepo, gatewayClient, cfg.SettleQueueSize, cfg.SettleDelay, logger)
	settlementService := settlementsvc.New(orderRepo, coordinator, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CheckoutSvc:   checkoutService,
		PricingSvc:    pricingService,
		SettlementSvc: settlementService,
		Gateway:       gateway.NewHandler(nil, logger),
		PayPath:       cfg.PayPath,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
	coordinator.Wait()
}
