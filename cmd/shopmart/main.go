package main

import (
	"context"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopmart/shopmart/config"
	"github.com/shopmart/shopmart/internal/auth"
	"github.com/shopmart/shopmart/internal/gateway"
	handler "github.com/shopmart/shopmart/internal/handler/http"
	"github.com/shopmart/shopmart/internal/logger"
	"github.com/shopmart/shopmart/internal/repository"
	"github.com/shopmart/shopmart/internal/repository/postgres"
	"github.com/shopmart/shopmart/internal/service"
	"github.com/shopmart/shopmart/internal/worker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const authTokenKey = "9c1185a5c5e9fc54612808977ee8f548"

const shutdownTimeout = 5 * time.Second

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context cancelled on shutdown signals
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKey, err := hex.DecodeString(authTokenKey)
	if err != nil {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	// dependency injection
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	cartRepo := repository.NewCartRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	gatewayClient := gateway.NewClient(cfg.GatewayAddr)

	// checkout
	checkoutService := service.NewCheckoutService(orderRepo, paymentRepo, addressRepo, cartRepo)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)

	// order
	orderService := service.NewOrderService(orderRepo, notificationRepo)
	orderHandler := handler.NewOrderHandler(orderService)

	// settlement
	settlementService := service.NewSettlementService(orderRepo, paymentRepo, gatewayClient)
	settlementProcessor := worker.NewSettlementProcessor(settlementService)

	router := chi.NewRouter()

	router.Use(handler.Logging(logger.Log))

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))
		group.Post("/api/user/checkout/complete", checkoutHandler.CompleteCheckout())
		group.Get("/api/user/orders", orderHandler.ListUserOrders())
		group.Get("/api/user/orders/{orderID}", orderHandler.GetUserOrder())
		group.Post("/api/user/orders/{orderID}/cancel", orderHandler.CancelUserOrder())
		group.Get("/api/vendor/orders", orderHandler.ListVendorOrders())
		group.Get("/api/vendor/orders/{orderID}/transitions", orderHandler.VendorOrderTransitions())
		group.Post("/api/vendor/orders/{orderID}/status", orderHandler.UpdateVendorOrderStatus())
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		settlementProcessor.ProcessSettlements(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Log.Fatal("Error running server", zap.Error(err))
	}
}
