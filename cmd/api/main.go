package main

import (
	"context"
	"errors"
	"fmt"
	"food-marketplace/internal/client"
	"food-marketplace/internal/config"
	"food-marketplace/internal/lock"
	"food-marketplace/internal/logger"
	"food-marketplace/internal/repository"
	"food-marketplace/internal/server"
	"food-marketplace/internal/service"
	"food-marketplace/internal/telemetry"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, logger.Options{Service: cfg.Telemetry.ServiceName, Env: cfg.Environment.Name})

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}

	db, err := client.InitDBClient(cfg.Database, log)
	if err != nil {
		return err
	}

	var locker lock.Locker
	if cfg.Redis.URL != "" {
		redisClient, err := lock.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient, "marketplace:lock",
			time.Duration(cfg.Redis.LockTTL)*time.Millisecond, log)
		log.Info("using redis cart locks")
	} else {
		locker = lock.NewLocalLocker()
	}

	publisher := client.NewEventPublisher(cfg.Kafka)
	defer publisher.Close()

	planner := client.NewWorkoutPlanner(cfg.Gemini)
	if planner == nil {
		log.Info("GEMINI_API_KEY not set, workout plans disabled")
	}

	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	cartService := service.NewCartService(locker, userRepo, itemRepo, cartRepo, log)
	services := server.Services{
		Cart: cartService,
		Checkout: service.NewCheckoutService(
			db,
			locker,
			publisher,
			userRepo,
			itemRepo,
			cartRepo,
			orderRepo,
			idempotencyRepo,
			log,
		),
		Order:     service.NewOrderService(publisher, userRepo, itemRepo, orderRepo, log),
		User:      service.NewUserService(userRepo, itemRepo, cartService, log),
		Item:      service.NewItemService(itemRepo, log),
		Nutrition: service.NewNutritionService(planner, userRepo, itemRepo, orderRepo, log),
	}

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(services, log)

	errCh := make(chan error, 1)
	log.Info("starting HTTP server", "addr", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("signal received, starting graceful shutdown")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("flush traces", "error", err)
	}
	return nil
}
