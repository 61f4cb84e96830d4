package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/resolvenow/complaint-service/internal/api/http"
	"github.com/resolvenow/complaint-service/internal/api/http/handlers"
	"github.com/resolvenow/complaint-service/internal/auth"
	"github.com/resolvenow/complaint-service/internal/config"
	"github.com/resolvenow/complaint-service/internal/events"
	"github.com/resolvenow/complaint-service/internal/observability"
	"github.com/resolvenow/complaint-service/internal/persistence"
	"github.com/resolvenow/complaint-service/internal/repository"
	"github.com/resolvenow/complaint-service/internal/repository/memory"
	"github.com/resolvenow/complaint-service/internal/service"
	"github.com/resolvenow/complaint-service/internal/worker"
	"github.com/resolvenow/complaint-service/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dependencies := map[string]handlers.Pinger{}

	var (
		userRepo      repository.UserRepository
		complaintRepo repository.ComplaintRepository
	)
	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, cfg.Postgres.DSN, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		pool := pg.PoolHandle()
		userRepo = repository.NewUserRepository(pool)
		complaintRepo = repository.NewComplaintRepository(pool)
		dependencies["postgres"] = pg
	default:
		logger.Info("using in-memory storage")
		userRepo = memory.NewUserStore()
		complaintRepo = memory.NewComplaintStore()
	}

	var revocations auth.RevocationStore
	if rdb := persistence.NewRedis(cfg.Redis, logger); rdb != nil {
		defer rdb.Close()
		revocations = auth.NewRedisRevocationStore(rdb.Client)
		dependencies["redis"] = rdb
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification), logger)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:    userRepo,
		Revocations: revocations,
		Logger:      logger,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaintRepo,
		UserRepo:      userRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})

	if cfg.Storage.Seed {
		if err := service.NewSeeder(authService, complaintRepo, logger).Run(ctx); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	v := validator.NewValidator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies, metrics),
		Auth:           handlers.NewAuthHandler(authService, v),
		Complaints:     handlers.NewComplaintsHandler(complaintService, v),
		AuthMiddleware: auth.NewAuthMiddleware(authService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
