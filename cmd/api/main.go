package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/hydrotek/service-desk/internal/api/http"
	"github.com/hydrotek/service-desk/internal/api/http/handlers"
	"github.com/hydrotek/service-desk/internal/auth"
	"github.com/hydrotek/service-desk/internal/cache"
	"github.com/hydrotek/service-desk/internal/config"
	"github.com/hydrotek/service-desk/internal/events"
	"github.com/hydrotek/service-desk/internal/observability"
	"github.com/hydrotek/service-desk/internal/persistence"
	"github.com/hydrotek/service-desk/internal/repository"
	"github.com/hydrotek/service-desk/internal/service"
	"github.com/hydrotek/service-desk/internal/session"
	"github.com/hydrotek/service-desk/internal/storage"
	"github.com/hydrotek/service-desk/internal/ticket"
	"github.com/hydrotek/service-desk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	changeRepo := repository.NewStatusChangeRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	caches := cache.New(redis.Client, logger)
	sessions := session.NewRegistry()
	dispatcher := events.NewInMemoryDispatcher()
	objectStore := storage.NewHTTPStore(cfg.Storage, logger)

	numbering := ticket.NewNumberingService(ticketRepo, caches, logger)
	validator := ticket.NewValidator(cfg.Submit.RequireAttachmentSerial)

	authService := service.NewAuthService(cfg.Auth, userRepo, sessions, logger)
	submissionService := service.NewSubmissionService(service.SubmissionDependencies{
		TicketRepo: ticketRepo,
		Store:      objectStore,
		Dispatcher: dispatcher,
		Sessions:   sessions,
		Numbering:  numbering,
		Validator:  validator,
		ListCache:  caches,
		Logger:     logger,
	})
	triageService := service.NewTriageService(service.TriageDependencies{
		TicketRepo: ticketRepo,
		ChangeRepo: changeRepo,
		Dispatcher: dispatcher,
		ListCache:  caches,
		Logger:     logger,
	})
	queryService := service.NewQueryService(ticketRepo, caches, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notificationService, sessions)

	authMiddleware := auth.NewMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: ticket.MaxFiles * ticket.MaxFileSize,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(submissionService, queryService, numbering, logger),
		StaffTickets:   handlers.NewStaffTicketsHandler(queryService, triageService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
