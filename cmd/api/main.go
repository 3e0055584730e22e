package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/helixdesk/helixdesk/internal/advisor"
	httptransport "github.com/helixdesk/helixdesk/internal/api/http"
	"github.com/helixdesk/helixdesk/internal/api/http/handlers"
	"github.com/helixdesk/helixdesk/internal/auth"
	"github.com/helixdesk/helixdesk/internal/config"
	"github.com/helixdesk/helixdesk/internal/events"
	"github.com/helixdesk/helixdesk/internal/observability"
	"github.com/helixdesk/helixdesk/internal/persistence"
	"github.com/helixdesk/helixdesk/internal/repository"
	"github.com/helixdesk/helixdesk/internal/service"
	"github.com/helixdesk/helixdesk/internal/store"
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
	userRepo := repository.NewUserRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	snapshot := store.New()
	syncer := store.NewSyncer(snapshot, ticketRepo, userRepo, redis, logger)
	if err := syncer.ReloadAll(ctx); err != nil {
		logger.Warn("initial snapshot load failed", zap.Error(err))
	}
	syncer.RegisterNotifier(dispatcher)
	go syncer.Run(ctx)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	adv := advisor.New(cfg.Advisor, logger)

	workflowService := service.NewWorkflowService(service.WorkflowDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		Snapshot:   snapshot,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Advisor:    adv,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		TicketRepo: ticketRepo,
		UserRepo:   userRepo,
		Snapshot:   snapshot,
		Dispatcher: dispatcher,
		Metrics:    metrics,
	})
	viewService := service.NewViewService(snapshot)
	authService := service.NewAuthService(userRepo, tokenManager)
	userService := service.NewUserService(userRepo, snapshot, dispatcher, cfg.Auth.BcryptCost)

	authMiddleware := auth.NewAuthMiddleware(tokenManager, userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Tickets:        handlers.NewTicketsHandler(workflowService, viewService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Views:          handlers.NewViewsHandler(viewService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
