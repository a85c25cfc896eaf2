package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-desk/internal/api/http"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
)

type stores struct {
	customers repository.CustomerRepository
	admins    repository.AdminRepository
	tickets   repository.TicketRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
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

	rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer rdb.Close()

	var checks []handlers.DependencyCheck
	var repos stores
	if pool := pg.PoolHandle(); pool != nil {
		repos = stores{
			customers: repository.NewCustomerRepository(pool),
			admins:    repository.NewAdminRepository(pool),
			tickets:   repository.NewTicketRepository(pool),
		}
		checks = append(checks, handlers.DependencyCheck{Name: "postgres", Ping: pg.Ping})
	} else {
		mem := repository.NewMemoryStore()
		repos = stores{customers: mem.Customers(), admins: mem.Admins(), tickets: mem.Tickets()}
	}
	if rdb.Client != nil {
		checks = append(checks, handlers.DependencyCheck{Name: "redis", Ping: rdb.Ping, Optional: true})
	}

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		CustomerRepo: repos.customers,
		AdminRepo:    repos.admins,
		Logger:       logger,
	})
	if cfg.Admin.Enabled() {
		admin, created, err := authService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			logger.Fatal("failed to bootstrap admin", zap.Error(err))
		}
		logger.Info("bootstrap admin ready", zap.Int64("admin_id", admin.ID), zap.Bool("created", created))
	}

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   repos.tickets,
		Logger:       logger,
		DefaultLimit: cfg.HTTP.PaginationDefaultLimit,
	})

	identityCache := auth.NewIdentityCache(rdb.Client, cfg.Redis.IdentityTTL())
	authMiddleware := auth.NewAuthMiddleware(authService.Tokens(), repos.customers, repos.admins, identityCache, logger)

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg.App.Name,
		httptransport.MiddlewareConfig{
			Logger:           logger,
			Metrics:          metrics,
			Timeout:          cfg.App.RequestTimeout(),
			CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
		},
		httptransport.RouteConfig{
			Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, checks...),
			Auth:           handlers.NewAuthHandler(authService),
			Tickets:        handlers.NewTicketsHandler(ticketService),
			AuthMiddleware: authMiddleware,
		},
	)

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
