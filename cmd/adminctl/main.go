package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
)

// adminctl provisions administrator accounts. Admins cannot sign up over HTTP.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var name, email, password string

	flagSet := pflag.NewFlagSet("adminctl", pflag.ContinueOnError)
	flagSet.StringVar(&name, "name", "", "display name")
	flagSet.StringVar(&email, "email", "", "login email")
	flagSet.StringVar(&password, "password", os.Getenv("ADMIN_PASSWORD"), "password, at least 8 characters (default: $ADMIN_PASSWORD)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("POSTGRES_DSN is required")
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		CustomerRepo: repository.NewCustomerRepository(pool),
		AdminRepo:    repository.NewAdminRepository(pool),
		Logger:       logger,
	})

	admin, err := authService.CreateAdmin(ctx, name, email, password)
	if err != nil {
		return err
	}
	logger.Info("admin ready", zap.Int64("admin_id", admin.ID), zap.String("email", admin.Email))
	return nil
}
