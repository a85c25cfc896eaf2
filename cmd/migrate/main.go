package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var dsn, command, level, env string

	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.StringVar(&dsn, "dsn", os.Getenv("POSTGRES_DSN"), "postgres connection string (default: $POSTGRES_DSN)")
	flagSet.StringVarP(&command, "command", "c", "up", "one of: up, down, status")
	flagSet.StringVar(&level, "log-level", "info", "log level")
	flagSet.StringVar(&env, "env", os.Getenv("APP_ENV"), "environment name used for log mode (default: $APP_ENV)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if dsn == "" {
		return errors.New("--dsn or POSTGRES_DSN is required")
	}

	logger, err := observability.NewLogger(config.AppConfig{Name: "migrate", Env: env}, config.LoggerConfig{Level: level})
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	provider, closeDB, err := persistence.NewMigrator(pool)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("up: %w", err)
		}
		for _, res := range results {
			logger.Info("applied", zap.String("file", res.Source.Path), zap.Duration("duration", res.Duration))
		}
		logger.Info("up complete", zap.Int("applied", len(results)))
	case "down":
		res, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("down: %w", err)
		}
		logger.Info("rolled back", zap.String("file", res.Source.Path), zap.Duration("duration", res.Duration))
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("status: %w", err)
		}
		for _, st := range statuses {
			fields := []zap.Field{
				zap.Int64("version", st.Source.Version),
				zap.String("file", st.Source.Path),
				zap.String("state", string(st.State)),
			}
			if !st.AppliedAt.IsZero() {
				fields = append(fields, zap.Time("applied_at", st.AppliedAt))
			}
			logger.Info("migration", fields...)
		}
	default:
		return fmt.Errorf("unknown command %q (want up, down or status)", command)
	}
	return nil
}
