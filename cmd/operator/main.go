// Command operator manages operator accounts and mints tokens for the /admin endpoints.
//
//	operator create -email ops@example.com -password '...'
//	operator token -subject ops@example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/octobees/lead-capture/api/internal/auth"
	"github.com/octobees/lead-capture/api/internal/config"
	"github.com/octobees/lead-capture/api/internal/database"
	"github.com/octobees/lead-capture/api/internal/logger"
	"github.com/octobees/lead-capture/api/internal/repository"
	"github.com/octobees/lead-capture/api/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	log := logger.New(os.Stderr, "text", cfg.LogLevel)

	switch os.Args[1] {
	case "create":
		err = runCreate(cfg, log, os.Args[2:])
	case "token":
		err = runToken(cfg, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error("operator command failed", slog.String("command", os.Args[1]), slog.Any("error", err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: operator <create|token> [flags]")
}

func runCreate(cfg *config.Config, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	email := fs.String("email", "", "operator email")
	password := fs.String("password", "", "operator password")
	role := fs.String("role", auth.RoleAdmin, "role claim")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, pool, log); err != nil {
			return err
		}
	}

	authService := service.NewAuthService(repository.NewPGXOperatorsRepository(pool), auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL))
	operator, err := authService.CreateOperator(ctx, *email, *password, *role)
	if err != nil {
		return err
	}
	log.Info("operator created", slog.String("id", operator.ID.String()), slog.String("email", logger.MaskEmail(operator.Email)))
	return nil
}

func runToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	subject := fs.String("subject", "", "operator identifier stored in the token subject")
	role := fs.String("role", auth.RoleAdmin, "role claim")
	ttl := fs.Duration("ttl", 0, "token lifetime (defaults to JWT_TTL)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lifetime := cfg.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	manager := auth.NewJWTManager(cfg.JWTSecret, lifetime)
	token, err := manager.GenerateToken(*subject, *role)
	if err != nil {
		return err
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", time.Now().Add(manager.TTL()).UTC().Format(time.RFC3339))
	return nil
}
