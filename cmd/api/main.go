package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/octobees/lead-capture/api/internal/auth"
	"github.com/octobees/lead-capture/api/internal/config"
	"github.com/octobees/lead-capture/api/internal/database"
	"github.com/octobees/lead-capture/api/internal/email"
	"github.com/octobees/lead-capture/api/internal/handler"
	"github.com/octobees/lead-capture/api/internal/logger"
	"github.com/octobees/lead-capture/api/internal/metrics"
	middlewarepkg "github.com/octobees/lead-capture/api/internal/middleware"
	"github.com/octobees/lead-capture/api/internal/repository"
	"github.com/octobees/lead-capture/api/internal/router"
	"github.com/octobees/lead-capture/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, pool, log); err != nil {
			log.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	sender, err := newSender(cfg.Email, log)
	if err != nil {
		log.Error("failed to configure email sender", slog.Any("error", err))
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	leadsRepo := repository.NewPGXLeadsRepository(pool)
	operatorsRepo := repository.NewPGXOperatorsRepository(pool)
	generator := service.NewContentGenerator(service.GeneratorConfig{
		APIURL:     cfg.AI.APIURL,
		APIKey:     cfg.AI.APIKey,
		Model:      cfg.AI.Model,
		HTTPClient: &http.Client{Timeout: cfg.AI.Timeout},
	})
	if cfg.AI.APIKey == "" {
		log.Warn("AI_API_KEY not set, confirmation emails use fallback content")
	}
	dispatcher := service.NewEmailDispatcher(sender, cfg.Email.Subject)

	submissions := service.NewSubmissionService(leadsRepo, generator, dispatcher, log,
		service.WithGenerateTimeout(cfg.AI.Timeout),
		service.WithSendTimeout(cfg.Email.Timeout),
		service.WithMetrics(m),
	)
	leadsService := service.NewLeadsService(leadsRepo)
	authService := service.NewAuthService(operatorsRepo, jwtManager)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(log))
	e.Use(echoMiddleware.Recover())

	router.Register(e, jwtManager, reg, router.Handlers{
		Health: handler.NewHealthHandler(pool),
		Auth:   handler.NewAuthHandler(authService),
		Leads:  handler.NewLeadsHandler(submissions, leadsService, log),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("port", cfg.Port))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", slog.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.Any("error", err))
	}
}

func newSender(cfg config.EmailConfig, log *slog.Logger) (email.Sender, error) {
	if cfg.PostmarkServerToken == "" {
		log.Warn("POSTMARK_SERVER_TOKEN not set, writing emails to disk", slog.String("dir", cfg.DevDir))
		return email.NewDevSender(cfg.DevDir), nil
	}
	return email.NewPostmarkSender(email.PostmarkConfig{
		ServerToken:  cfg.PostmarkServerToken,
		AccountToken: cfg.PostmarkAccountToken,
		From:         cfg.Sender,
		ReplyTo:      cfg.ReplyTo,
	}, &http.Client{Timeout: cfg.Timeout})
}
