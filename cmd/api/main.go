package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/kiwiclean/housewash-platform/internal/api/router"
	"github.com/kiwiclean/housewash-platform/internal/catalog"
	"github.com/kiwiclean/housewash-platform/internal/cities"
	appconfig "github.com/kiwiclean/housewash-platform/internal/config"
	"github.com/kiwiclean/housewash-platform/internal/crm"
	"github.com/kiwiclean/housewash-platform/internal/leads"
	"github.com/kiwiclean/housewash-platform/internal/notify"
	"github.com/kiwiclean/housewash-platform/internal/observability/metrics"
	"github.com/kiwiclean/housewash-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting housewash-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	sqlDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open sql db", "error", err)
		os.Exit(1)
	}
	defer func() { _ = sqlDB.Close() }()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
		defer func() { _ = redisClient.Close() }()
	}

	leadMetrics := metrics.NewLeadMetrics(nil)

	catalogRepo := catalog.NewRepository(sqlDB)
	var catalogCache *catalog.Cache
	if redisClient != nil {
		catalogCache = catalog.NewCache(catalogRepo, redisClient, cfg.CatalogCacheTTL, logger)
	} else {
		catalogCache = catalog.NewCache(catalogRepo, nil, cfg.CatalogCacheTTL, logger)
	}

	emailSender := buildEmailSender(ctx, cfg, logger)
	dispatcher := notify.NewDispatcher(emailSender, cfg.NotifyEmail, leadMetrics, logger)

	leadsRepo := leads.NewPostgresRepository(pool)
	leadsHandler := leads.NewHandler(leadsRepo, catalogCache, dispatcher, leadMetrics, logger)

	catalogHandler := catalog.NewHandler(catalogRepo, catalogCache, logger)

	citiesRepo := cities.NewRepository(pool)
	citiesHandler := cities.NewHandler(citiesRepo, logger)

	crmClient := crm.NewClient(cfg.CRMAPIURL, cfg.CRMAPIKey, logger)
	crmStore := crm.NewSyncStore(pool)
	crmHandler := crm.NewHandler(crmClient, crmStore, leadMetrics, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leadsHandler,
		CatalogHandler:     catalogHandler,
		CitiesHandler:      citiesHandler,
		CRMHandler:         crmHandler,
		MetricsHandler:     promhttp.Handler(),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config, falling back to stub sender", "error", err)
			return notify.NewStubEmailSender(logger)
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			return notify.NewStubEmailSender(logger)
		}
		return sender
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			logger.Warn("sendgrid not configured, using stub sender")
			return notify.NewStubEmailSender(logger)
		}
		return sender
	default:
		return notify.NewStubEmailSender(logger)
	}
}
