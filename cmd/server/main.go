package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/tastehub/api/internal/config"
	"github.com/tastehub/api/internal/database"
	"github.com/tastehub/api/internal/mail"
	"github.com/tastehub/api/internal/payment"
	"github.com/tastehub/api/internal/router"
	"github.com/tastehub/api/internal/storage"
	"github.com/tastehub/api/internal/ws"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrations {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			logger.WithError(err).Fatal("Failed to run migrations")
		}
		logger.Info("Migrations applied")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("Unable to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Unable to ping database")
	}
	logger.Info("Connected to database")

	files, err := newFileStore(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("Unable to initialize image storage")
	}

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	handler := router.New(router.Deps{
		Config:  cfg,
		Queries: database.New(pool),
		Pool:    pool,
		Hub:     hub,
		Files:   files,
		Mailer:  newMailer(cfg, logger),
		Gateway: payment.NewSimulated(cfg.PaymentFailureRate),
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
}

// newLogger configures the standard logrus logger as well, since handlers
// log through the package-level functions.
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.StandardLogger()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if err != nil {
		logger.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
	}
	return logger
}

func newFileStore(ctx context.Context, cfg *config.Config) (storage.FileStore, error) {
	switch cfg.StorageDriver {
	case "s3":
		return storage.NewS3(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
	case "local", "":
		return storage.NewLocal(cfg.UploadDir, cfg.PublicUploadPath)
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func newMailer(cfg *config.Config, logger logrus.FieldLogger) mail.Mailer {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set, outgoing mail is disabled")
		return mail.Noop{Logger: logger}
	}
	return mail.NewSMTP(mail.SMTPConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		SenderName: cfg.SMTPSenderName,
		Email:      cfg.SMTPEmail,
		Password:   cfg.SMTPPassword,
	})
}
