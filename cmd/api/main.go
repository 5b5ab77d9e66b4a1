package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/accuro-ph/accuro-api/internal/config"
	"github.com/accuro-ph/accuro-api/internal/database"
	"github.com/accuro-ph/accuro-api/internal/handler"
	"github.com/accuro-ph/accuro-api/internal/middleware"
	"github.com/accuro-ph/accuro-api/internal/repository"
	"github.com/accuro-ph/accuro-api/internal/router"
	"github.com/accuro-ph/accuro-api/internal/service"
	"github.com/accuro-ph/accuro-api/internal/validation"
	"github.com/accuro-ph/accuro-api/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	contactRepo, closeStore, err := buildContactRepository(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to open contact store")
	}
	defer closeStore()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, submission throttle disabled")
		} else {
			defer redisClient.Close()
		}
	}

	var publisher service.MessagePublisher
	if cfg.NATSURL != "" {
		conn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, contact events disabled")
		} else {
			defer drainNATS(conn, logger)
			publisher = conn
		}
	}

	location, err := time.LoadLocation(cfg.NotifyTimezone)
	if err != nil {
		logger.Fatal().Err(err).Str("timezone", cfg.NotifyTimezone).Msg("invalid notification timezone")
	}

	outbound, err := buildMailer(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure mailer")
	}

	dispatcher := service.NewContactDispatcher(outbound, service.DispatcherConfig{
		Recipient: cfg.NotificationEmail,
		Location:  location,
		Workers:   cfg.NotifyWorkers,
		QueueSize: cfg.NotifyQueueSize,
		Timeout:   cfg.NotifyTimeout,
	}, logger)

	contactService := service.NewContactService(
		contactRepo,
		validation.New(cfg.StrictValidation),
		service.NewContactThrottle(redisClient, cfg.ThrottleMax, cfg.ThrottleWindow, logger),
		service.NewContactEventPublisher(publisher, cfg.NATSSubjectPrefix, cfg.AppName, logger),
		dispatcher,
		cfg.StrictReads,
		logger,
	)
	contactHandler := handler.NewContactHandler(
		contactService,
		middleware.RateLimit("contact_submit", cfg.SubmitRateLimit, cfg.SubmitRateWindow),
		logger,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    1 << 20,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
		AccessLog:    cfg.AppEnv != "production",
	})
	router.Register(app, cfg, router.Dependencies{ContactHandler: contactHandler})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Str("storage", cfg.StorageDriver).Bool("mail_enabled", cfg.MailEnabled).Msg("contact api listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, dispatcher, logger)
}

func buildContactRepository(cfg config.Config) (repository.ContactRepository, func(), error) {
	if cfg.StorageDriver == config.StorageDriverFile {
		repo, err := repository.NewFileContactRepository(cfg.ContactsPath())
		return repo, func() {}, err
	}

	db, err := database.ConnectSQL(cfg)
	if err != nil {
		return nil, func() {}, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	repo, err := repository.NewGormContactRepository(db)
	if err != nil {
		closeDB()
		return nil, func() {}, err
	}
	return repo, closeDB, nil
}

func buildMailer(cfg config.Config, logger zerolog.Logger) (service.Mailer, error) {
	if !cfg.MailEnabled {
		return service.NewLogMailer(logger), nil
	}

	return mailer.New(mailer.Config{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.MailFromEmail,
		FromName:  cfg.MailFromName,
		Timeout:   cfg.NotifyTimeout,
	}, logger)
}

func drainNATS(conn *nats.Conn, logger zerolog.Logger) {
	if err := conn.Drain(); err != nil {
		logger.Warn().Err(err).Msg("failed to drain nats connection")
	}
}

func waitForShutdown(app *fiber.App, dispatcher *service.ContactDispatcher, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer drainCancel()

	if err := dispatcher.Close(drainCtx); err != nil {
		logger.Warn().Err(err).Msg("pending notifications abandoned")
	}

	logger.Info().Msg("server stopped")
}
