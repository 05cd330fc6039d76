package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/app"
	"github.com/Freeeeeet/booking_platform/internal/availability"
	"github.com/Freeeeeet/booking_platform/internal/config"
	"github.com/Freeeeeet/booking_platform/internal/controller"
	"github.com/Freeeeeet/booking_platform/internal/controller/handlers"
	"github.com/Freeeeeet/booking_platform/internal/events"
	"github.com/Freeeeeet/booking_platform/internal/repository"
	"github.com/Freeeeeet/booking_platform/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required but not set")
	}

	logger, err := app.NewLogger(app.LoggerConfig{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Component:   "bot",
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting booking bot",
		zap.String("environment", cfg.Environment),
		zap.Duration("slot_step", cfg.SlotStep),
		zap.String("conflict_policy", cfg.ConflictPolicy),
	)

	shutdownTracing, err := app.SetupTracing(ctx, app.TracingConfig{
		Enabled:     cfg.OTelEnabled,
		ServiceName: "booking-bot",
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Failed to shut down tracing", zap.Error(err))
		}
	}()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	profileRepo := repository.NewProfileRepository(pool)
	serviceRepo := repository.NewServiceRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	blockedSlotRepo := repository.NewBlockedSlotRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	sinks := events.Multi{
		events.NewLogSink(logger.Named("events")),
		controller.NewBotSink(b, profileRepo, logger.Named("notifier")),
	}
	if cfg.KafkaBrokers != "" {
		kafkaSink, err := events.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
		logger.Info("Publishing events to Kafka", zap.String("topic", cfg.KafkaTopic))
	}

	policy, err := availability.ParseConflictPolicy(cfg.ConflictPolicy)
	if err != nil {
		return err
	}
	availabilityCfg := service.DefaultAvailabilityConfig()
	availabilityCfg.Step = cfg.SlotStep
	availabilityCfg.Policy = policy
	availabilityCfg.FetchTimeout = cfg.DataTimeout

	availabilityService := service.NewAvailabilityService(
		service.NewRepositorySource(availabilityRepo, blockedSlotRepo, appointmentRepo, serviceRepo),
		availabilityCfg,
		logger.Named("availability"),
	)
	notificationService := service.NewNotificationService(notificationRepo, appointmentRepo, sinks, logger.Named("notifications"))

	services := handlers.Services{
		Users:         service.NewUserService(profileRepo, logger),
		Availability:  availabilityService,
		Booking:       service.NewBookingService(appointmentRepo, serviceRepo, availabilityService, notificationService, logger.Named("booking")),
		Professional:  service.NewProfessionalService(serviceRepo, availabilityRepo, blockedSlotRepo, logger),
		Notifications: notificationService,
		Reviews:       service.NewReviewService(reviewRepo, appointmentRepo, sinks, logger),
		Catalog:       service.NewCatalogService(serviceRepo, reviewRepo),
		Dashboards:    service.NewDashboardService(profileRepo, appointmentRepo, notificationRepo, reviewRepo),
	}

	botController := controller.NewBotController(b, handlers.NewHandlers(services, logger.Named("handlers")), logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		return err
	}

	scheduler := app.NewReminderScheduler(notificationService, cfg.ReminderInterval, logger.Named("reminders"))
	scheduler.Start(ctx)
	defer scheduler.Stop()

	botController.Start(ctx)
	return nil
}
