package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventbooking/config"
	_ "eventbooking/docs"
	"eventbooking/internal/adapters/assistant"
	"eventbooking/internal/adapters/auth"
	"eventbooking/internal/adapters/email"
	"eventbooking/internal/clock"
	deliveryhttp "eventbooking/internal/delivery/http"
	"eventbooking/internal/delivery/http/controllers"
	"eventbooking/internal/domain"
	"eventbooking/internal/repository/cache"
	"eventbooking/internal/repository/postgres"
	"eventbooking/internal/services"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 10 * time.Second

// @title Event Booking API
// @version 1.0
// @description Event listings, ticket booking, organizer analytics and an assistant over the same data.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(startupCtx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}
	if cfg.RunMigrations {
		if err := postgres.Migrate(db); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	healthChecks := map[string]deliveryhttp.HealthCheck{
		"postgres": db.PingContext,
	}

	summaryCache := cache.NewNoopCache()
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(startupCtx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		summaryCache = cache.NewSummaryCache(rdb, cfg.AnalyticsCacheTTL)
		healthChecks["redis"] = func(ctx context.Context) error { return cache.HealthCheck(ctx, rdb) }
	} else {
		logger.Warn("REDIS_URL not set, analytics summaries are not cached")
	}

	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, logger)
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("email templates: %w", err)
	}
	emailService := services.NewEmailService(mailer, renderer)

	tokens := auth.NewJWT(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	clk := clock.NewSystem()
	timeout := cfg.RequestTimeout

	tx := postgres.NewTransactor(db)
	userRepo := postgres.NewUserRepository(db)
	adminRepo := postgres.NewAdminRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	organizerRepo := postgres.NewOrganizerRepository(db)
	venueRepo := postgres.NewVenueRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)

	authService := services.NewAuthService(userRepo, adminRepo, hasher, tokens, cfg.JWTExpiry, clk, timeout)
	profileService := services.NewProfileService(tx, userRepo, profileRepo, customerRepo, organizerRepo, clk, timeout)
	organizerService := services.NewOrganizerService(tx, organizerRepo, profileRepo, emailService, clk, logger, timeout)
	venueService := services.NewVenueService(venueRepo, profileRepo, organizerRepo, clk, timeout)
	eventService := services.NewEventService(tx, eventRepo, venueRepo, bookingRepo, organizerRepo, profileRepo,
		summaryCache, clk, logger, timeout)
	bookingService := services.NewBookingService(services.BookingDeps{
		Tx:         tx,
		Events:     eventRepo,
		Venues:     venueRepo,
		Bookings:   bookingRepo,
		Payments:   paymentRepo,
		Users:      userRepo,
		Profiles:   profileRepo,
		Customers:  customerRepo,
		Organizers: organizerRepo,
		Cache:      summaryCache,
		Email:      emailService,
		Clock:      clk,
		Logger:     logger,
	}, timeout)
	analyticsService := services.NewAnalyticsService(postgres.NewAnalyticsRepository(db), organizerRepo, profileRepo,
		summaryCache, clk, logger, timeout)
	adminService := services.NewAdminService(adminRepo, postgres.NewStatsRepository(db), hasher, clk, timeout)
	assistantService := services.NewAssistantService(
		services.NewQueryContextBuilder(postgres.NewSnapshotReader(db), profileRepo, organizerRepo, clk),
		assistant.New(assistant.Config{
			Provider:    cfg.Assistant.Provider,
			URL:         cfg.Assistant.URL,
			Model:       cfg.Assistant.Model,
			Temperature: cfg.Assistant.Temperature,
			Timeout:     cfg.Assistant.Timeout,
		}),
		clk, logger, cfg.Assistant.Timeout)

	if err := bootstrapAdmin(startupCtx, cfg, adminService, logger); err != nil {
		return err
	}

	router := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Auth:      controllers.NewAuthController(logger, authService),
		Profile:   controllers.NewProfileController(logger, profileService),
		Organizer: controllers.NewOrganizerController(logger, organizerService),
		Venue:     controllers.NewVenueController(logger, venueService),
		Event:     controllers.NewEventController(logger, eventService),
		Booking:   controllers.NewBookingController(logger, bookingService),
		Analytics: controllers.NewAnalyticsController(logger, analyticsService),
		Admin:     controllers.NewAdminController(logger, adminService),
		Assistant: controllers.NewAssistantController(logger, assistantService),
	}, deliveryhttp.RouterConfig{
		Verifier:     tokens,
		Logger:       logger,
		CORSOrigins:  cfg.CORSOrigins,
		HealthChecks: healthChecks,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("api listening", "port", cfg.Port, "env", cfg.Environment)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// bootstrapAdmin creates the first ADMIN account when ADMIN_PASSWORD is configured.
func bootstrapAdmin(ctx context.Context, cfg *config.Config, admins domain.AdminService, logger *slog.Logger) error {
	if cfg.AdminPassword == "" {
		return nil
	}
	created, err := admins.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		logger.Info("bootstrap admin created", "username", cfg.AdminUsername)
	}
	return nil
}
