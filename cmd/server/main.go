package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"defider/config"
	"defider/internal/adapters/auth"
	"defider/internal/adapters/email"
	delivery "defider/internal/delivery/http"
	"defider/internal/delivery/http/middleware"
	"defider/internal/jobs"
	"defider/internal/realtime"
	"defider/internal/repository/postgres"
	"defider/internal/services"
)

const serviceTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := postgres.NewDB(cfg.DBUrl)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, cfg.MigrationsPath); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	courseRepo := postgres.NewCourseEntryRepository(db)
	workshopRepo := postgres.NewWorkshopRepository(db)
	enrollmentRepo := postgres.NewWorkshopEnrollmentRepository(db)
	gymSlotRepo := postgres.NewGymSlotRepository(db)
	gymReservationRepo := postgres.NewGymReservationRepository(db)

	// Adapters
	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(0)
	mailer, err := email.NewMailer(cfg.Mailer, logger)
	if err != nil {
		logger.Error("mailer init failed", "error", err)
		os.Exit(1)
	}

	// Services
	emailService := services.NewEmailService(mailer)
	userService := services.NewUserService(userRepo, hasher, jwtManager, cfg.TokenExpiry)
	scheduleService := services.NewScheduleService(courseRepo, enrollmentRepo, gymReservationRepo, logger, serviceTimeout)
	workshopService := services.NewWorkshopService(workshopRepo, enrollmentRepo, userRepo, emailService, logger, serviceTimeout)
	gymService := services.NewGymService(gymSlotRepo, gymReservationRepo, userRepo, emailService, logger, serviceTimeout)

	// Realtime change feed over LISTEN/NOTIFY
	source, err := realtime.Connect(cfg.DBUrl, logger)
	if err != nil {
		logger.Error("realtime listener failed", "error", err)
		os.Exit(1)
	}
	listener := realtime.NewListener(source, scheduleService, logger, 250*time.Millisecond)
	listener.Start()
	defer listener.Close()

	// Capacity reconciliation job
	scheduler, err := jobs.Schedule(cfg.ReconcileSchedule, jobs.NewReconciler(db, logger), logger)
	if err != nil {
		logger.Error("reconciliation job failed", "error", err)
		os.Exit(1)
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	// HTTP
	mux := delivery.NewRouter(
		delivery.NewAuthController(userService),
		delivery.NewScheduleController(scheduleService),
		delivery.NewWorkshopController(workshopService),
		delivery.NewGymController(gymService),
		jwtManager,
	)
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, mux))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
