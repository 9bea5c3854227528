package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/curagenie/health-api/internal/config"
	"github.com/curagenie/health-api/internal/email"
	"github.com/curagenie/health-api/internal/handler"
	appointmentHandler "github.com/curagenie/health-api/internal/handler/appointment"
	authHandler "github.com/curagenie/health-api/internal/handler/auth"
	chatbotHandler "github.com/curagenie/health-api/internal/handler/chatbot"
	doctorHandler "github.com/curagenie/health-api/internal/handler/doctor"
	monitoringHandler "github.com/curagenie/health-api/internal/handler/monitoring"
	patientHandler "github.com/curagenie/health-api/internal/handler/patient"
	predictionHandler "github.com/curagenie/health-api/internal/handler/prediction"
	prescriptionHandler "github.com/curagenie/health-api/internal/handler/prescription"
	"github.com/curagenie/health-api/internal/middleware"
	"github.com/curagenie/health-api/internal/notifier"
	"github.com/curagenie/health-api/internal/repository/postgres"
	"github.com/curagenie/health-api/internal/router"
	appointmentService "github.com/curagenie/health-api/internal/service/appointment"
	authService "github.com/curagenie/health-api/internal/service/auth"
	chatbotService "github.com/curagenie/health-api/internal/service/chatbot"
	doctorService "github.com/curagenie/health-api/internal/service/doctor"
	monitoringService "github.com/curagenie/health-api/internal/service/monitoring"
	patientService "github.com/curagenie/health-api/internal/service/patient"
	predictionService "github.com/curagenie/health-api/internal/service/prediction"
	prescriptionService "github.com/curagenie/health-api/internal/service/prescription"
	reportService "github.com/curagenie/health-api/internal/service/report"
	"github.com/curagenie/health-api/pkg/auth"
	"github.com/curagenie/health-api/pkg/logger"
	"github.com/curagenie/health-api/pkg/messaging"
	redisBroker "github.com/curagenie/health-api/pkg/messaging/redis"
	"github.com/curagenie/health-api/pkg/metrics"
	"github.com/curagenie/health-api/pkg/security"
)

func main() {
	log := logger.NewLogger(nil)
	zl := log.Zerolog()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	// Shared infrastructure
	appMetrics := metrics.NewMetrics("curagenie")

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	readingRepo := postgres.NewReadingRepository(db, appMetrics)
	chatRepo := postgres.NewChatRepository(db)
	predictionRepo := postgres.NewPredictionRepository(db)

	registry := notifier.NewRegistry(zl, appMetrics)
	tokens := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	hasher := security.NewBcryptHasher(0)

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisBroker.NewRedisBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, zl)
		if err != nil {
			log.Fatal(err, "failed to connect to Redis")
		}
		defer broker.Close()
	}

	emailSvc := email.Noop()
	if cfg.SMTP.Enabled {
		emailSvc = email.NewService(cfg.SMTP)
	}

	// Services
	authSvc := authService.NewService(userRepo, patientRepo, doctorRepo, hasher, tokens, emailSvc, zl)
	patientSvc := patientService.NewService(patientRepo, zl)
	doctorSvc := doctorService.NewService(doctorRepo, patientRepo, zl)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, doctorRepo, zl)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, patientRepo, doctorRepo, zl)
	monitoringSvc := monitoringService.NewService(patientRepo, readingRepo, userRepo, registry, zl, monitoringService.Options{
		Broker:  broker,
		Emails:  emailSvc,
		Metrics: appMetrics,
	})
	reportSvc := reportService.NewService(patientRepo, readingRepo, userRepo, zl)
	chatbotSvc := chatbotService.NewService(chatRepo, chatbotService.NewCompleter(cfg.Chatbot), zl)
	predictionSvc := predictionService.NewService(predictionRepo, patientRepo, doctorRepo, predictionService.NewScorer(cfg.ML), zl)

	// Handlers
	handlers := router.Handlers{
		Base:         handler.NewHandler(db),
		Auth:         authHandler.NewHandler(authSvc),
		Patient:      patientHandler.NewHandler(patientSvc),
		Doctor:       doctorHandler.NewHandler(doctorSvc),
		Appointment:  appointmentHandler.NewHandler(appointmentSvc),
		Prescription: prescriptionHandler.NewHandler(prescriptionSvc),
		Monitoring:   monitoringHandler.NewHandler(monitoringSvc, reportSvc, registry),
		Chatbot:      chatbotHandler.NewHandler(chatbotSvc),
		Prediction:   predictionHandler.NewHandler(predictionSvc),
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	}

	r := router.NewRouter(middleware.NewAuthMiddleware(tokens), handlers, zl, router.Config{
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		CORS:           corsConfig,
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
	log.Info("server stopped")
}
