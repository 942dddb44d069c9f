package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ouerghi23/Medflow/config"
	deliveryHttp "github.com/Ouerghi23/Medflow/internal/delivery/http"
	"github.com/Ouerghi23/Medflow/internal/delivery/http/handler"
	"github.com/Ouerghi23/Medflow/internal/delivery/http/middleware"
	domainRepo "github.com/Ouerghi23/Medflow/internal/domain/repository"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/cache"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/database"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/notification"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/payment"
	"github.com/Ouerghi23/Medflow/internal/infrastructure/pdf"
	"github.com/Ouerghi23/Medflow/internal/repository"
	"github.com/Ouerghi23/Medflow/internal/service"
	"github.com/Ouerghi23/Medflow/internal/usecase"
	"github.com/Ouerghi23/Medflow/pkg/jwt"
	"github.com/Ouerghi23/Medflow/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// Usecases groups the application services so commands other than serve can reuse them.
type Usecases struct {
	Auth         usecase.AuthUsecase
	Appointment  usecase.AppointmentUsecase
	Consultation usecase.ConsultationUsecase
	Invoice      usecase.InvoiceUsecase
	Payment      usecase.PaymentUsecase
	Patient      usecase.PatientUsecase
	Doctor       usecase.DoctorUsecase
	User         usecase.UserUsecase
	Service      usecase.MedicalServiceUsecase
	Dashboard    usecase.DashboardUsecase
	AuditLog     usecase.AuditLogUsecase
}

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Roles       domainRepo.RoleRepository
	Usecases    Usecases
	Server      *http.Server

	reminder    service.ReminderService
	rateLimiter *middleware.IPRateLimiter
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := setupLogger(cfg.App)
	app := &App{Config: cfg, Log: log}

	// Initialize database
	if cfg.DB.AutoMigrate {
		if err := database.MigrateUp(cfg.DB.URL()); err != nil {
			return nil, err
		}
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.IsDevelopment())
	if err != nil {
		return nil, err
	}
	app.DB = db
	log.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	if err := app.initialize(); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.AppConfig) *logrus.Logger {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
	}
	return logrus.StandardLogger()
}

func newGateway(cfg config.PaymentConfig) payment.Gateway {
	if cfg.Provider == config.ProviderMidtrans {
		return payment.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransEnv)
	}
	return payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
}

func newNotifier(cfg config.NotificationConfig, log *logrus.Logger) notification.Notifier {
	if cfg.FirebaseCredentialsFile == "" {
		log.Info("FIREBASE_CREDENTIALS_FILE not set, push notifications are logged only")
		return notification.NewNoopNotifier(log)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	notifier, err := notification.NewFCMNotifier(ctx, cfg.FirebaseCredentialsFile, log)
	if err != nil {
		log.Warnf("Failed to initialize Firebase messaging, falling back to log only: %+v", err)
		return notification.NewNoopNotifier(log)
	}
	return notifier
}

// initialize wires every layer and builds the HTTP server
func (app *App) initialize() error {
	cfg, log := app.Config, app.Log

	tx := database.NewTransactor(app.DB)
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	policy := service.NewAccessPolicy()

	tokens := cache.NewRedisTokenStore(app.RedisClient)
	stats := cache.NewRedisStatsCache(app.RedisClient)
	gateway := newGateway(cfg.Payment)
	notifier := newNotifier(cfg.Notification, log)
	renderer := pdf.NewPrescriptionRenderer()

	// Initialize repositories
	clinicRepo := repository.NewClinicRepository()
	userRepo := repository.NewUserRepository()
	patientRepo := repository.NewPatientRepository()
	doctorRepo := repository.NewDoctorRepository()
	serviceRepo := repository.NewMedicalServiceRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	consultationRepo := repository.NewConsultationRepository()
	invoiceRepo := repository.NewInvoiceRepository()
	paymentRepo := repository.NewPaymentRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	app.Roles = repository.NewRoleRepository()

	audit := service.NewAuditService(log, auditLogRepo)
	app.reminder = service.NewReminderService(tx, log, appointmentRepo, notifier, cfg.Reminder.Interval)

	// Initialize usecases
	app.Usecases = Usecases{
		Auth:         usecase.NewAuthUsecase(tx, log, clinicRepo, userRepo, audit, jwtService, tokens),
		Appointment:  usecase.NewAppointmentUsecase(tx, log, policy, appointmentRepo, patientRepo, doctorRepo, audit),
		Consultation: usecase.NewConsultationUsecase(tx, log, policy, consultationRepo, appointmentRepo, patientRepo, doctorRepo, clinicRepo, audit, renderer),
		Invoice:      usecase.NewInvoiceUsecase(tx, log, policy, invoiceRepo, patientRepo, doctorRepo, serviceRepo, audit),
		Payment: usecase.NewPaymentUsecase(tx, log, policy, invoiceRepo, paymentRepo, patientRepo, doctorRepo, audit, gateway, stats, notifier, usecase.PaymentConfig{
			Currency: cfg.Payment.Currency,
			BaseURL:  cfg.App.BaseURL,
		}),
		Patient:   usecase.NewPatientUsecase(tx, log, policy, userRepo, patientRepo, audit),
		Doctor:    usecase.NewDoctorUsecase(tx, log, policy, userRepo, doctorRepo, audit),
		User:      usecase.NewUserUsecase(tx, log, policy, userRepo, audit),
		Service:   usecase.NewMedicalServiceUsecase(tx, log, policy, serviceRepo, audit),
		Dashboard: usecase.NewDashboardUsecase(tx, log, policy, patientRepo, appointmentRepo, invoiceRepo, paymentRepo, stats),
		AuditLog:  usecase.NewAuditLogUsecase(tx, log, policy, auditLogRepo),
	}
	uc := app.Usecases

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:         handler.NewAuthHandler(uc.Auth, customValidator),
		Appointment:  handler.NewAppointmentHandler(uc.Appointment, customValidator),
		Consultation: handler.NewConsultationHandler(uc.Consultation, customValidator),
		Invoice:      handler.NewInvoiceHandler(uc.Invoice, customValidator),
		Payment:      handler.NewPaymentHandler(uc.Payment, customValidator),
		Patient:      handler.NewPatientHandler(uc.Patient, customValidator),
		Doctor:       handler.NewDoctorHandler(uc.Doctor, customValidator),
		User:         handler.NewUserHandler(uc.User, customValidator),
		Service:      handler.NewMedicalServiceHandler(uc.Service, customValidator),
		Dashboard:    handler.NewDashboardHandler(uc.Dashboard),
		AuditLog:     handler.NewAuditLogHandler(uc.AuditLog),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokens)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.BaseURL)
	app.rateLimiter = middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)

	// Initialize router
	router := deliveryHttp.NewRouter(log, handlers, policy, authMiddleware, corsMiddleware, app.rateLimiter)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and the reminder job, then blocks until shutdown
func (app *App) Run() error {
	if app.Config.Reminder.Enabled {
		if err := app.reminder.Start(); err != nil {
			return err
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case runErr = <-serverErr:
		app.Log.Errorf("Failed to start server: %v", runErr)
	}

	app.shutdown()
	return runErr
}

func (app *App) shutdown() {
	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.reminder.Stop()
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.rateLimiter != nil {
		app.rateLimiter.Close()
	}

	if app.DB != nil {
		if err := database.Close(app.DB); err != nil {
			app.Log.Warnf("Failed to close database: %v", err)
		}
	}

	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.Log.Warnf("Failed to close Redis: %v", err)
		}
	}
}
