package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pareto_backend/database"
	"pareto_backend/internal/config"
	"pareto_backend/internal/content"
	"pareto_backend/internal/email"
	"pareto_backend/internal/functions"
	"pareto_backend/internal/handlers"
	"pareto_backend/internal/logger"
	"pareto_backend/internal/middleware"
	"pareto_backend/internal/ratelimit"
	"pareto_backend/internal/routes"
	"pareto_backend/internal/services"
	"pareto_backend/internal/storage"
	"pareto_backend/internal/validator"
	"pareto_backend/internal/workers"
	"pareto_backend/pkg/apperrors"
)

// App is the assembled service: router, functions and background worker
type App struct {
	Config     *config.Config
	DB         *gorm.DB
	Services   *services.ServiceContainer
	Router     *gin.Engine
	Functions  http.Handler
	Reconciler *workers.ProfileReconciler
}

// New wires services, handlers and routes on top of already built infrastructure.
func New(cfg *config.Config, db *gorm.DB, infra services.Infrastructure) *App {
	apperrors.SetDebug(!cfg.IsProduction())

	serviceContainer := services.NewServiceContainer(cfg, infra)
	fn := functions.NewRouter(functions.NewHandler(db, serviceContainer, cfg), cfg.Server.AllowedOrigins)

	appHandlers := initializeHandlers(serviceContainer, infra.Storage)
	ginRouter := initializeGinRouter(cfg, db)
	routes.RegisterRoutes(ginRouter, appHandlers, routes.Options{
		Tokens:    serviceContainer.Tokens,
		Functions: fn,
		FilesURL:  cfg.Storage.BaseURL,
		DB:        db,
	})

	interval := time.Duration(cfg.App.ReconcileInterval) * time.Second
	return &App{
		Config:     cfg,
		DB:         db,
		Services:   serviceContainer,
		Router:     ginRouter,
		Functions:  fn,
		Reconciler: workers.NewProfileReconciler(db, serviceContainer.AccountService, interval),
	}
}

// NewInfrastructure builds storage, email, rate limiting and the content
// catalogue from cfg. The returned func releases what needs closing.
func NewInfrastructure(cfg *config.Config) (services.Infrastructure, func(), error) {
	var infra services.Infrastructure

	store, err := storage.NewStorage(storage.ConfigFrom(cfg))
	if err != nil {
		return infra, nil, fmt.Errorf("init storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	templates, err := email.NewDefaultTemplateManager(cfg.Email.TemplatesDir)
	if err != nil {
		return infra, nil, fmt.Errorf("load email templates: %w", err)
	}
	var provider email.Provider
	if cfg.Email.Disabled {
		logger.Warn("Email delivery disabled, messages are only logged")
		provider = email.NewLogProvider(templates)
	} else {
		provider = email.NewSMTPProvider(email.ConfigFrom(cfg), templates)
		if err := provider.Validate(); err != nil {
			return infra, nil, fmt.Errorf("email config: %w", err)
		}
	}

	catalogue, err := content.Load(cfg.Content.Path)
	if err != nil {
		return infra, nil, fmt.Errorf("load content: %w", err)
	}

	redisClient := ratelimit.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	limiter := ratelimit.New(redisClient,
		cfg.Auth.MagicLinkRateLimit,
		time.Duration(cfg.Auth.MagicLinkRateWindow)*time.Second,
		"pareto:magic-link",
	)
	if redisClient != nil {
		logger.Info("Rate limiter uses redis", "addr", cfg.Redis.Addr)
	}

	cleanup := func() {
		if err := provider.Close(); err != nil {
			logger.Warn("Failed to close email provider", "error", err)
		}
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("Failed to close redis client", "error", err)
			}
		}
	}

	return services.Infrastructure{
		Storage:       store,
		EmailProvider: provider,
		Limiter:       limiter,
		Content:       catalogue,
	}, cleanup, nil
}

// Bootstrap creates the buckets the app writes to and the first super admin.
func (a *App) Bootstrap(ctx context.Context) error {
	buckets := a.Config.Storage.Buckets
	for _, b := range []struct {
		name   string
		public bool
	}{
		{buckets.Documents, false},
		{buckets.Profiles, true},
		{buckets.Logos, true},
	} {
		if err := a.Services.UploadService.CreateBucket(ctx, b.name, b.public); err != nil {
			return fmt.Errorf("create bucket %s: %w", b.name, err)
		}
	}

	admin := a.Config.App.FirstSuperAdmin
	if admin.Email == "" {
		logger.Warn("SUPER_ADMIN_EMAIL is not set, skipping super admin seeding")
		return nil
	}
	return a.Services.AccountService.SeedSuperAdmin(ctx, a.DB.WithContext(ctx), admin.Email, admin.Name, admin.Password)
}

// Run starts the main API (with the functions mounted) and blocks until
// SIGINT or SIGTERM.
func Run() {
	cfg, db, cleanup := boot()
	defer cleanup()

	infra, closeInfra, err := NewInfrastructure(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize infrastructure", "error", err)
	}
	defer closeInfra()

	a := New(cfg, db, infra)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Bootstrap(ctx); err != nil {
		logger.Fatal("Failed to bootstrap", "error", err)
	}
	reconcilerDone := a.Reconciler.Start(ctx)

	serve(ctx, cfg, cfg.Addr(), a.Router)
	<-reconcilerDone
}

// RunFunctions serves only the functions surface
func RunFunctions() {
	cfg, db, cleanup := boot()
	defer cleanup()

	infra, closeInfra, err := NewInfrastructure(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize infrastructure", "error", err)
	}
	defer closeInfra()

	a := New(cfg, db, infra)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Functions.Port)
	serve(ctx, cfg, addr, a.Functions)
}

func boot() (*config.Config, *gorm.DB, func()) {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	return cfg, db, func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close database", "error", err)
		}
	}
}

func serve(ctx context.Context, cfg *config.Config, addr string, handler http.Handler) {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Server startup error", "error", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

func initializeHandlers(svc *services.ServiceContainer, store storage.Storage) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.Default())

	appHandlers := &handlers.AppHandlers{
		PublicHandler:      handlers.NewPublicHandler(baseHandler, svc.Content),
		IntakeHandler:      handlers.NewIntakeHandler(baseHandler, svc.IntakeService),
		AuthHandler:        handlers.NewAuthHandler(baseHandler, svc.AuthService),
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler, svc.ApplicationService),
		AnalyticsHandler:   handlers.NewAnalyticsHandler(baseHandler, svc.AnalyticsService),
		EventHandler:       handlers.NewEventHandler(baseHandler, svc.EventService),
		OpportunityHandler: handlers.NewOpportunityHandler(baseHandler, svc.OpportunityService),
		UserHandler:        handlers.NewUserHandler(baseHandler, svc.AccountService),
		ProfileHandler:     handlers.NewProfileHandler(baseHandler, svc.ProfileService),
	}
	if local, ok := store.(*storage.LocalStorage); ok {
		appHandlers.FileHandler = handlers.NewFileHandler(baseHandler, local)
	}
	return appHandlers
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	router.MaxMultipartMemory = 8 << 20
	return router
}
