package services

import (
	"pareto_backend/internal/auth"
	"pareto_backend/internal/config"
	"pareto_backend/internal/content"
	"pareto_backend/internal/email"
	"pareto_backend/internal/imageprocessor"
	"pareto_backend/internal/ratelimit"
	"pareto_backend/internal/repositories"
	"pareto_backend/internal/storage"
)

// ServiceContainer holds every service the handlers and functions use
type ServiceContainer struct {
	ApplicationService ApplicationService
	IntakeService      IntakeService
	AccountService     AccountService
	AuthService        AuthService
	ProfileService     ProfileService
	EventService       EventService
	OpportunityService OpportunityService
	AnalyticsService   AnalyticsService
	UploadService      UploadService
	EmailService       *EmailService

	Tokens  *auth.TokenManager
	Content *content.Catalogue
	Storage storage.Storage
}

// Infrastructure - the external pieces services are built on
type Infrastructure struct {
	Storage       storage.Storage
	EmailProvider email.Provider
	Limiter       ratelimit.Limiter
	Content       *content.Catalogue
}

func NewServiceContainer(cfg *config.Config, infra Infrastructure) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	profileRepo := repositories.NewProfileRepository()
	appRepo := repositories.NewApplicationRepository()
	eventRepo := repositories.NewEventRepository()
	oppRepo := repositories.NewOpportunityRepository()
	analyticsRepo := repositories.NewAnalyticsRepository()

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWTTTL())
	emailService := NewEmailService(infra.EmailProvider, cfg.App.SiteURL, cfg.App.AdminEmail)
	processor := imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.ImageMaxDimension)
	uploadService := NewUploadService(infra.Storage, processor, cfg)
	buckets := cfg.Storage.Buckets

	return &ServiceContainer{
		ApplicationService: NewApplicationService(appRepo, uploadService, buckets.Documents),
		IntakeService:      NewIntakeService(appRepo, uploadService, emailService),
		AccountService:     NewAccountService(userRepo, profileRepo, appRepo, emailService, cfg.Auth.TempPasswordLength),
		AuthService: NewAuthService(userRepo, profileRepo, tokens, emailService, infra.Limiter,
			cfg.MagicLinkTTL(), cfg.Auth.MinPasswordScore),
		ProfileService:     NewProfileService(profileRepo, uploadService, buckets.Profiles),
		EventService:       NewEventService(eventRepo),
		OpportunityService: NewOpportunityService(oppRepo, profileRepo, userRepo, uploadService, emailService, buckets.Logos),
		AnalyticsService:   NewAnalyticsService(analyticsRepo, infra.Content),
		UploadService:      uploadService,
		EmailService:       emailService,

		Tokens:  tokens,
		Content: infra.Content,
		Storage: infra.Storage,
	}
}
