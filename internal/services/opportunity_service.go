package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"pareto_backend/internal/config"
	"pareto_backend/internal/logger"
	"pareto_backend/internal/models"
	"pareto_backend/internal/repositories"
	"pareto_backend/internal/services/dto"
	"pareto_backend/pkg/apperrors"
)

type OpportunityService interface {
	Create(ctx context.Context, db *gorm.DB, req *dto.OpportunityRequest) (*models.Opportunity, error)
	Update(ctx context.Context, db *gorm.DB, id string, req *dto.OpportunityRequest) (*models.Opportunity, error)
	Delete(db *gorm.DB, id string) error
	Get(db *gorm.DB, id string) (*models.Opportunity, error)
	List(db *gorm.DB) ([]models.Opportunity, error)
	// Apply emails the opportunity contact on behalf of a fellow; nothing is stored
	Apply(ctx context.Context, db *gorm.DB, id, userID, message string) error
}

type OpportunityServiceImpl struct {
	oppRepo     repositories.OpportunityRepository
	profileRepo repositories.ProfileRepository
	userRepo    repositories.UserRepository
	uploads     UploadService
	emails      *EmailService
	logosBucket string
}

func NewOpportunityService(
	oppRepo repositories.OpportunityRepository,
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	uploads UploadService,
	emails *EmailService,
	logosBucket string,
) OpportunityService {
	return &OpportunityServiceImpl{
		oppRepo:     oppRepo,
		profileRepo: profileRepo,
		userRepo:    userRepo,
		uploads:     uploads,
		emails:      emails,
		logosBucket: logosBucket,
	}
}

func (s *OpportunityServiceImpl) Create(ctx context.Context, db *gorm.DB, req *dto.OpportunityRequest) (*models.Opportunity, error) {
	opp := &models.Opportunity{}
	if err := s.apply(ctx, opp, req); err != nil {
		return nil, err
	}
	if err := s.oppRepo.Create(db, opp); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return opp, nil
}

func (s *OpportunityServiceImpl) Update(ctx context.Context, db *gorm.DB, id string, req *dto.OpportunityRequest) (*models.Opportunity, error) {
	opp, err := s.oppRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if err := s.apply(ctx, opp, req); err != nil {
		return nil, err
	}
	if err := s.oppRepo.Update(db, opp); err != nil {
		return nil, mapRepoError(err)
	}
	return opp, nil
}

func (s *OpportunityServiceImpl) Delete(db *gorm.DB, id string) error {
	return mapRepoError(s.oppRepo.Delete(db, id))
}

func (s *OpportunityServiceImpl) Get(db *gorm.DB, id string) (*models.Opportunity, error) {
	opp, err := s.oppRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return opp, nil
}

func (s *OpportunityServiceImpl) List(db *gorm.DB) ([]models.Opportunity, error) {
	opps, err := s.oppRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return opps, nil
}

func (s *OpportunityServiceImpl) Apply(ctx context.Context, db *gorm.DB, id, userID, message string) error {
	opp, err := s.oppRepo.FindByID(db, id)
	if err != nil {
		return mapRepoError(err)
	}
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return mapRepoError(err)
	}

	name := user.Name
	if profile, err := s.profileRepo.FindByUserID(db, userID); err == nil && profile.FullName() != "" {
		name = profile.FullName()
	}

	interest := &dto.ApplicationInterest{
		FellowName:  name,
		FellowEmail: user.Email,
		Position:    opp.Position,
		Company:     opp.Company,
		Message:     strings.TrimSpace(message),
		To:          opp.ContactEmail,
	}
	if err := s.emails.SendApplicationInterest(ctx, interest); err != nil {
		logger.CtxError(ctx, "Application interest email failed", "opportunity_id", id, "error", err)
		return apperrors.ExternalServiceError(err, "email", "Failed to send application")
	}
	return nil
}

// apply copies the request; an uploaded logo wins over logo_url
func (s *OpportunityServiceImpl) apply(ctx context.Context, opp *models.Opportunity, req *dto.OpportunityRequest) error {
	opp.Position = strings.TrimSpace(req.Position)
	opp.Company = strings.TrimSpace(req.Company)
	opp.Description = req.Description
	opp.Requirements = req.Requirements
	opp.Featured = req.Featured
	opp.ContactEmail = strings.TrimSpace(req.ContactEmail)
	opp.Location = req.Location

	tags := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	opp.Tags = tags

	if req.LogoURL != "" {
		opp.LogoURL = req.LogoURL
	}
	if req.Logo != nil {
		url, err := s.uploads.StoreImage(ctx, config.FileLogo, s.logosBucket, "opportunities", req.Logo)
		if err != nil {
			return err
		}
		opp.LogoURL = url
	}
	return nil
}
