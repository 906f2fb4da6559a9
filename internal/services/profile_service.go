package services

import (
	"context"

	"gorm.io/gorm"

	"pareto_backend/internal/auth"
	"pareto_backend/internal/config"
	"pareto_backend/internal/logger"
	"pareto_backend/internal/models"
	"pareto_backend/internal/repositories"
	"pareto_backend/internal/services/dto"
	"pareto_backend/internal/wizard"
	"pareto_backend/pkg/apperrors"
)

// ProfileService covers the fellow portal: own profile, onboarding and the directory
type ProfileService interface {
	GetOwn(db *gorm.DB, userID string) (*models.Profile, error)
	GetByID(db *gorm.DB, id string) (*models.Profile, error)
	Directory(db *gorm.DB, search string) ([]models.Profile, error)
	OnboardingForm(db *gorm.DB, userID string) (*wizard.OnboardingForm, error)
	ValidateOnboardingStep(step wizard.Step, form *wizard.OnboardingForm) *dto.StepValidationResponse
	Update(ctx context.Context, db *gorm.DB, userID string, role models.Role, update *dto.ProfileUpdate) (*dto.ProfileUpdateResult, error)
}

type ProfileServiceImpl struct {
	profileRepo    repositories.ProfileRepository
	uploads        UploadService
	profilesBucket string
}

func NewProfileService(profileRepo repositories.ProfileRepository, uploads UploadService, profilesBucket string) ProfileService {
	return &ProfileServiceImpl{
		profileRepo:    profileRepo,
		uploads:        uploads,
		profilesBucket: profilesBucket,
	}
}

func (s *ProfileServiceImpl) GetOwn(db *gorm.DB, userID string) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return profile, nil
}

func (s *ProfileServiceImpl) GetByID(db *gorm.DB, id string) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return profile, nil
}

func (s *ProfileServiceImpl) Directory(db *gorm.DB, search string) ([]models.Profile, error) {
	profiles, err := s.profileRepo.FindDirectory(db, search)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return profiles, nil
}

func (s *ProfileServiceImpl) OnboardingForm(db *gorm.DB, userID string) (*wizard.OnboardingForm, error) {
	profile, err := s.GetOwn(db, userID)
	if err != nil {
		return nil, err
	}
	return wizard.OnboardingFormFromProfile(profile), nil
}

func (s *ProfileServiceImpl) ValidateOnboardingStep(step wizard.Step, form *wizard.OnboardingForm) *dto.StepValidationResponse {
	errs := wizard.ValidateOnboardingStep(step, form)
	return &dto.StepValidationResponse{
		Step:     int(step),
		NextStep: int(wizard.Advance(step, wizard.OnboardingLastStep, errs)),
		PrevStep: int(wizard.Back(step)),
		Valid:    len(errs) == 0,
		Errors:   errs,
	}
}

// Update saves the answers. A failed picture upload keeps the previous picture
// and is reported in PictureError rather than failing the whole update.
func (s *ProfileServiceImpl) Update(ctx context.Context, db *gorm.DB, userID string, role models.Role, update *dto.ProfileUpdate) (*dto.ProfileUpdateResult, error) {
	if errs := wizard.ValidateOnboarding(&update.Form); len(errs) > 0 {
		return nil, apperrors.ValidationError(errs)
	}

	profile, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	result := &dto.ProfileUpdateResult{}
	if update.Picture != nil {
		url, err := s.uploads.StoreImage(ctx, config.FileAvatar, s.profilesBucket, userID, update.Picture)
		if err != nil {
			logger.CtxWarn(ctx, "Profile picture upload failed, keeping previous", "user_id", userID, "error", err)
			result.PictureError = "Profile picture could not be uploaded"
			if appErr, ok := apperrors.AsAppError(err); ok {
				result.PictureError = appErr.Message
			}
		} else {
			profile.ProfilePictureURL = url
		}
	}

	update.Form.ApplyTo(profile)
	if update.CompleteOnboarding {
		profile.OnboardingCompleted = true
	}

	if err := s.profileRepo.Update(db, profile); err != nil {
		return nil, mapRepoError(err)
	}

	result.Profile = profile
	result.Redirect = auth.RedirectFor(role, false, profile.OnboardingCompleted)
	return result, nil
}
