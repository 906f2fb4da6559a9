package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"pareto_backend/internal/auth"
	"pareto_backend/internal/logger"
	"pareto_backend/internal/metrics"
	"pareto_backend/internal/models"
	"pareto_backend/internal/repositories"
	"pareto_backend/internal/services/dto"
	"pareto_backend/pkg/apperrors"
)

// AccountService owns user identities, roles and the approval hand-off
// from Application to User+Profile.
type AccountService interface {
	CreateApprovedUser(ctx context.Context, db *gorm.DB, req *dto.CreateApprovedUserRequest) (*dto.CreateApprovedUserResult, error)
	GetUserByEmail(db *gorm.DB, email string) (*dto.UserResponse, error)
	AssignRole(db *gorm.DB, actorRole models.Role, userID, role string) (*dto.UserResponse, error)
	ReconcileProfiles(ctx context.Context, db *gorm.DB, limit int) (int, error)
	PurgeExpiredMagicTokens(ctx context.Context, db *gorm.DB) (int64, error)
	SeedSuperAdmin(ctx context.Context, db *gorm.DB, email, name, password string) error
}

type AccountServiceImpl struct {
	userRepo           repositories.UserRepository
	profileRepo        repositories.ProfileRepository
	appRepo            repositories.ApplicationRepository
	emails             *EmailService
	tempPasswordLength int
}

func NewAccountService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	appRepo repositories.ApplicationRepository,
	emails *EmailService,
	tempPasswordLength int,
) AccountService {
	return &AccountServiceImpl{
		userRepo:           userRepo,
		profileRepo:        profileRepo,
		appRepo:            appRepo,
		emails:             emails,
		tempPasswordLength: tempPasswordLength,
	}
}

// CreateApprovedUser creates (or reuses) the user, its fellow role and the
// profile copied from the latest application, all in one transaction.
// Calling it twice for the same email is safe.
func (s *AccountServiceImpl) CreateApprovedUser(ctx context.Context, db *gorm.DB, req *dto.CreateApprovedUserRequest) (*dto.CreateApprovedUserResult, error) {
	emailAddr := strings.TrimSpace(req.Email)
	if emailAddr == "" || strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.ValidationError(map[string]string{"name": "Name and email are required"})
	}

	app, err := s.appRepo.FindLatestByEmail(db, emailAddr)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNoApplicationForEmail
		}
		return nil, apperrors.InternalError(err)
	}

	result := &dto.CreateApprovedUserResult{Email: app.Email}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByEmail(tx, emailAddr)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrUserNotFound):
		password, err := auth.GenerateTemporaryPassword(s.tempPasswordLength)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		user = &models.User{
			Email:              emailAddr,
			Name:               strings.TrimSpace(req.Name),
			PasswordHash:       hash,
			MustChangePassword: true,
		}
		if err := s.userRepo.Create(tx, user); err != nil {
			return nil, mapRepoError(err)
		}
		result.UserCreated = true
		result.TemporaryPassword = password
	default:
		return nil, apperrors.InternalError(err)
	}

	// existing staff keep their role
	if user.Role == nil || !user.Role.Role.IsStaff() {
		if err := s.userRepo.UpsertRole(tx, user.ID, models.RoleFellow); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	profile, created, err := s.profileRepo.CreateIfMissing(tx, models.ProfileFromApplication(user.ID, app))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	result.UserID = user.ID
	result.ProfileID = profile.ID
	result.ProfileCreated = created
	logger.CtxInfo(ctx, "Approved user ready",
		"user_id", user.ID, "user_created", result.UserCreated, "profile_created", created)

	if err := s.emails.SendAcceptance(ctx, user.Email, req.Name, result.TemporaryPassword); err != nil {
		logger.CtxWarn(ctx, "Acceptance email failed", "user_id", user.ID, "error", err)
	} else {
		result.EmailSent = true
	}
	return result, nil
}

func (s *AccountServiceImpl) GetUserByEmail(db *gorm.DB, email string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := userResponse(user)
	return &resp, nil
}

func (s *AccountServiceImpl) AssignRole(db *gorm.DB, actorRole models.Role, userID, role string) (*dto.UserResponse, error) {
	if !auth.CanAssignRoles(actorRole) {
		return nil, apperrors.NewForbiddenError("Only super admins can assign roles")
	}
	target := models.Role(role)
	if !target.Valid() {
		return nil, apperrors.ErrInvalidUserRole
	}

	if _, err := s.userRepo.FindByID(db, userID); err != nil {
		return nil, mapRepoError(err)
	}
	if err := s.userRepo.UpsertRole(db, userID, target); err != nil {
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	logger.Info("Role assigned", "user_id", userID, "role", target)
	resp := userResponse(user)
	return &resp, nil
}

// ReconcileProfiles creates the profile for fellows that ended up without one.
// Users with no matching application are skipped.
func (s *AccountServiceImpl) ReconcileProfiles(ctx context.Context, db *gorm.DB, limit int) (int, error) {
	users, err := s.userRepo.FindFellowsWithoutProfile(db, limit)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range users {
		if ctx.Err() != nil {
			return created, ctx.Err()
		}
		user := &users[i]
		app, err := s.appRepo.FindLatestByEmail(db, user.Email)
		if err != nil {
			if !errors.Is(err, repositories.ErrApplicationNotFound) {
				logger.Warn("Application lookup failed", "user_id", user.ID, "error", err)
			}
			continue
		}
		_, ok, err := s.profileRepo.CreateIfMissing(db, models.ProfileFromApplication(user.ID, app))
		if err != nil {
			logger.Warn("Profile creation failed", "user_id", user.ID, "error", err)
			continue
		}
		if ok {
			created++
			metrics.ProfilesReconciled.Inc()
		}
	}
	return created, nil
}

// PurgeExpiredMagicTokens clears sign-in tokens that can no longer be used
func (s *AccountServiceImpl) PurgeExpiredMagicTokens(ctx context.Context, db *gorm.DB) (int64, error) {
	n, err := s.userRepo.ClearExpiredMagicTokens(db.WithContext(ctx), time.Now())
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}

// SeedSuperAdmin makes sure at least one super admin exists. Without a password
// the account signs in with a magic link.
func (s *AccountServiceImpl) SeedSuperAdmin(ctx context.Context, db *gorm.DB, email, name, password string) error {
	if email == "" {
		return nil
	}
	count, err := s.userRepo.CountByRole(db, models.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByEmail(tx, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		user = &models.User{Email: email, Name: name}
		if password != "" {
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}
		err = s.userRepo.Create(tx, user)
	}
	if err != nil {
		return err
	}

	if err := s.userRepo.UpsertRole(tx, user.ID, models.RoleSuperAdmin); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}
	logger.CtxInfo(ctx, "Seeded super admin", "user_id", user.ID)
	return nil
}

func userResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		Role:               roleOf(user),
		MustChangePassword: user.MustChangePassword,
	}
}

// roleOf defaults to fellow when the role row is missing or unknown
func roleOf(user *models.User) models.Role {
	if user.Role == nil {
		return models.RoleFellow
	}
	return models.ParseRole(string(user.Role.Role))
}
