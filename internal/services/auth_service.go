package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"pareto_backend/internal/auth"
	"pareto_backend/internal/logger"
	"pareto_backend/internal/models"
	"pareto_backend/internal/ratelimit"
	"pareto_backend/internal/repositories"
	"pareto_backend/internal/services/dto"
	"pareto_backend/pkg/apperrors"
)

type AuthService interface {
	RequestMagicLink(ctx context.Context, db *gorm.DB, req *dto.MagicLinkRequest, clientIP string) error
	CompleteMagicLink(ctx context.Context, db *gorm.DB, token string) (*dto.AuthResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	ChangePassword(ctx context.Context, db *gorm.DB, userID string, req *dto.ChangePasswordRequest) (*dto.AuthResponse, error)
	Session(db *gorm.DB, userID string) (*dto.SessionResponse, error)
	PasswordStrength(password string) *dto.PasswordStrengthResponse
}

type AuthServiceImpl struct {
	userRepo     repositories.UserRepository
	profileRepo  repositories.ProfileRepository
	tokens       *auth.TokenManager
	emails       *EmailService
	limiter      ratelimit.Limiter
	magicLinkTTL time.Duration
	minScore     int
	now          func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	tokens *auth.TokenManager,
	emails *EmailService,
	limiter ratelimit.Limiter,
	magicLinkTTL time.Duration,
	minScore int,
) AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		tokens:       tokens,
		emails:       emails,
		limiter:      limiter,
		magicLinkTTL: magicLinkTTL,
		minScore:     minScore,
		now:          time.Now,
	}
}

// RequestMagicLink stores a one-time token hash on the user and emails the link.
// Unknown emails get ErrUserNotFound and no email is sent.
func (s *AuthServiceImpl) RequestMagicLink(ctx context.Context, db *gorm.DB, req *dto.MagicLinkRequest, clientIP string) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if s.limiter != nil && !s.limiter.Allow(ctx, email+"|"+clientIP) {
		return apperrors.ErrTooManyRequests
	}

	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		return mapRepoError(err)
	}

	token, hash, err := auth.GenerateMagicToken()
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.SetMagicToken(db, user.ID, hash, s.now().Add(s.magicLinkTTL)); err != nil {
		return mapRepoError(err)
	}

	link := s.emails.MagicLinkURL(token, req.RedirectTo)
	if err := s.emails.SendMagicLink(ctx, user.Email, link, s.magicLinkTTL); err != nil {
		return apperrors.ExternalServiceError(err, "email", "Failed to send sign-in link")
	}
	logger.CtxInfo(ctx, "Magic link sent", "user_id", user.ID)
	return nil
}

// CompleteMagicLink exchanges a token for a session. A token works once.
func (s *AuthServiceImpl) CompleteMagicLink(ctx context.Context, db *gorm.DB, token string) (*dto.AuthResponse, error) {
	hash := auth.HashToken(strings.TrimSpace(token))
	user, err := s.userRepo.FindByMagicTokenHash(db, hash)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	now := s.now()
	if user.MagicTokenExpiresAt == nil || now.After(*user.MagicTokenExpiresAt) {
		return nil, apperrors.ErrMagicLinkExpired
	}

	ok, err := s.userRepo.ConsumeMagicToken(db, user.ID, hash, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidToken
	}
	user.LastSignInAt = &now

	logger.CtxInfo(ctx, "Signed in with magic link", "user_id", user.ID)
	return s.issue(db, user)
}

func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}
	if user.PasswordHash == "" || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.userRepo.RecordSignIn(db, user.ID, now); err != nil {
		logger.CtxWarn(ctx, "Failed to record sign-in", "user_id", user.ID, "error", err)
	}
	user.LastSignInAt = &now
	return s.issue(db, user)
}

// ChangePassword also clears the must-change flag and returns a fresh session
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, db *gorm.DB, userID string, req *dto.ChangePasswordRequest) (*dto.AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch.WithDetails(map[string]string{
			"confirm_password": "Passwords do not match",
		})
	}
	if err := auth.ValidatePassword(req.Password, s.minScore); err != nil {
		score := auth.PasswordStrength(req.Password)
		return nil, apperrors.ErrWeakPassword.WithDetails(map[string]interface{}{
			"score":    score,
			"required": s.minScore,
			"label":    auth.StrengthLabel(score),
		})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdatePassword(db, userID, hash, false); err != nil {
		return nil, mapRepoError(err)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	logger.CtxInfo(ctx, "Password changed", "user_id", userID)
	return s.issue(db, user)
}

func (s *AuthServiceImpl) Session(db *gorm.DB, userID string) (*dto.SessionResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	role := roleOf(user)
	onboarded := s.onboardingCompleted(db, user.ID)
	return &dto.SessionResponse{
		User:                userResponse(user),
		OnboardingCompleted: onboarded,
		Redirect:            auth.RedirectFor(role, user.MustChangePassword, onboarded),
	}, nil
}

func (s *AuthServiceImpl) PasswordStrength(password string) *dto.PasswordStrengthResponse {
	score := auth.PasswordStrength(password)
	return &dto.PasswordStrengthResponse{
		Score:      score,
		Max:        auth.MaxPasswordScore,
		Label:      auth.StrengthLabel(score),
		Acceptable: score >= s.minScore,
	}
}

func (s *AuthServiceImpl) issue(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	role := roleOf(user)
	token, expiresAt, err := s.tokens.Generate(user, role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Role:      role,
		Redirect:  auth.RedirectFor(role, user.MustChangePassword, s.onboardingCompleted(db, user.ID)),
		User:      userResponse(user),
	}, nil
}

// onboardingCompleted is false when the profile is missing
func (s *AuthServiceImpl) onboardingCompleted(db *gorm.DB, userID string) bool {
	profile, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		return false
	}
	return profile.OnboardingCompleted
}
