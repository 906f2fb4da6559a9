package dto

import (
	"time"

	"pareto_backend/internal/models"
)

type MagicLinkRequest struct {
	Email      string `json:"email" validate:"required,email"`
	RedirectTo string `json:"redirect_to"`
}

type MagicLinkCallbackRequest struct {
	Token string `json:"token" form:"token" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type PasswordStrengthRequest struct {
	Password string `json:"password"`
}

type PasswordStrengthResponse struct {
	Score      int    `json:"score"`
	Max        int    `json:"max"`
	Label      string `json:"label"`
	Acceptable bool   `json:"acceptable"`
}

type AssignRoleRequest struct {
	Role string `json:"role" validate:"required,is-user-role"`
}

type UserResponse struct {
	ID                 string      `json:"id"`
	Email              string      `json:"email"`
	Name               string      `json:"name"`
	Role               models.Role `json:"role"`
	MustChangePassword bool        `json:"must_change_password"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Role      models.Role  `json:"role"`
	Redirect  string       `json:"redirect"`
	User      UserResponse `json:"user"`
}

type SessionResponse struct {
	User                UserResponse `json:"user"`
	OnboardingCompleted bool         `json:"onboarding_completed"`
	Redirect            string       `json:"redirect"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
