package dto

import (
	"pareto_backend/internal/models"
	"pareto_backend/internal/wizard"
)

type DirectoryQuery struct {
	Search string `form:"search"`
}

// ProfileUpdate - onboarding submit or a later profile edit
type ProfileUpdate struct {
	Form               wizard.OnboardingForm
	Picture            *FileUpload
	CompleteOnboarding bool
}

type ProfileUpdateResult struct {
	Profile  *models.Profile `json:"profile"`
	Redirect string          `json:"redirect"`
	// set when the picture upload failed and the previous picture was kept
	PictureError string `json:"picture_error,omitempty"`
}

type DirectoryResponse struct {
	Fellows []models.Profile `json:"fellows"`
	Total   int              `json:"total"`
}
