package dto

import (
	"time"

	"pareto_backend/internal/models"
)

type ApplicationListQuery struct {
	Search string `form:"search" json:"search"`
	Facet  string `form:"facet" json:"facet" validate:"omitempty,is-review-facet"`
}

type CompareQuery struct {
	ApplicationListQuery
	N int `form:"n" json:"n" validate:"omitempty,min=0,max=100"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ShortcutRequest struct {
	Key    string `json:"key" validate:"required"`
	Search string `json:"search"`
	Facet  string `json:"facet" validate:"omitempty,is-review-facet"`
}

type ApplicationListResponse struct {
	Applications []models.Application `json:"applications"`
	Total        int                  `json:"total"`
}

type NeighborsResponse struct {
	CurrentID string `json:"current_id"`
	PrevID    string `json:"prev_id,omitempty"`
	NextID    string `json:"next_id,omitempty"`
	Position  int    `json:"position"` // -1 when the current id is outside the list
	Total     int    `json:"total"`
}

type ShortcutResponse struct {
	Action      string              `json:"action"`
	Application *models.Application `json:"application,omitempty"`
	NavigateTo  string              `json:"navigate_to,omitempty"`
	Closed      bool                `json:"closed,omitempty"`
}

type DocumentLink struct {
	Kind      string    `json:"kind"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type DocumentLinksResponse struct {
	ApplicationID string         `json:"application_id"`
	Documents     []DocumentLink `json:"documents"`
}
