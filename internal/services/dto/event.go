package dto

import "time"

type EventRequest struct {
	Topic           string    `json:"topic" validate:"required,max=200"`
	StartsAt        time.Time `json:"starts_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=1,max=1440"`
	ZoomLink        string    `json:"zoom_link" validate:"omitempty,url"`
	MeetingID       string    `json:"meeting_id"`
	Passcode        string    `json:"passcode"`
	Description     string    `json:"description"`
}

type EventListQuery struct {
	Past bool `form:"past"`
}
