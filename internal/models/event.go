package models

import "time"

type Event struct {
	BaseModel
	Topic           string    `gorm:"not null" json:"topic"`
	StartsAt        time.Time `gorm:"not null;index" json:"starts_at"`
	DurationMinutes int       `gorm:"default:60" json:"duration_minutes"`
	ZoomLink        string    `json:"zoom_link"`
	MeetingID       string    `json:"meeting_id"`
	Passcode        string    `json:"passcode"`
	Description     string    `gorm:"type:text" json:"description"`
}

func (e *Event) EndsAt() time.Time {
	return e.StartsAt.Add(time.Duration(e.DurationMinutes) * time.Minute)
}
