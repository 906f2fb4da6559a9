package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"pareto_backend/internal/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	Create(db *gorm.DB, event *models.Event) error
	FindByID(db *gorm.DB, id string) (*models.Event, error)
	Update(db *gorm.DB, event *models.Event) error
	Delete(db *gorm.DB, id string) error
	// FindUpcoming returns events starting at or after now, soonest first
	FindUpcoming(db *gorm.DB, now time.Time) ([]models.Event, error)
	// FindPast returns events that started before now, most recent first
	FindPast(db *gorm.DB, now time.Time) ([]models.Event, error)
}

type EventRepositoryImpl struct{}

func NewEventRepository() EventRepository {
	return &EventRepositoryImpl{}
}

func (r *EventRepositoryImpl) Create(db *gorm.DB, event *models.Event) error {
	return db.Create(event).Error
}

func (r *EventRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Event, error) {
	var event models.Event
	if err := db.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Update(db *gorm.DB, event *models.Event) error {
	result := db.Model(event).Select(
		"topic", "starts_at", "duration_minutes", "zoom_link",
		"meeting_id", "passcode", "description", "updated_at",
	).Updates(event)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) FindUpcoming(db *gorm.DB, now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := db.Where("starts_at >= ?", now).Order("starts_at ASC").Find(&events).Error
	return events, err
}

func (r *EventRepositoryImpl) FindPast(db *gorm.DB, now time.Time) ([]models.Event, error) {
	var events []models.Event
	err := db.Where("starts_at < ?", now).Order("starts_at DESC").Find(&events).Error
	return events, err
}
