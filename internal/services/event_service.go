package services

import (
	"time"

	"gorm.io/gorm"

	"pareto_backend/internal/models"
	"pareto_backend/internal/repositories"
	"pareto_backend/internal/services/dto"
	"pareto_backend/pkg/apperrors"
)

type EventService interface {
	Create(db *gorm.DB, req *dto.EventRequest) (*models.Event, error)
	Update(db *gorm.DB, id string, req *dto.EventRequest) (*models.Event, error)
	Delete(db *gorm.DB, id string) error
	Get(db *gorm.DB, id string) (*models.Event, error)
	// List returns upcoming events soonest first, or past events latest first
	List(db *gorm.DB, past bool) ([]models.Event, error)
}

type EventServiceImpl struct {
	eventRepo repositories.EventRepository
	now       func() time.Time
}

func NewEventService(eventRepo repositories.EventRepository) EventService {
	return &EventServiceImpl{eventRepo: eventRepo, now: time.Now}
}

func (s *EventServiceImpl) Create(db *gorm.DB, req *dto.EventRequest) (*models.Event, error) {
	event := &models.Event{}
	applyEvent(event, req)
	if err := s.eventRepo.Create(db, event); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return event, nil
}

func (s *EventServiceImpl) Update(db *gorm.DB, id string, req *dto.EventRequest) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	applyEvent(event, req)
	if err := s.eventRepo.Update(db, event); err != nil {
		return nil, mapRepoError(err)
	}
	return event, nil
}

func (s *EventServiceImpl) Delete(db *gorm.DB, id string) error {
	return mapRepoError(s.eventRepo.Delete(db, id))
}

func (s *EventServiceImpl) Get(db *gorm.DB, id string) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return event, nil
}

func (s *EventServiceImpl) List(db *gorm.DB, past bool) ([]models.Event, error) {
	var (
		events []models.Event
		err    error
	)
	if past {
		events, err = s.eventRepo.FindPast(db, s.now())
	} else {
		events, err = s.eventRepo.FindUpcoming(db, s.now())
	}
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return events, nil
}

func applyEvent(event *models.Event, req *dto.EventRequest) {
	event.Topic = req.Topic
	event.StartsAt = req.StartsAt.UTC()
	event.DurationMinutes = req.DurationMinutes
	if event.DurationMinutes == 0 {
		event.DurationMinutes = 60
	}
	event.ZoomLink = req.ZoomLink
	event.MeetingID = req.MeetingID
	event.Passcode = req.Passcode
	event.Description = req.Description
}
