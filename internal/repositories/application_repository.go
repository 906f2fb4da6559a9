package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"pareto_backend/internal/models"
)

var ErrApplicationNotFound = errors.New("application not found")

type ApplicationRepository interface {
	Create(db *gorm.DB, app *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	FindLatestByEmail(db *gorm.DB, email string) (*models.Application, error)
	// FindAll returns every application, newest submission first
	FindAll(db *gorm.DB) ([]models.Application, error)
	UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) error
	SetFlagged(db *gorm.DB, id string, flagged bool) error
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, app *models.Application) error {
	app.Email = normalizeEmail(app.Email)
	if app.Status == "" {
		app.Status = models.ApplicationStatusPending
	}
	return db.Create(app).Error
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var app models.Application
	if err := db.First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindLatestByEmail(db *gorm.DB, email string) (*models.Application, error) {
	var app models.Application
	err := db.Where("LOWER(email) = ?", normalizeEmail(email)).
		Order("created_at DESC").
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindAll(db *gorm.DB) ([]models.Application, error) {
	var apps []models.Application
	if err := db.Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) error {
	result := db.Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) SetFlagged(db *gorm.DB, id string, flagged bool) error {
	result := db.Model(&models.Application{}).Where("id = ?", id).Update("flagged", flagged)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
