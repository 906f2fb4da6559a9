package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"pareto_backend/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Profile, error)
	FindByUserID(db *gorm.DB, userID string) (*models.Profile, error)
	// CreateIfMissing inserts profile unless a row for the same user already exists.
	// The stored row is returned either way.
	CreateIfMissing(db *gorm.DB, profile *models.Profile) (*models.Profile, bool, error)
	Update(db *gorm.DB, profile *models.Profile) error
	FindDirectory(db *gorm.DB, search string) ([]models.Profile, error)
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func (r *ProfileRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := db.First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) CreateIfMissing(db *gorm.DB, profile *models.Profile) (*models.Profile, bool, error) {
	existing, err := r.FindByUserID(db, profile.UserID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, false, err
	}

	if err := db.Create(profile).Error; err != nil {
		// lost a race against another writer for the same user
		if existing, findErr := r.FindByUserID(db, profile.UserID); findErr == nil {
			return existing, false, nil
		}
		return nil, false, err
	}
	return profile, true, nil
}

func (r *ProfileRepositoryImpl) Update(db *gorm.DB, profile *models.Profile) error {
	result := db.Model(profile).Select(
		"first_name", "last_name", "email", "country", "nationality",
		"university", "major", "graduation_year", "company_name",
		"competitive_profiles", "website", "linkedin", "x_url", "github",
		"profile_picture_url", "about", "onboarding_completed", "updated_at",
	).Updates(profile)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) FindDirectory(db *gorm.DB, search string) ([]models.Profile, error) {
	query := db.Model(&models.Profile{}).Where("onboarding_completed = ?", true)

	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		like := "%" + term + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(university) LIKE ? OR LOWER(major) LIKE ? OR LOWER(company_name) LIKE ?",
			like, like, like, like, like,
		)
	}

	var profiles []models.Profile
	if err := query.Order("last_name ASC, first_name ASC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
