package repositories

import (
	"errors"

	"gorm.io/gorm"

	"pareto_backend/internal/models"
)

var ErrOpportunityNotFound = errors.New("opportunity not found")

type OpportunityRepository interface {
	Create(db *gorm.DB, opp *models.Opportunity) error
	FindByID(db *gorm.DB, id string) (*models.Opportunity, error)
	Update(db *gorm.DB, opp *models.Opportunity) error
	Delete(db *gorm.DB, id string) error
	// FindAll lists featured opportunities first, then newest
	FindAll(db *gorm.DB) ([]models.Opportunity, error)
}

type OpportunityRepositoryImpl struct{}

func NewOpportunityRepository() OpportunityRepository {
	return &OpportunityRepositoryImpl{}
}

func (r *OpportunityRepositoryImpl) Create(db *gorm.DB, opp *models.Opportunity) error {
	return db.Create(opp).Error
}

func (r *OpportunityRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Opportunity, error) {
	var opp models.Opportunity
	if err := db.First(&opp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, err
	}
	return &opp, nil
}

func (r *OpportunityRepositoryImpl) Update(db *gorm.DB, opp *models.Opportunity) error {
	result := db.Model(opp).Select(
		"position", "company", "description", "requirements", "tags",
		"featured", "logo_url", "contact_email", "location", "updated_at",
	).Updates(opp)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOpportunityNotFound
	}
	return nil
}

func (r *OpportunityRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Opportunity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOpportunityNotFound
	}
	return nil
}

func (r *OpportunityRepositoryImpl) FindAll(db *gorm.DB) ([]models.Opportunity, error) {
	var opps []models.Opportunity
	err := db.Order("featured DESC, created_at DESC").Find(&opps).Error
	return opps, err
}
