package repositories

import (
	"time"

	"gorm.io/gorm"

	"pareto_backend/internal/models"
)

// CountRow - a grouped count
type CountRow struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

type AnalyticsRepository interface {
	CountByStatus(db *gorm.DB) (map[models.ApplicationStatus]int64, error)
	CountFlagged(db *gorm.DB) (int64, error)
	CountByColumn(db *gorm.DB, column string, limit int) ([]CountRow, error)
	SubmissionTimes(db *gorm.DB) ([]time.Time, error)
}

type AnalyticsRepositoryImpl struct{}

func NewAnalyticsRepository() AnalyticsRepository {
	return &AnalyticsRepositoryImpl{}
}

// groupable columns; the column name is interpolated into SQL
var groupableColumns = map[string]bool{
	"country":     true,
	"nationality": true,
	"university":  true,
	"major":       true,
}

func (r *AnalyticsRepositoryImpl) CountByStatus(db *gorm.DB) (map[models.ApplicationStatus]int64, error) {
	var rows []CountRow
	err := db.Model(&models.Application{}).
		Select("status AS name, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ApplicationStatus]int64, len(models.ApplicationStatuses))
	for _, status := range models.ApplicationStatuses {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[models.ApplicationStatus(row.Name)] = row.Total
	}
	return counts, nil
}

func (r *AnalyticsRepositoryImpl) CountFlagged(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Application{}).Where("flagged = ?", true).Count(&count).Error
	return count, err
}

func (r *AnalyticsRepositoryImpl) CountByColumn(db *gorm.DB, column string, limit int) ([]CountRow, error) {
	if !groupableColumns[column] {
		return nil, gorm.ErrInvalidField
	}

	query := db.Model(&models.Application{}).
		Select(column + " AS name, COUNT(*) AS total").
		Where(column + " <> ''").
		Group(column).
		Order("total DESC, name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []CountRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalyticsRepositoryImpl) SubmissionTimes(db *gorm.DB) ([]time.Time, error) {
	var times []time.Time
	err := db.Model(&models.Application{}).Order("created_at ASC").Pluck("created_at", &times).Error
	return times, err
}
