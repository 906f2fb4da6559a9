package services

import (
	"sort"

	"gorm.io/gorm"

	"pareto_backend/internal/content"
	"pareto_backend/internal/repositories"
	"pareto_backend/internal/services/dto"
	"pareto_backend/pkg/apperrors"
)

const topUniversities = 10

type AnalyticsService interface {
	Summary(db *gorm.DB) (*dto.AnalyticsSummary, error)
	// Samples are fixed placeholder datasets for the charts
	Samples() content.Samples
}

type AnalyticsServiceImpl struct {
	analyticsRepo repositories.AnalyticsRepository
	catalogue     *content.Catalogue
}

func NewAnalyticsService(analyticsRepo repositories.AnalyticsRepository, catalogue *content.Catalogue) AnalyticsService {
	return &AnalyticsServiceImpl{analyticsRepo: analyticsRepo, catalogue: catalogue}
}

func (s *AnalyticsServiceImpl) Summary(db *gorm.DB) (*dto.AnalyticsSummary, error) {
	byStatus, err := s.analyticsRepo.CountByStatus(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	flagged, err := s.analyticsRepo.CountFlagged(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	countries, err := s.analyticsRepo.CountByColumn(db, "country", 0)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	universities, err := s.analyticsRepo.CountByColumn(db, "university", topUniversities)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	times, err := s.analyticsRepo.SubmissionTimes(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	summary := &dto.AnalyticsSummary{
		ByStatus:     byStatus,
		Flagged:      flagged,
		ByCountry:    countItems(countries),
		ByUniversity: countItems(universities),
	}
	for _, n := range byStatus {
		summary.Total += n
	}

	perMonth := map[string]int64{}
	for _, t := range times {
		perMonth[t.UTC().Format("2006-01")]++
	}
	months := make([]string, 0, len(perMonth))
	for m := range perMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	summary.ByMonth = make([]dto.CountItem, 0, len(months))
	for _, m := range months {
		summary.ByMonth = append(summary.ByMonth, dto.CountItem{Name: m, Total: perMonth[m]})
	}
	return summary, nil
}

func (s *AnalyticsServiceImpl) Samples() content.Samples {
	return s.catalogue.Samples
}

func countItems(rows []repositories.CountRow) []dto.CountItem {
	items := make([]dto.CountItem, len(rows))
	for i, r := range rows {
		items[i] = dto.CountItem{Name: r.Name, Total: r.Total}
	}
	return items
}
