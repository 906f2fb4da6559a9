package dto

import "pareto_backend/internal/models"

type CountItem struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

type AnalyticsSummary struct {
	Total        int64                              `json:"total"`
	ByStatus     map[models.ApplicationStatus]int64 `json:"by_status"`
	Flagged      int64                              `json:"flagged"`
	ByCountry    []CountItem                        `json:"by_country"`
	ByUniversity []CountItem                        `json:"by_university"`
	ByMonth      []CountItem                        `json:"by_month"`
}
