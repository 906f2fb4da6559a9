package dto

import (
	"pareto_backend/internal/models"
	"pareto_backend/internal/wizard"
)

type IntakeFormQuery struct {
	University            string `form:"university"`
	BuildingCompany       bool   `form:"building_company"`
	CompetitionExperience bool   `form:"competition_experience"`
}

type IntakeFormResponse struct {
	Visibility       wizard.Visibility `json:"visibility"`
	GrandesEcoles    []string          `json:"grandes_ecoles"`
	OtherUniversity  string            `json:"other_university_option"`
	PrepClassOptions []string          `json:"preparatory_class_options"`
	CompanyStages    []string          `json:"company_stages"`
	Steps            []string          `json:"steps"`
}

type StepValidationResponse struct {
	Step     int           `json:"step"`
	NextStep int           `json:"next_step"`
	PrevStep int           `json:"prev_step"`
	Valid    bool          `json:"valid"`
	Errors   wizard.Errors `json:"errors,omitempty"`
}

// IntakeSubmission - the final step: answers plus pending uploads
type IntakeSubmission struct {
	Form   wizard.IntakeForm
	Resume *FileUpload
	Deck   *FileUpload
	Memo   *FileUpload
}

// IntakeSubmissionResult - the stored application plus optional documents
// that could not be uploaded
type IntakeSubmissionResult struct {
	*models.Application
	DocumentErrors map[string]string `json:"document_errors,omitempty"`
}
