package models

import (
	"strings"

	"gorm.io/datatypes"
)

// Application - a submitted fellowship application. Status and Flagged are the only
// fields changed after submission; rows are never deleted.
type Application struct {
	BaseModel
	FirstName   string `gorm:"not null" json:"first_name"`
	LastName    string `gorm:"not null" json:"last_name"`
	Email       string `gorm:"not null;index" json:"email"`
	Phone       string `json:"phone"`
	Country     string `json:"country"`
	Nationality string `json:"nationality"`

	University         string `json:"university"`
	OtherUniversity    string `json:"other_university"`
	PreparatoryClasses string `json:"preparatory_classes"`
	Major              string `json:"major"`
	GraduationYear     string `json:"graduation_year"`

	BuildingCompany       bool   `gorm:"default:false" json:"building_company"`
	CompanyName           string `json:"company_name"`
	CompanyStage          string `json:"company_stage"`
	CompanyDescription    string `gorm:"type:text" json:"company_description"`
	CompetitionExperience bool   `gorm:"default:false" json:"competition_experience"`
	CompetitionResults    string `gorm:"type:text" json:"competition_results"`

	CompetitiveProfiles datatypes.JSONSlice[string] `json:"competitive_profiles"`
	Website             string                      `json:"website"`
	LinkedIn            string                      `gorm:"column:linkedin" json:"linkedin"`
	XURL                string                      `gorm:"column:x_url" json:"x_url"`
	GitHub              string                      `gorm:"column:github" json:"github"`
	VideoURL            string                      `json:"video_url"`

	// object keys in the private documents bucket
	ResumeURL string `json:"resume_url"`
	DeckURL   string `json:"deck_url"`
	MemoURL   string `json:"memo_url"`

	Status  ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Flagged bool              `gorm:"not null;default:false" json:"flagged"`
}

func (a *Application) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// School is the university as shown to reviewers
func (a *Application) School() string {
	if a.University == "Other" && a.OtherUniversity != "" {
		return a.OtherUniversity
	}
	return a.University
}
