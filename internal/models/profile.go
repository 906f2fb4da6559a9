package models

import (
	"strings"

	"gorm.io/datatypes"
)

// Profile - a fellow's editable profile, seeded from their application on approval
type Profile struct {
	BaseModel
	UserID         string `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	FirstName      string `json:"first_name"`
	LastName       string `gorm:"index" json:"last_name"`
	Email          string `json:"email"`
	Country        string `json:"country"`
	Nationality    string `json:"nationality"`
	University     string `json:"university"`
	Major          string `json:"major"`
	GraduationYear string `json:"graduation_year"`
	CompanyName    string `json:"company_name"`

	CompetitiveProfiles datatypes.JSONSlice[string] `json:"competitive_profiles"`
	Website             string                      `json:"website"`
	LinkedIn            string                      `gorm:"column:linkedin" json:"linkedin"`
	XURL                string                      `gorm:"column:x_url" json:"x_url"`
	GitHub              string                      `gorm:"column:github" json:"github"`

	ProfilePictureURL   string `json:"profile_picture_url"`
	About               string `gorm:"type:text" json:"about"`
	OnboardingCompleted bool   `gorm:"not null;default:false" json:"onboarding_completed"`
}

func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// ProfileFromApplication copies the overlapping fields. No link is kept afterwards.
func ProfileFromApplication(userID string, app *Application) *Profile {
	profiles := make([]string, len(app.CompetitiveProfiles))
	copy(profiles, app.CompetitiveProfiles)
	return &Profile{
		UserID:              userID,
		FirstName:           app.FirstName,
		LastName:            app.LastName,
		Email:               app.Email,
		Country:             app.Country,
		Nationality:         app.Nationality,
		University:          app.School(),
		Major:               app.Major,
		GraduationYear:      app.GraduationYear,
		CompanyName:         app.CompanyName,
		CompetitiveProfiles: profiles,
		Website:             app.Website,
		LinkedIn:            app.LinkedIn,
		XURL:                app.XURL,
		GitHub:              app.GitHub,
	}
}
