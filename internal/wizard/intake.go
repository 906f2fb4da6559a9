package wizard

import (
	"strings"

	"pareto_backend/internal/models"
	"pareto_backend/internal/validator"
)

// IntakeLastStep - the success screen
const IntakeLastStep = StepSuccess

// OtherUniversity is the choice that reveals the free-text university field
const OtherUniversity = "Other"

// GrandesEcoles are the schools whose applicants get the preparatory classes question
var GrandesEcoles = []string{
	"Polytechnique",
	"CentraleSupélec",
	"HEC Paris",
	"ESSEC",
	"ENS Paris",
	"Mines Paris",
	"ESCP",
	"Ponts ParisTech",
}

var PrepClassOptions = []string{"MP", "PC", "PSI", "PT", "BCPST", "ECG", "Khâgne", "None"}

var CompanyStages = []string{"idea", "prototype", "launched", "revenue", "funded"}

// IntakeForm - the applicant's answers across all steps
type IntakeForm struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Country     string `json:"country"`
	Nationality string `json:"nationality"`

	University         string `json:"university"`
	OtherUniversity    string `json:"other_university"`
	PreparatoryClasses string `json:"preparatory_classes"`
	Major              string `json:"major"`
	GraduationYear     string `json:"graduation_year"`

	BuildingCompany       bool        `json:"building_company"`
	CompanyName           string      `json:"company_name"`
	CompanyStage          string      `json:"company_stage"`
	CompanyDescription    string      `json:"company_description"`
	CompetitionExperience bool        `json:"competition_experience"`
	CompetitionResults    string      `json:"competition_results"`
	CompetitiveProfiles   ProfileList `json:"competitive_profiles"`
	Website               string      `json:"website"`
	LinkedIn              string      `json:"linkedin"`
	XURL                  string      `json:"x_url"`
	GitHub                string      `json:"github"`
	VideoURL              string      `json:"video_url"`

	// HasResume is set by the caller from the pending upload
	HasResume bool `json:"has_resume"`
}

// Visibility - which conditional fields the form shows
type Visibility struct {
	OtherUniversity    bool `json:"other_university"`
	PreparatoryClasses bool `json:"preparatory_classes"`
	CompanyFields      bool `json:"company_fields"`
	CompetitionResults bool `json:"competition_results"`
}

// IsGrandeEcole reports whether university is one of GrandesEcoles,
// compared case-insensitively on the whole name
func IsGrandeEcole(university string) bool {
	u := strings.TrimSpace(university)
	for _, school := range GrandesEcoles {
		if strings.EqualFold(u, school) {
			return true
		}
	}
	return false
}

func VisibleIntakeFields(f *IntakeForm) Visibility {
	return Visibility{
		OtherUniversity:    f.University == OtherUniversity,
		PreparatoryClasses: IsGrandeEcole(f.University),
		CompanyFields:      f.BuildingCompany,
		CompetitionResults: f.CompetitionExperience,
	}
}

// ValidateIntakeStep checks only the given step's fields.
func ValidateIntakeStep(step Step, f *IntakeForm) Errors {
	errs := Errors{}
	visible := VisibleIntakeFields(f)

	switch step {
	case StepPersonal:
		required(errs, "first_name", f.FirstName)
		required(errs, "last_name", f.LastName)
		required(errs, "email", f.Email)
		if strings.TrimSpace(f.Email) != "" && !validator.Default().Var(strings.TrimSpace(f.Email), "email") {
			errs.add("email", "Must be a valid email address")
		}
		required(errs, "country", f.Country)
		required(errs, "nationality", f.Nationality)

	case StepEducation:
		required(errs, "university", f.University)
		if visible.OtherUniversity {
			required(errs, "other_university", f.OtherUniversity)
		}
		if visible.PreparatoryClasses {
			required(errs, "preparatory_classes", f.PreparatoryClasses)
		}
		required(errs, "major", f.Major)
		graduationYear(errs, "graduation_year", f.GraduationYear)

	case StepAdditional:
		if !f.HasResume {
			errs.add("resume", "Resume file is required")
		}
		if visible.CompanyFields {
			required(errs, "company_name", f.CompanyName)
			required(errs, "company_stage", f.CompanyStage)
			required(errs, "company_description", f.CompanyDescription)
		}
		if visible.CompetitionResults {
			required(errs, "competition_results", f.CompetitionResults)
		}
		f.CompetitiveProfiles.validate(errs, "competitive_profiles")
		optionalURL(errs, "website", f.Website)
		optionalURL(errs, "linkedin", f.LinkedIn)
		optionalURL(errs, "x_url", f.XURL)
		optionalURL(errs, "github", f.GitHub)
		optionalURL(errs, "video_url", f.VideoURL)
	}
	return errs
}

// ValidateIntake runs every step, as done on final submit.
func ValidateIntake(f *IntakeForm) Errors {
	errs := Errors{}
	for step := StepPersonal; step <= StepAdditional; step++ {
		errs.merge(ValidateIntakeStep(step, f))
	}
	return errs
}

// ToApplication assembles the record to insert. Hidden conditional answers are dropped.
func (f *IntakeForm) ToApplication() *models.Application {
	visible := VisibleIntakeFields(f)
	app := &models.Application{
		FirstName:             strings.TrimSpace(f.FirstName),
		LastName:              strings.TrimSpace(f.LastName),
		Email:                 strings.ToLower(strings.TrimSpace(f.Email)),
		Phone:                 strings.TrimSpace(f.Phone),
		Country:               f.Country,
		Nationality:           f.Nationality,
		University:            f.University,
		Major:                 strings.TrimSpace(f.Major),
		GraduationYear:        strings.TrimSpace(f.GraduationYear),
		BuildingCompany:       f.BuildingCompany,
		CompetitionExperience: f.CompetitionExperience,
		CompetitiveProfiles:   f.CompetitiveProfiles.Clean(),
		Website:               strings.TrimSpace(f.Website),
		LinkedIn:              strings.TrimSpace(f.LinkedIn),
		XURL:                  strings.TrimSpace(f.XURL),
		GitHub:                strings.TrimSpace(f.GitHub),
		VideoURL:              strings.TrimSpace(f.VideoURL),
		Status:                models.ApplicationStatusPending,
		Flagged:               false,
	}
	if visible.OtherUniversity {
		app.OtherUniversity = strings.TrimSpace(f.OtherUniversity)
	}
	if visible.PreparatoryClasses {
		app.PreparatoryClasses = f.PreparatoryClasses
	}
	if visible.CompanyFields {
		app.CompanyName = strings.TrimSpace(f.CompanyName)
		app.CompanyStage = f.CompanyStage
		app.CompanyDescription = strings.TrimSpace(f.CompanyDescription)
	}
	if visible.CompetitionResults {
		app.CompetitionResults = strings.TrimSpace(f.CompetitionResults)
	}
	return app
}
