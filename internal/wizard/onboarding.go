package wizard

import (
	"strings"

	"pareto_backend/internal/models"
)

// OnboardingLastStep - submitting step 3 finishes onboarding
const OnboardingLastStep = StepAdditional

type OnboardingForm struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Country        string `json:"country"`
	Nationality    string `json:"nationality"`
	University     string `json:"university"`
	Major          string `json:"major"`
	GraduationYear string `json:"graduation_year"`
	CompanyName    string `json:"company_name"`

	About               string      `json:"about"`
	CompetitiveProfiles ProfileList `json:"competitive_profiles"`
	Website             string      `json:"website"`
	LinkedIn            string      `json:"linkedin"`
	XURL                string      `json:"x_url"`
	GitHub              string      `json:"github"`
}

func ValidateOnboardingStep(step Step, f *OnboardingForm) Errors {
	errs := Errors{}
	switch step {
	case StepPersonal:
		required(errs, "first_name", f.FirstName)
		required(errs, "last_name", f.LastName)
	case StepEducation:
		required(errs, "university", f.University)
		required(errs, "major", f.Major)
	case StepAdditional:
		// nothing required, only formats
		f.CompetitiveProfiles.validate(errs, "competitive_profiles")
		optionalURL(errs, "website", f.Website)
		optionalURL(errs, "linkedin", f.LinkedIn)
		optionalURL(errs, "x_url", f.XURL)
		optionalURL(errs, "github", f.GitHub)
	}
	return errs
}

func ValidateOnboarding(f *OnboardingForm) Errors {
	errs := Errors{}
	for step := StepPersonal; step <= OnboardingLastStep; step++ {
		errs.merge(ValidateOnboardingStep(step, f))
	}
	return errs
}

// OnboardingFormFromProfile pre-fills the wizard with what is already stored.
func OnboardingFormFromProfile(p *models.Profile) *OnboardingForm {
	return &OnboardingForm{
		FirstName:           p.FirstName,
		LastName:            p.LastName,
		Country:             p.Country,
		Nationality:         p.Nationality,
		University:          p.University,
		Major:               p.Major,
		GraduationYear:      p.GraduationYear,
		CompanyName:         p.CompanyName,
		About:               p.About,
		CompetitiveProfiles: ProfileList(p.CompetitiveProfiles),
		Website:             p.Website,
		LinkedIn:            p.LinkedIn,
		XURL:                p.XURL,
		GitHub:              p.GitHub,
	}
}

// ApplyTo copies the answers onto the profile. The picture URL and the
// onboarding flag are handled by the caller.
func (f *OnboardingForm) ApplyTo(p *models.Profile) {
	p.FirstName = strings.TrimSpace(f.FirstName)
	p.LastName = strings.TrimSpace(f.LastName)
	p.Country = f.Country
	p.Nationality = f.Nationality
	p.University = strings.TrimSpace(f.University)
	p.Major = strings.TrimSpace(f.Major)
	p.GraduationYear = strings.TrimSpace(f.GraduationYear)
	p.CompanyName = strings.TrimSpace(f.CompanyName)
	p.About = strings.TrimSpace(f.About)
	p.CompetitiveProfiles = f.CompetitiveProfiles.Clean()
	p.Website = strings.TrimSpace(f.Website)
	p.LinkedIn = strings.TrimSpace(f.LinkedIn)
	p.XURL = strings.TrimSpace(f.XURL)
	p.GitHub = strings.TrimSpace(f.GitHub)
}
