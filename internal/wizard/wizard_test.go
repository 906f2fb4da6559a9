package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pareto_backend/internal/models"
)

func validIntake() *IntakeForm {
	return &IntakeForm{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "Ada@Example.com ",
		Country:        "United Kingdom",
		Nationality:    "British",
		University:     "MIT",
		Major:          "Mathematics",
		GraduationYear: "2026",
		HasResume:      true,
	}
}

func TestOnboarding_Step1WithoutNamesDoesNotAdvance(t *testing.T) {
	form := &OnboardingForm{}

	errs := ValidateOnboardingStep(StepPersonal, form)
	next := Advance(StepPersonal, OnboardingLastStep, errs)

	assert.Equal(t, StepPersonal, next)
	assert.Contains(t, errs, "first_name")
	assert.Contains(t, errs, "last_name")

	form.FirstName, form.LastName = "Ada", "Lovelace"
	errs = ValidateOnboardingStep(StepPersonal, form)
	assert.Empty(t, errs)
	assert.Equal(t, StepEducation, Advance(StepPersonal, OnboardingLastStep, errs))
}

func TestOnboarding_OnlyCurrentStepIsChecked(t *testing.T) {
	form := &OnboardingForm{FirstName: "Ada", LastName: "Lovelace"}

	// step 2 fields are missing but step 1 is all that is checked
	assert.Empty(t, ValidateOnboardingStep(StepPersonal, form))
	assert.Len(t, ValidateOnboardingStep(StepEducation, form), 2)
	assert.Empty(t, ValidateOnboardingStep(StepAdditional, form))
}

func TestAdvance_CapsAtLastStep(t *testing.T) {
	assert.Equal(t, StepSuccess, Advance(StepAdditional, IntakeLastStep, nil))
	assert.Equal(t, StepSuccess, Advance(StepSuccess, IntakeLastStep, Errors{}))
	assert.Equal(t, OnboardingLastStep, Advance(StepAdditional, OnboardingLastStep, nil))
	assert.Equal(t, StepPersonal, Back(StepPersonal))
	assert.Equal(t, StepEducation, Back(StepAdditional))
}

func TestVisibility_PreparatoryClasses(t *testing.T) {
	form := validIntake()

	form.University = "Polytechnique"
	assert.True(t, VisibleIntakeFields(form).PreparatoryClasses)

	form.University = "MIT"
	assert.False(t, VisibleIntakeFields(form).PreparatoryClasses)

	form.University = " hec paris "
	assert.True(t, VisibleIntakeFields(form).PreparatoryClasses)

	for _, other := range []string{"École Polytechnique Fédérale de Lausanne", "Polytechnique Montréal", "ESSEC Asia"} {
		form.University = other
		assert.False(t, VisibleIntakeFields(form).PreparatoryClasses, other)
	}
}

func TestVisibility_ConditionalFields(t *testing.T) {
	form := validIntake()
	v := VisibleIntakeFields(form)
	assert.False(t, v.CompanyFields)
	assert.False(t, v.CompetitionResults)
	assert.False(t, v.OtherUniversity)

	form.BuildingCompany = true
	form.CompetitionExperience = true
	form.University = OtherUniversity
	v = VisibleIntakeFields(form)
	assert.True(t, v.CompanyFields)
	assert.True(t, v.CompetitionResults)
	assert.True(t, v.OtherUniversity)
}

func TestIntake_PreparatoryClassesRequiredOnlyWhenVisible(t *testing.T) {
	form := validIntake()
	assert.Empty(t, ValidateIntakeStep(StepEducation, form))

	form.University = "Polytechnique"
	errs := ValidateIntakeStep(StepEducation, form)
	assert.Contains(t, errs, "preparatory_classes")

	form.PreparatoryClasses = "MP"
	assert.Empty(t, ValidateIntakeStep(StepEducation, form))
}

func TestIntake_Step1Rules(t *testing.T) {
	form := validIntake()
	assert.Empty(t, ValidateIntakeStep(StepPersonal, form))

	form.Email = "not-an-email"
	form.Country = ""
	errs := ValidateIntakeStep(StepPersonal, form)
	assert.Equal(t, "Must be a valid email address", errs["email"])
	assert.Contains(t, errs, "country")
	assert.Equal(t, StepPersonal, Advance(StepPersonal, IntakeLastStep, errs))
}

func TestIntake_Step3Rules(t *testing.T) {
	form := validIntake()
	form.HasResume = false
	form.BuildingCompany = true
	form.CompetitionExperience = true
	form.CompetitiveProfiles = ProfileList{"https://codeforces.com/profile/ada", "nope"}

	errs := ValidateIntakeStep(StepAdditional, form)
	assert.Contains(t, errs, "resume")
	assert.Contains(t, errs, "company_name")
	assert.Contains(t, errs, "company_stage")
	assert.Contains(t, errs, "company_description")
	assert.Contains(t, errs, "competition_results")
	assert.Contains(t, errs, "competitive_profiles[1]")
	assert.NotContains(t, errs, "competitive_profiles[0]")
}

func TestIntake_GraduationYear(t *testing.T) {
	form := validIntake()
	form.GraduationYear = "20x6"
	assert.Contains(t, ValidateIntakeStep(StepEducation, form), "graduation_year")
}

func TestIntake_ToApplicationDropsHiddenAnswers(t *testing.T) {
	form := validIntake()
	form.CompanyName = "Stale Co"
	form.PreparatoryClasses = "MP"
	form.CompetitiveProfiles = ProfileList{" https://github.com/ada ", ""}

	require.Empty(t, ValidateIntake(form))
	app := form.ToApplication()

	assert.Equal(t, "ada@example.com", app.Email)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.False(t, app.Flagged)
	assert.Empty(t, app.CompanyName)
	assert.Empty(t, app.PreparatoryClasses)
	assert.Equal(t, []string{"https://github.com/ada"}, []string(app.CompetitiveProfiles))
}

func TestProfileList_RemoveAtReindexes(t *testing.T) {
	list := ProfileList{}.Add("a").Add("b").Add("c").Add("d")

	list = list.RemoveAt(1)
	assert.Equal(t, ProfileList{"a", "c", "d"}, list)

	list = list.RemoveAt(0)
	assert.Equal(t, ProfileList{"c", "d"}, list)
	assert.Equal(t, "d", list[1])

	assert.Equal(t, ProfileList{"c", "d"}, list.RemoveAt(5))
	assert.Equal(t, ProfileList{"c", "d"}, list.RemoveAt(-1))
}

func TestProfileList_UpdateDoesNotAlias(t *testing.T) {
	list := ProfileList{"a", "b"}
	updated := list.Update(1, "z")

	assert.Equal(t, ProfileList{"a", "z"}, updated)
	assert.Equal(t, ProfileList{"a", "b"}, list)
	assert.Equal(t, list, list.Update(2, "x"))
}

func TestOnboardingForm_RoundTripsProfile(t *testing.T) {
	profile := &models.Profile{FirstName: "Ada", LastName: "Lovelace", University: "MIT", Major: "Math"}
	profile.CompetitiveProfiles = []string{"https://kaggle.com/ada"}

	form := OnboardingFormFromProfile(profile)
	form.About = "  Analytical engines  "
	form.CompetitiveProfiles = form.CompetitiveProfiles.Add("https://github.com/ada")
	form.ApplyTo(profile)

	assert.Equal(t, "Analytical engines", profile.About)
	assert.Equal(t, []string{"https://kaggle.com/ada", "https://github.com/ada"}, []string(profile.CompetitiveProfiles))
}
