// Package wizard implements the step logic shared by the applicant intake form and
// the fellow onboarding form: per-step required fields, conditional fields and
// step advancement.
package wizard

import (
	"strconv"
	"strings"
	"time"

	"pareto_backend/internal/validator"
)

type Step int

const (
	StepPersonal   Step = 1
	StepEducation  Step = 2
	StepAdditional Step = 3
	// StepSuccess only exists in the intake wizard
	StepSuccess Step = 4
)

func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "personal"
	case StepEducation:
		return "education"
	case StepAdditional:
		return "additional"
	case StepSuccess:
		return "success"
	}
	return "step-" + strconv.Itoa(int(s))
}

// Errors maps a json field name to a message. Empty means the step is valid.
type Errors map[string]string

func (e Errors) add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

func (e Errors) merge(other Errors) {
	for field, msg := range other {
		e.add(field, msg)
	}
}

// Advance moves to the next step only when errs is empty; last caps the result.
func Advance(current, last Step, errs Errors) Step {
	if len(errs) > 0 {
		return current
	}
	if current >= last {
		return last
	}
	return current + 1
}

// Back never goes before the first step
func Back(current Step) Step {
	if current <= StepPersonal {
		return StepPersonal
	}
	return current - 1
}

const requiredMsg = "This field is required"

func required(errs Errors, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs.add(field, requiredMsg)
	}
}

func optionalURL(errs Errors, field, value string) {
	value = strings.TrimSpace(value)
	if value != "" && !validator.Default().Var(value, "url") {
		errs.add(field, "Must be a valid URL")
	}
}

// graduationYear accepts a four digit year within a sane window
func graduationYear(errs Errors, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		errs.add(field, requiredMsg)
		return
	}
	year, err := strconv.Atoi(value)
	now := time.Now().Year()
	if err != nil || year < 1950 || year > now+10 {
		errs.add(field, "Must be a valid year")
	}
}
