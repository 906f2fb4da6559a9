package validator

import (
	"github.com/go-playground/validator/v10"

	"pareto_backend/internal/logger"
	"pareto_backend/internal/models"
	"pareto_backend/internal/review"
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			logger.Fatal("failed to register custom validation tag", "tag", tag, "error", err)
		}
	}

	mustRegister("is-application-status", validateApplicationStatus)
	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-review-facet", validateReviewFacet)
}

// empty values pass; 'required' handles those

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ApplicationStatus(value).Valid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.Role(value).Valid()
}

func validateReviewFacet(fl validator.FieldLevel) bool {
	_, err := review.ParseFacet(fl.Field().String())
	return err == nil
}
