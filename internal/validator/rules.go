package validator

import (
	"log"

	"bootcamp_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules registers the model-derived validation tags on
// the given validator instance.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that cannot be registered is a startup error.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-user-role': role must be one of the known account roles
	mustRegister("is-user-role", validateUserRole)

	// 'is-career': career tag must be one of the known careers
	mustRegister("is-career", validateCareer)

	// 'is-minimum-skill': course entry skill level
	mustRegister("is-minimum-skill", validateMinimumSkill)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // empty values are for 'required' to catch
	}

	switch models.UserRole(value) {
	case models.UserRoleUser, models.UserRolePublisher, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}

func validateCareer(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.IsValidCareer(value)
}

func validateMinimumSkill(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	switch value {
	case models.SkillBeginner, models.SkillIntermediate, models.SkillAdvanced:
		return true
	default:
		return false
	}
}
