package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var phonePattern = regexp.MustCompile(`^\+?[0-9\- ()]{6,20}$`)

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("user_role", validateUserRole)
	_ = validate.RegisterValidation("org_type", validateOrganizationType)
	_ = validate.RegisterValidation("phone", validatePhone)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateUserRole(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	validRoles := []string{
		"PATIENT", "HOSPITAL_ADMIN", "DOCTOR", "NURSE", "STAFF",
		"PHARMA_ADMIN", "LAB_ADMIN", "SYSTEM_ADMIN",
	}

	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}

func validateOrganizationType(fl validator.FieldLevel) bool {
	orgType := fl.Field().String()
	for _, valid := range []string{"HOSPITAL", "PHARMACY", "LAB"} {
		if orgType == valid {
			return true
		}
	}
	return false
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}
