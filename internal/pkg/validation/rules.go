package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// Departments is the fixed department vocabulary users pick from at
// registration. Achievements carry the value as a plain string snapshot.
var Departments = []string{"CSE", "ECE", "ME"}

// IsKnownDepartment reports whether dept is in the registration vocabulary.
func IsKnownDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}

// DepartmentRule is a validator.Func usable as a custom `department` binding
// tag. Empty values pass so the rule composes with omitempty.
func DepartmentRule(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return IsKnownDepartment(value)
}
