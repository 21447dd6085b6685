// Package validator holds the field format rules applied to employee data
// before it is forwarded upstream or stored locally.
//
// Every rule treats a blank value as valid. Required-field enforcement is left
// to the caller; a record created without an ID, for example, is assigned one
// later.
package validator

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hashicorp-forge/staffdir/pkg/models"
)

var (
	alphaNumericPattern = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)
	numericPattern      = regexp.MustCompile(`^[0-9]+$`)
)

var (
	// AlphaNumeric allows ASCII letters, digits and spaces.
	AlphaNumeric = validation.Match(alphaNumericPattern).
			Error("must contain only alphanumeric characters and spaces")

	// Numeric allows non-negative integers without sign or decimal point.
	Numeric = validation.Match(numericPattern).
		Error("must contain only digits")
)

// IsBlank reports whether s is empty.
func IsBlank(s string) bool {
	return s == ""
}

// IsAlphaNumericOrBlank reports whether s is blank or consists only of ASCII
// letters, digits and spaces.
func IsAlphaNumericOrBlank(s string) bool {
	return validation.Validate(s, AlphaNumeric) == nil
}

// IsNumericOrBlank reports whether s is blank or consists only of ASCII
// digits.
func IsNumericOrBlank(s string) bool {
	return validation.Validate(s, Numeric) == nil
}

// ValidateEmployee checks every field of emp and returns a
// validation.Errors keyed by JSON field name describing each failure.
func ValidateEmployee(emp *models.Employee) error {
	return validation.ValidateStruct(emp,
		validation.Field(&emp.ID, Numeric),
		validation.Field(&emp.Name, AlphaNumeric),
		validation.Field(&emp.Salary, Numeric),
		validation.Field(&emp.Age, Numeric),
		validation.Field(&emp.ProfileImage, AlphaNumeric),
	)
}

// IsValidEmployee reports whether every field of emp passes its format rule.
func IsValidEmployee(emp models.Employee) bool {
	return ValidateEmployee(&emp) == nil
}
