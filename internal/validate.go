package internal

import (
	"strings"
	"unicode"
)

const (
	MsgNameEmpty        = "Name cannot be empty"
	MsgNameNotText      = "Name of person should be text"
	MsgNumberEmpty      = "Phone number cannot be empty"
	MsgNumberNotNumeric = "Phone number should be in numeric format"
	validationMsgPrefix = "Invalid input: "
)

type (
	// PersonInput holds form values that passed validation. Values are kept
	// as submitted; normalization happens at the data access boundary.
	PersonInput struct {
		Name   string
		Number string
	}

	ValidationError struct {
		Message string
	}
)

func (e *ValidationError) Error() string {
	return validationMsgPrefix + e.Message
}

func invalid(msg string) (PersonInput, error) {
	return PersonInput{}, &ValidationError{Message: msg}
}

// ValidateAdd checks the fields of a new record, first failure wins.
func ValidateAdd(name, number string) (PersonInput, error) {
	if isBlank(name) {
		return invalid(MsgNameEmpty)
	}
	if isDecimal(name) {
		return invalid(MsgNameNotText)
	}
	if err := validateNumber(number); err != nil {
		return PersonInput{}, err
	}
	return PersonInput{Name: name, Number: number}, nil
}

func ValidateUpdate(name, number string) (PersonInput, error) {
	if isBlank(name) {
		return invalid(MsgNameEmpty)
	}
	if err := validateNumber(number); err != nil {
		return PersonInput{}, err
	}
	return PersonInput{Name: name, Number: number}, nil
}

func ValidateDelete(name string) (PersonInput, error) {
	if isBlank(name) {
		return invalid(MsgNameEmpty)
	}
	return PersonInput{Name: name}, nil
}

func validateNumber(number string) error {
	if isBlank(number) {
		return &ValidationError{Message: MsgNumberEmpty}
	}
	if !isDecimal(number) {
		return &ValidationError{Message: MsgNumberNotNumeric}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// isDecimal reports whether s is non-empty and made only of decimal digits.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.Is(unicode.Nd, r) {
			return false
		}
	}
	return true
}
