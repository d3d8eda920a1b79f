package service

import "fmt"

// ValidationError is a field-level rejection of user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func validateNonNegativeFloat(name string, value float64) error {
	if value < 0 {
		return invalid(name, "must be >= 0")
	}
	return nil
}

func validatePositiveFloat(name string, value float64) error {
	if value <= 0 {
		return invalid(name, "must be > 0")
	}
	return nil
}
