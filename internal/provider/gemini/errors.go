package gemini

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey   = errors.New("gemini API key is not configured")
	ErrOverloaded      = errors.New("the AI service is currently overloaded, please try again later")
	ErrServiceNotFound = errors.New("AI service not found, please check your connection")
)

// EstimateParseError means the model answered but not with the expected shape.
type EstimateParseError struct {
	Op     string
	Reason string
}

func (e *EstimateParseError) Error() string {
	return fmt.Sprintf("parse %s response: %s", e.Op, e.Reason)
}
