package domain

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidVolume is returned when the monthly production volume cannot divide costs
	ErrInvalidVolume = errors.New("monthly volume must be greater than zero")

	// ErrUnknownField is returned when an item update names a field that does not exist
	ErrUnknownField = errors.New("unknown item field")

	// ErrUnknownCategory is returned for a category outside materials, machines and production
	ErrUnknownCategory = errors.New("unknown category")
)

// Problem types carried in APIError.Type
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeNotFound      = "not_found"
	ErrorTypeBadRequest    = "bad_request"
	ErrorTypeConflict      = "conflict"
	ErrorTypeUnauthorized  = "unauthorized"
	ErrorTypeForbidden     = "forbidden"
	ErrorTypeUnprocessable = "unprocessable_entity"
	ErrorTypeRateLimited   = "rate_limited"
	ErrorTypeInternal      = "internal_error"
)

// APIError is the JSON body of every failed request, modelled on RFC 7807
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// NewAPIError titles the problem with the status text
func NewAPIError(status int, errorType, detail string) APIError {
	return APIError{
		Type:   errorType,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
}

// NewValidationError reports per-field messages keyed by JSON field name
func NewValidationError(fields map[string]string) APIError {
	return APIError{
		Type:   ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: fields,
	}
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// validationMessages covers validator tags without a dedicated message
var validationMessages = map[string]string{
	"required": "This field is required",
	"numeric":  "Must be a numeric value",
	"len":      "Must be exactly the specified length",
	"eq":       "Must equal the specified value",
	"ne":       "Must not equal the specified value",
	"dive":     "One of the values is invalid",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := validationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
