package service

import (
	"errors"

	"github.com/odo-atelier/budget-api/internal/store"
)

// Common service errors
var (
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUserContextRequired is returned when user context is not available
	ErrUserContextRequired = errors.New("user context required")

	// ErrProjectNotFound is returned when a project does not exist or belongs to another user
	ErrProjectNotFound = errors.New("project not found")

	// ErrExportNotFound is returned when an archived export does not exist
	ErrExportNotFound = errors.New("export not found")

	// ErrNotificationNotFound is returned when a notification is not found
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrItemNotFound is returned when a line item id is unknown in its category
	ErrItemNotFound = store.ErrItemNotFound
)
