package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses

type ProjectDTO struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Config      BudgetConfig `json:"config"`
	CreatedAt   string       `json:"createdAt"` // ISO 8601
	UpdatedAt   string       `json:"updatedAt"` // ISO 8601
}

// ProjectDeletedDTO is returned after a delete and names the project that is now current
type ProjectDeletedDTO struct {
	DeletedID uuid.UUID  `json:"deletedId"`
	Current   ProjectDTO `json:"current"`
}

type AuthUserDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Initials string `json:"initials"`
}

type NotificationDTO struct {
	ID         uuid.UUID  `json:"id"`
	Variant    string     `json:"variant"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Read       bool       `json:"read"`
	CreatedAt  string     `json:"createdAt"` // ISO 8601
	EntityID   *uuid.UUID `json:"entityId,omitempty"`
	EntityType string     `json:"entityType,omitempty"`
}

// UnreadCountDTO represents the count of unread notifications
type UnreadCountDTO struct {
	Count int `json:"count"`
}

type ExportFileDTO struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"projectId"`
	Format      string    `json:"format"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   string    `json:"createdAt"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Request DTOs

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// UpdateItemRequest edits one field of a line item. Value may be a string or a number.
type UpdateItemRequest struct {
	Field ItemField   `json:"field" validate:"required"`
	Value interface{} `json:"value"`
}

// UpdateConfigRequest is a partial configuration update
type UpdateConfigRequest struct {
	DefaultTaxPercent   *float64 `json:"defaultTaxPercent,omitempty" validate:"omitempty,gte=0"`
	ProfitMarginPercent *float64 `json:"profitMarginPercent,omitempty" validate:"omitempty,gte=0"`
	AverageFreight      *float64 `json:"averageFreight,omitempty" validate:"omitempty,gte=0"`
	OperationalCost     *float64 `json:"operationalCost,omitempty" validate:"omitempty,gte=0"`
	InternalLabor       *float64 `json:"internalLabor,omitempty" validate:"omitempty,gte=0"`
	MonthlyVolume       *float64 `json:"monthlyVolume,omitempty"`
}

// Patch converts the request into a ConfigPatch
func (r UpdateConfigRequest) Patch() ConfigPatch {
	return ConfigPatch{
		DefaultTaxPercent:   r.DefaultTaxPercent,
		ProfitMarginPercent: r.ProfitMarginPercent,
		AverageFreight:      r.AverageFreight,
		OperationalCost:     r.OperationalCost,
		InternalLabor:       r.InternalLabor,
		MonthlyVolume:       r.MonthlyVolume,
	}
}

type CreateExportRequest struct {
	Format ExportFormat `json:"format" validate:"required,oneof=csv xlsx"`
}
