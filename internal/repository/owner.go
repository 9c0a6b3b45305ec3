package repository

import (
	"context"

	"github.com/odo-atelier/budget-api/internal/auth"
	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// ApplyOwnerFilter restricts a query to rows owned by the authenticated user.
// System callers (API key, background jobs) see every row.
func ApplyOwnerFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	return ApplyOwnerFilterWithColumn(ctx, query, "user_id")
}

// ApplyOwnerFilterWithColumn applies the owner filter using a specific column name
func ApplyOwnerFilterWithColumn(ctx context.Context, query *gorm.DB, columnName string) *gorm.DB {
	user, ok := auth.FromContext(ctx)
	if !ok || user.IsSystem() {
		return query
	}
	return query.Where(columnName+" = ?", user.UserID)
}
