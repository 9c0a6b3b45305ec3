package repository

import (
	"context"

	"github.com/odo-atelier/budget-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository keeps the profile of everyone who has signed in
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID looks a profile up by the identity provider's subject
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert records a sign-in. Email and display name only change when the
// incoming claims carry a value.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	keep := func(column string) clause.Assignment {
		return clause.Assignment{
			Column: clause.Column{Name: column},
			Value:  gorm.Expr("COALESCE(NULLIF(excluded." + column + ", ''), users." + column + ")"),
		}
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Set{
			keep("email"),
			keep("display_name"),
			{Column: clause.Column{Name: "last_seen_at"}, Value: gorm.Expr("excluded.last_seen_at")},
			{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("excluded.updated_at")},
		},
	}).Create(user).Error
}
