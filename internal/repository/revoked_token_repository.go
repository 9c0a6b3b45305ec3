package repository

import (
	"context"
	"time"

	"github.com/odo-atelier/budget-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevokedTokenRepository stores hashes of signed-out session tokens
type RevokedTokenRepository struct {
	db *gorm.DB
}

func NewRevokedTokenRepository(db *gorm.DB) *RevokedTokenRepository {
	return &RevokedTokenRepository{db: db}
}

// Create records a revocation; revoking the same token twice is a no-op
func (r *RevokedTokenRepository) Create(ctx context.Context, token *domain.RevokedToken) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(token).Error
}

// Exists reports whether a token hash has been revoked
func (r *RevokedTokenRepository) Exists(ctx context.Context, tokenHash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.RevokedToken{}).
		Where("token_hash = ?", tokenHash).
		Count(&count).Error
	return count > 0, err
}

// DeleteExpired removes revocations of tokens that expired before the given time
func (r *RevokedTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&domain.RevokedToken{})
	return result.RowsAffected, result.Error
}
