package jwt

import (
	"context"
	"time"

	"Foodgram-Backend/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	JWTRepository interface {
		RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error
		IsTokenRevoked(ctx context.Context, jti string) (bool, error)
		PurgeExpired(ctx context.Context, now time.Time) error
	}

	jwtRepository struct {
		db *gorm.DB
	}
)

func NewJWTRepository(db *gorm.DB) JWTRepository {
	return &jwtRepository{db: db}
}

func (r *jwtRepository) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entities.RevokedToken{JTI: jti, ExpiresAt: expiresAt}).Error
}

func (r *jwtRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *jwtRepository) PurgeExpired(ctx context.Context, now time.Time) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&entities.RevokedToken{}).Error
}
