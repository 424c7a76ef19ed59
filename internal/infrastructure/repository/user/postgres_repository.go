package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"zhipin-server/internal/domain/talent"
	"zhipin-server/internal/infrastructure/database/entities"
)

// Repository exposes account lookups and token persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a user repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByPublicID fetches a user by public ID.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*talent.User, error) {
	var entity entities.User
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %s", publicID)
		}
		return nil, fmt.Errorf("fetch user %s: %w", publicID, err)
	}
	return entity.EtoD(), nil
}

// ProfileRepository fetches candidate profiles.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository builds a profile repository.
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByUserID fetches the candidate profile owned by a user.
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*talent.CandidateProfile, error) {
	var entity entities.CandidateProfile
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile not found for user %s", userID)
		}
		return nil, fmt.Errorf("fetch profile for user %s: %w", userID, err)
	}
	return entity.EtoD(), nil
}

// UpdateTokens stores freshly refreshed OAuth tokens for a user.
func (r *Repository) UpdateTokens(ctx context.Context, publicID, accessToken, refreshToken string, expiresAt int64) error {
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("public_id = ?", publicID).
		Updates(map[string]any{
			"access_token":     accessToken,
			"refresh_token":    refreshToken,
			"token_expires_at": time.Unix(expiresAt, 0).UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("update tokens for user %s: %w", publicID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found: %s", publicID)
	}
	return nil
}

// Ensure interface compliance.
var (
	_ talent.UserRepository    = (*Repository)(nil)
	_ talent.ProfileRepository = (*ProfileRepository)(nil)
)
