package match

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"zhipin-server/internal/domain/talent"
	"zhipin-server/internal/infrastructure/database/entities"
)

// Repository persists like/pass decisions.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a match repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert records a decision for the (user, job) pair, updating status and
// the unlocked flag in place when a row already exists.
func (r *Repository) Upsert(ctx context.Context, userID, jobID string, status talent.MatchStatus, unlocked bool) (*talent.Match, error) {
	entity := entities.Match{
		UserID:   userID,
		JobID:    jobID,
		Status:   status,
		Unlocked: unlocked,
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "job_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "unlocked", "updated_at"}),
		}).
		Create(&entity).Error; err != nil {
		return nil, fmt.Errorf("upsert match for user %s job %s: %w", userID, jobID, err)
	}

	// Re-read so conflict updates surface the row's real ID and timestamps.
	return r.FindByUserAndJob(ctx, userID, jobID)
}

// FindByUserAndJob fetches the decision for a pair.
func (r *Repository) FindByUserAndJob(ctx context.Context, userID, jobID string) (*talent.Match, error) {
	var entity entities.Match
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("match not found for user %s job %s", userID, jobID)
		}
		return nil, fmt.Errorf("fetch match for user %s job %s: %w", userID, jobID, err)
	}
	return entity.EtoD(), nil
}

// Ensure interface compliance.
var _ talent.MatchRepository = (*Repository)(nil)
