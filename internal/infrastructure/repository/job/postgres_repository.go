package job

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"zhipin-server/internal/domain/talent"
	"zhipin-server/internal/infrastructure/database/entities"
)

// Repository exposes job lookups.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a job repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByPublicID fetches a job with its company by public ID.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*talent.Job, error) {
	var entity entities.Job
	if err := r.db.WithContext(ctx).
		Preload("Company").
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("job not found: %s", publicID)
		}
		return nil, fmt.Errorf("fetch job %s: %w", publicID, err)
	}
	return entity.EtoD(), nil
}

// ListOpen returns open jobs newest first, capped at limit.
func (r *Repository) ListOpen(ctx context.Context, limit int) ([]*talent.Job, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []entities.Job
	if err := r.db.WithContext(ctx).
		Preload("Company").
		Where("status = ?", talent.JobStatusOpen).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list open jobs: %w", err)
	}

	jobs := make([]*talent.Job, len(rows))
	for i := range rows {
		jobs[i] = rows[i].EtoD()
	}
	return jobs, nil
}

// Ensure interface compliance.
var _ talent.JobRepository = (*Repository)(nil)
