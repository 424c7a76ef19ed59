package conversation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "zhipin-server/internal/domain/interview"
	"zhipin-server/internal/infrastructure/database/entities"
)

// Repository persists interview conversations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByPublicID fetches a conversation by its public ID.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*domain.Conversation, error) {
	var entity entities.InterviewConversation
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, publicID)
		}
		return nil, fmt.Errorf("fetch conversation %s: %w", publicID, err)
	}
	return entity.EtoD()
}

// FindByUserAndJob fetches the single conversation for a (candidate, job)
// pair.
func (r *Repository) FindByUserAndJob(ctx context.Context, userID, jobID string) (*domain.Conversation, error) {
	var entity entities.InterviewConversation
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s job %s", domain.ErrNotFound, userID, jobID)
		}
		return nil, fmt.Errorf("fetch conversation for user %s job %s: %w", userID, jobID, err)
	}
	return entity.EtoD()
}

// CreateIfAbsent inserts the conversation unless the (user, job) pair already
// has one, in which case the existing row is returned. The unique index
// resolves concurrent creations to a single winner.
func (r *Repository) CreateIfAbsent(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	entity, err := entities.DtoE(conv)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "job_id"}},
			DoNothing: true,
		}).
		Create(entity)
	if result.Error != nil {
		return nil, fmt.Errorf("create conversation: %w", result.Error)
	}

	// Conflict means another request won the race; hand back its row.
	if result.RowsAffected == 0 {
		return r.FindByUserAndJob(ctx, conv.UserID, conv.JobID)
	}

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return conv, nil
}

// Update persists the full conversation state keyed by public ID.
func (r *Repository) Update(ctx context.Context, conv *domain.Conversation) error {
	entity, err := entities.DtoE(conv)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&entities.InterviewConversation{}).
		Where("public_id = ?", conv.PublicID).
		Updates(map[string]any{
			"status":               entity.Status,
			"current_turn":         entity.CurrentTurn,
			"history":              entity.History,
			"candidate_session_id": entity.CandidateSessionID,
			"employer_session_id":  entity.EmployerSessionID,
			"match_score":          entity.MatchScore,
			"evaluation_reason":    entity.EvaluationReason,
		})
	if result.Error != nil {
		return fmt.Errorf("update conversation %s: %w", conv.PublicID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, conv.PublicID)
	}
	return nil
}

// Ensure interface compliance.
var _ domain.Repository = (*Repository)(nil)
