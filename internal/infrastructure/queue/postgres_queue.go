package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"zhipin-server/internal/infrastructure/database/entities"
)

// PostgresQueue implements TaskQueue using the interview_tasks table.
type PostgresQueue struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewPostgresQueue creates a new PostgreSQL-backed task queue.
func NewPostgresQueue(db *gorm.DB, log zerolog.Logger) *PostgresQueue {
	return &PostgresQueue{
		db:  db,
		log: log.With().Str("component", "postgres-queue").Logger(),
	}
}

// Enqueue inserts a task row unless the conversation already has a queued or
// in-progress one, so repeated recommendation requests don't pile up runs.
func (q *PostgresQueue) Enqueue(ctx context.Context, task *Task) error {
	var live int64
	err := q.db.WithContext(ctx).
		Model(&entities.InterviewTask{}).
		Where("conversation_id = ?", task.ConversationID).
		Where("status IN ?", []string{"queued", "in_progress"}).
		Count(&live).Error
	if err != nil {
		return fmt.Errorf("check live tasks: %w", err)
	}
	if live > 0 {
		q.log.Debug().Str("conversation_id", task.ConversationID).Msg("task already queued")
		return nil
	}

	entity := entities.InterviewTask{
		TaskType:       task.TaskType,
		ConversationID: task.ConversationID,
		UserID:         task.UserID,
		JobID:          task.JobID,
		Status:         "queued",
		QueuedAt:       time.Now().UTC(),
	}
	if err := q.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}

	task.ID = entity.ID
	task.QueuedAt = entity.QueuedAt
	return nil
}

// Dequeue fetches the next queued task using FOR UPDATE SKIP LOCKED.
func (q *PostgresQueue) Dequeue(ctx context.Context) (*Task, error) {
	var entity entities.InterviewTask

	err := q.db.WithContext(ctx).
		Raw("SELECT * FROM interview_tasks WHERE status = ? ORDER BY queued_at ASC LIMIT 1 FOR UPDATE SKIP LOCKED", "queued").
		Scan(&entity).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // No tasks available
		}
		return nil, fmt.Errorf("dequeue task: %w", err)
	}

	// Check if no rows were returned (entity.ID will be 0)
	if entity.ID == 0 {
		return nil, nil // No tasks available
	}

	return &Task{
		ID:             entity.ID,
		TaskType:       entity.TaskType,
		ConversationID: entity.ConversationID,
		UserID:         entity.UserID,
		JobID:          entity.JobID,
		QueuedAt:       entity.QueuedAt,
	}, nil
}

// MarkProcessing updates the task status to in_progress.
func (q *PostgresQueue) MarkProcessing(ctx context.Context, taskID uint) error {
	now := time.Now()
	result := q.db.WithContext(ctx).
		Model(&entities.InterviewTask{}).
		Where("id = ?", taskID).
		Updates(map[string]any{
			"status":     "in_progress",
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("mark processing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("task not found: %d", taskID)
	}
	return nil
}

// MarkCompleted updates the task status to completed.
func (q *PostgresQueue) MarkCompleted(ctx context.Context, taskID uint) error {
	now := time.Now()
	result := q.db.WithContext(ctx).
		Model(&entities.InterviewTask{}).
		Where("id = ?", taskID).
		Updates(map[string]any{
			"status":       "completed",
			"completed_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return fmt.Errorf("mark completed: %w", result.Error)
	}
	return nil
}

// MarkFailed updates the task status to failed and records the error.
func (q *PostgresQueue) MarkFailed(ctx context.Context, taskID uint, taskErr error) error {
	now := time.Now()
	result := q.db.WithContext(ctx).
		Model(&entities.InterviewTask{}).
		Where("id = ?", taskID).
		Updates(map[string]any{
			"status":     "failed",
			"error":      taskErr.Error(),
			"failed_at":  now,
			"updated_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("mark failed: %w", result.Error)
	}
	return nil
}

// EnqueueAutoInterview schedules a background auto interview run. Satisfies
// the recommendation service's enqueuer.
func (q *PostgresQueue) EnqueueAutoInterview(ctx context.Context, conversationID, userID, jobID string) error {
	return q.Enqueue(ctx, &Task{
		TaskType:       TaskTypeAutoInterview,
		ConversationID: conversationID,
		UserID:         userID,
		JobID:          jobID,
	})
}

// GetQueueDepth returns the number of queued tasks.
func (q *PostgresQueue) GetQueueDepth(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&entities.InterviewTask{}).
		Where("status = ?", "queued").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("get queue depth: %w", err)
	}
	return count, nil
}

// Ensure interface compliance.
var _ TaskQueue = (*PostgresQueue)(nil)
