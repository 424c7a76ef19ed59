package queue

import (
	"context"
	"time"
)

// TaskTypeAutoInterview is the only task type currently enqueued: run a
// full auto interview and evaluation for one conversation.
const TaskTypeAutoInterview = "auto_interview"

// Task represents a background interview task to be processed.
type Task struct {
	ID             uint
	TaskType       string
	ConversationID string
	UserID         string
	JobID          string
	QueuedAt       time.Time
}

// TaskQueue defines the interface for task queue operations.
type TaskQueue interface {
	// Enqueue adds a task unless the conversation already has a live one
	Enqueue(ctx context.Context, task *Task) error

	// Dequeue fetches the next available task using SELECT FOR UPDATE SKIP LOCKED
	Dequeue(ctx context.Context) (*Task, error)

	// MarkProcessing updates task status to in_progress
	MarkProcessing(ctx context.Context, taskID uint) error

	// MarkCompleted updates task status to completed
	MarkCompleted(ctx context.Context, taskID uint) error

	// MarkFailed updates task status to failed
	MarkFailed(ctx context.Context, taskID uint, err error) error

	// GetQueueDepth returns the number of queued tasks
	GetQueueDepth(ctx context.Context) (int64, error)
}
