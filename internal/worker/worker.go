package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"zhipin-server/internal/domain/interview"
	"zhipin-server/internal/infrastructure/metrics"
	"zhipin-server/internal/infrastructure/observability"
	"zhipin-server/internal/infrastructure/queue"
)

// Worker processes background interview tasks from the queue.
type Worker struct {
	id               int
	queue            queue.TaskQueue
	interviewService interview.Service
	taskTimeout      time.Duration
	log              zerolog.Logger
	stopChan         chan struct{}
}

// NewWorker creates a new background worker.
func NewWorker(
	id int,
	taskQueue queue.TaskQueue,
	interviewService interview.Service,
	taskTimeout time.Duration,
	log zerolog.Logger,
) *Worker {
	return &Worker{
		id:               id,
		queue:            taskQueue,
		interviewService: interviewService,
		taskTimeout:      taskTimeout,
		log:              log.With().Int("worker_id", id).Str("component", "worker").Logger(),
		stopChan:         make(chan struct{}),
	}
}

// Start begins processing tasks from the queue.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info().Msg("worker started")

	ticker := time.NewTicker(2 * time.Second) // Poll every 2 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker stopped by context")
			return
		case <-w.stopChan:
			w.log.Info().Msg("worker stopped")
			return
		case <-ticker.C:
			w.processNextTask(ctx)
		}
	}
}

// Stop gracefully stops the worker.
func (w *Worker) Stop() {
	close(w.stopChan)
}

func (w *Worker) processNextTask(ctx context.Context) {
	task, err := w.queue.Dequeue(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("failed to dequeue task")
		return
	}
	if task == nil {
		// No tasks available
		return
	}

	w.log.Info().
		Str("conversation_id", task.ConversationID).
		Str("user_id", task.UserID).
		Str("task_type", task.TaskType).
		Msg("processing background task")

	if err := w.queue.MarkProcessing(ctx, task.ID); err != nil {
		w.log.Error().Err(err).Uint("task_id", task.ID).Msg("failed to mark processing")
		return
	}

	taskCtx, cancel := context.WithTimeout(ctx, w.taskTimeout)
	defer cancel()

	if err := w.executeTask(taskCtx, task); err != nil {
		w.log.Error().Err(err).Str("conversation_id", task.ConversationID).Msg("task execution failed")
		metrics.RecordBackgroundTask(task.TaskType, "failed")
		if markErr := w.queue.MarkFailed(ctx, task.ID, err); markErr != nil {
			w.log.Error().Err(markErr).Uint("task_id", task.ID).Msg("failed to mark task as failed")
		}
		return
	}

	metrics.RecordBackgroundTask(task.TaskType, "completed")
	if err := w.queue.MarkCompleted(ctx, task.ID); err != nil {
		w.log.Error().Err(err).Uint("task_id", task.ID).Msg("failed to mark task as completed")
		return
	}

	w.log.Info().Str("conversation_id", task.ConversationID).Msg("task completed successfully")
}

func (w *Worker) executeTask(ctx context.Context, task *queue.Task) error {
	switch task.TaskType {
	case queue.TaskTypeAutoInterview:
		ctx, span := observability.StartInterviewSpan(ctx, task.ConversationID, task.UserID, task.JobID)
		defer span.End()

		outcome, err := w.interviewService.RunAuto(ctx, task.ConversationID, task.UserID, &spanObserver{span: span})
		if err != nil {
			observability.RecordError(span, err)
			return err
		}
		if outcome.Evaluation != nil {
			observability.AddScoreEvent(span, outcome.Evaluation.Score, outcome.Matched)
		}
		return nil
	default:
		return fmt.Errorf("unknown task type: %s", task.TaskType)
	}
}

// spanObserver records completed turns on the task span.
type spanObserver struct {
	span trace.Span
}

func (o *spanObserver) OnTurnStarted(t interview.Turn) {}

func (o *spanObserver) OnTurnDelta(t interview.Turn) {}

func (o *spanObserver) OnTurnCompleted(t interview.Turn) {
	metrics.RecordInterviewTurn(string(t.Role), "completed")
	observability.AddTurnEvent(o.span, t.Turn, string(t.Role))
}
