package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "zhipin-server"
)

// GetTracer returns the tracer for the matching service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// InterviewAttributes returns common attributes for interview spans.
func InterviewAttributes(conversationID, userID, jobID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("interview.conversation_id", conversationID),
		attribute.String("interview.user_id", userID),
		attribute.String("interview.job_id", jobID),
	}
}

// StartInterviewSpan starts a new span covering one auto interview run.
func StartInterviewSpan(ctx context.Context, conversationID, userID, jobID string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "interview.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(InterviewAttributes(conversationID, userID, jobID)...),
	)
}

// StartEvaluationSpan starts a new span covering the scoring call.
func StartEvaluationSpan(ctx context.Context, conversationID string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "interview.evaluate",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("interview.conversation_id", conversationID)),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddTurnEvent adds a completed-turn event to a span.
func AddTurnEvent(span trace.Span, turn int, role string) {
	span.AddEvent("turn.completed",
		trace.WithAttributes(
			attribute.Int("turn.number", turn),
			attribute.String("turn.role", role),
		),
	)
}

// AddScoreEvent adds the evaluation verdict to a span.
func AddScoreEvent(span trace.Span, score int, matched bool) {
	span.AddEvent("evaluation.scored",
		trace.WithAttributes(
			attribute.Int("evaluation.score", score),
			attribute.Bool("evaluation.matched", matched),
		),
	)
}
